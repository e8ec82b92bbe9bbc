package scoring

// Exposure - сводка уровней риска по всему анализу.
type Exposure struct {
	Mean         float64        `json:"mean"`
	Level        RiskLevel      `json:"level,omitempty"`
	Total        int            `json:"total"`
	Distribution map[string]int `json:"distribution"`
	CriticalPct  float64        `json:"critical_pct"`
}

// GlobalExposure усредняет уровни: >=3.5 critical, >=2.5 high, >=1.5 medium,
// иначе low. Для пустого списка уровень не задаётся.
func GlobalExposure(levels []RiskLevel) (Exposure, error) {
	e := Exposure{Distribution: make(map[string]int, len(levelNames))}
	for _, l := range Levels() {
		e.Distribution[l.String()] = 0
	}
	if len(levels) == 0 {
		return e, nil
	}

	var sum int
	for _, l := range levels {
		if !l.Valid() {
			return Exposure{}, InvalidInput("risk level", "%d outside %d..%d", int(l), LevelLow, LevelCritical)
		}
		sum += int(l)
		e.Distribution[l.String()]++
	}
	e.Total = len(levels)
	e.Mean = round2(float64(sum) / float64(len(levels)))
	switch {
	case e.Mean >= 3.5:
		e.Level = LevelCritical
	case e.Mean >= 2.5:
		e.Level = LevelHigh
	case e.Mean >= 1.5:
		e.Level = LevelMedium
	default:
		e.Level = LevelLow
	}
	e.CriticalPct = round1(float64(e.Distribution[LevelCritical.String()]) / float64(e.Total) * 100)
	return e, nil
}

func round1(v float64) float64 { return float64(roundHalfUp(v*10)) / 10 }
func round2(v float64) float64 { return float64(roundHalfUp(v*100)) / 100 }

type Compliance struct {
	Rate      float64 `json:"rate"`
	Critical  int     `json:"critical_domains"`
	Compliant int     `json:"compliant_domains"`
}

// BaselineCompliance: домены ниже 60 критичны, от 80 соответствуют.
func BaselineCompliance(scores []float64) (Compliance, error) {
	var c Compliance
	if len(scores) == 0 {
		return c, nil
	}
	var sum float64
	for _, s := range scores {
		if s < 0 || s > 100 {
			return Compliance{}, InvalidInput("baseline score", "%g outside 0..100", s)
		}
		sum += s
		switch {
		case s < 60:
			c.Critical++
		case s >= 80:
			c.Compliant++
		}
	}
	c.Rate = round1(sum / float64(len(scores)))
	return c, nil
}
