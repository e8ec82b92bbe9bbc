package scoring

import "strings"

// Strategy - вариант обработки риска.
type Strategy string

const (
	StrategyAccept   Strategy = "accept"
	StrategyAvoid    Strategy = "avoid"
	StrategyReduce   Strategy = "reduce"
	StrategyTransfer Strategy = "transfer"
)

// ParseStrategy принимает английские теги и французские названия.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "acceptation":
		return StrategyAccept, nil
	case "avoid", "évitement", "evitement":
		return StrategyAvoid, nil
	case "reduce", "atténuation", "attenuation":
		return StrategyReduce, nil
	case "transfer", "transfert":
		return StrategyTransfer, nil
	}
	return "", InvalidInput("strategy", "unknown treatment strategy %q", s)
}

// Mitigation - политика снижения риска, принятая в организации.
type Mitigation struct {
	// на сколько уровней снижает риск стратегия reduce
	ReduceSteps int
}

var DefaultMitigation = Mitigation{ReduceSteps: 1}

func (m Mitigation) Check() error {
	if m.ReduceSteps < 1 || m.ReduceSteps > int(LevelCritical)-1 {
		return InvalidInput("reduce steps", "%d outside 1..%d", m.ReduceSteps, int(LevelCritical)-1)
	}
	return nil
}

type Residual struct {
	Level RiskLevel `json:"level"`
	// уровень прежний, риск несёт третья сторона
	Transferred bool `json:"transferred"`
}

// ResidualRisk применяет стратегию к исходному уровню. Ниже low не опускается.
func ResidualRisk(original RiskLevel, strategy Strategy, m Mitigation) (Residual, error) {
	if !original.Valid() {
		return Residual{}, InvalidInput("risk level", "%d outside %d..%d", int(original), LevelLow, LevelCritical)
	}
	if err := m.Check(); err != nil {
		return Residual{}, err
	}
	switch strategy {
	case StrategyAccept:
		return Residual{Level: original}, nil
	case StrategyAvoid:
		return Residual{Level: LevelLow}, nil
	case StrategyReduce:
		l := original - RiskLevel(m.ReduceSteps)
		if l < LevelLow {
			l = LevelLow
		}
		return Residual{Level: l}, nil
	case StrategyTransfer:
		return Residual{Level: original, Transferred: true}, nil
	}
	return Residual{}, InvalidInput("strategy", "unknown treatment strategy %q", string(strategy))
}

// ResidualFromEfficacy снижает уровень пропорционально эффективности из [0,1]:
// max(low, round(level - level*efficacy)).
func ResidualFromEfficacy(original RiskLevel, efficacy float64) (RiskLevel, error) {
	if !original.Valid() {
		return 0, InvalidInput("risk level", "%d outside %d..%d", int(original), LevelLow, LevelCritical)
	}
	if efficacy < 0 || efficacy > 1 {
		return 0, InvalidInput("efficacy", "%g outside 0..1", efficacy)
	}
	l := RiskLevel(roundHalfUp(float64(original) * (1 - efficacy)))
	if l < LevelLow {
		l = LevelLow
	}
	return l, nil
}
