package scoring

// Zone - положение участника на карте угроз экосистемы.
type Zone string

const (
	ZoneDanger  Zone = "danger"
	ZoneControl Zone = "control"
	ZoneWatch   Zone = "watch"
)

// пороги угрозы участника
const (
	dangerThreshold  = 2.0
	controlThreshold = 1.0
)

type StakeholderExposure struct {
	Threat float64 `json:"threat"`
	Zone   Zone    `json:"zone"`
}

// StakeholderThreat = (зависимость*проникновение)/(зрелость*доверие).
func StakeholderThreat(dependency, penetration, maturity, trust Scale) (StakeholderExposure, error) {
	for _, f := range []struct {
		name string
		v    Scale
	}{
		{"dependency", dependency},
		{"penetration", penetration},
		{"maturity", maturity},
		{"trust", trust},
	} {
		if err := f.v.Check(f.name); err != nil {
			return StakeholderExposure{}, err
		}
	}
	t := float64(dependency*penetration) / float64(maturity*trust)
	t = float64(roundHalfUp(t*100)) / 100

	zone := ZoneWatch
	switch {
	case t >= dangerThreshold:
		zone = ZoneDanger
	case t >= controlThreshold:
		zone = ZoneControl
	}
	return StakeholderExposure{Threat: t, Zone: zone}, nil
}
