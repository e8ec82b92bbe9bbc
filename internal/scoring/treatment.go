package scoring

import (
	"cmp"
	"slices"
)

// PlannedMeasure - мера обработки, готовая к приоритизации.
type PlannedMeasure struct {
	ID          string    `json:"id"`
	Strategy    Strategy  `json:"strategy"`
	Cost        float64   `json:"cost"`
	DelayDays   int       `json:"delay_days"`
	Original    RiskLevel `json:"original_level"`
	Residual    RiskLevel `json:"residual_level"`
	Transferred bool      `json:"transferred"`
	// остаток по эффективности, если она указана у меры
	EfficacyResidual RiskLevel `json:"efficacy_residual,omitempty"`
	Phase            Phase     `json:"phase"`
	ReviewDays       int       `json:"review_days"`
}

// PrioritizeTreatmentPlan сортирует меры по убыванию остаточного уровня, затем
// по возрастанию стоимости и коду. Входной срез не меняется.
func PrioritizeTreatmentPlan(measures []PlannedMeasure) []PlannedMeasure {
	out := slices.Clone(measures)
	slices.SortFunc(out, func(a, b PlannedMeasure) int {
		if c := cmp.Compare(b.Residual, a.Residual); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Cost, b.Cost); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

type Phase int

const (
	PhaseUrgent    Phase = iota + 1 // 0-3 месяца
	PhaseShortTerm                  // 3-6 месяцев
	PhaseMidTerm                    // 6-12 месяцев
)

// PhaseFor: до 90 дней фаза 1, до 180 фаза 2, дальше фаза 3.
func PhaseFor(delayDays int) (Phase, error) {
	switch {
	case delayDays < 0:
		return 0, InvalidInput("delay", "negative delay %d", delayDays)
	case delayDays <= 90:
		return PhaseUrgent, nil
	case delayDays <= 180:
		return PhaseShortTerm, nil
	default:
		return PhaseMidTerm, nil
	}
}

// ReviewIntervalDays - период пересмотра принятого риска: раз в квартал от
// high и выше, иначе раз в год.
func ReviewIntervalDays(residual RiskLevel) int {
	if residual >= LevelHigh {
		return 90
	}
	return 365
}
