package scoring

// ActionLikelihood оценивает элементарное действие атаки: простые и
// незаметные действия вероятнее. detectability 4 - легко обнаружить.
func ActionLikelihood(difficulty, detectability Scale) (Scale, error) {
	if err := difficulty.Check("difficulty"); err != nil {
		return 0, err
	}
	if err := detectability.Check("detectability"); err != nil {
		return 0, err
	}
	score := float64((5-difficulty)+(5-detectability)) / 2
	return bucket(score), nil
}

// PathLikelihood - округлённое среднее вероятностей шагов.
func PathLikelihood(steps []Scale) (Scale, error) {
	if len(steps) == 0 {
		return 0, InvalidInput("attack path", "no steps")
	}
	var sum int
	for i, s := range steps {
		if err := s.Check("step likelihood"); err != nil {
			return 0, InvalidInput("attack path", "step %d: %v", i+1, err)
		}
		sum += int(s)
	}
	return clamp(roundHalfUp(float64(sum) / float64(len(steps)))), nil
}

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

func PathComplexity(steps int) Complexity {
	switch {
	case steps <= 2:
		return ComplexityLow
	case steps <= 4:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}
