package scoring

import "math"

// Scale - значение порядковой шкалы 1..4.
type Scale int

const (
	MinScale Scale = 1
	MaxScale Scale = 4
)

func (s Scale) Valid() bool {
	return s >= MinScale && s <= MaxScale
}

// Check возвращает ошибку ErrInvalidInput с именем поля, если s вне шкалы.
func (s Scale) Check(field string) error {
	if !s.Valid() {
		return InvalidInput(field, "scale value %d outside %d..%d", int(s), MinScale, MaxScale)
	}
	return nil
}

// roundHalfUp: 1.5 -> 2, 2.5 -> 3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v int) Scale {
	if v < int(MinScale) {
		return MinScale
	}
	if v > int(MaxScale) {
		return MaxScale
	}
	return Scale(v)
}

// bucket переводит непрерывную оценку на шкалу по порогам 1.5, 2.5 и 3.5.
func bucket(score float64) Scale {
	switch {
	case score <= 1.5:
		return 1
	case score <= 2.5:
		return 2
	case score <= 3.5:
		return 3
	default:
		return 4
	}
}
