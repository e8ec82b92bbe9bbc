package scoring

// Pertinence оценивает пару SR×OV как round(sr*ov/4) в пределах 1..4.
//
//	Pertinence(3, 2) == 2 // round(1.5)
//	Pertinence(1, 1) == 1 // round(0.25) поднимается до 1
func Pertinence(sr, ov Scale) (Scale, error) {
	if err := sr.Check("source score"); err != nil {
		return 0, err
	}
	if err := ov.Check("objective score"); err != nil {
		return 0, err
	}
	return clamp(roundHalfUp(float64(sr*ov) / 4)), nil
}
