package scoring

// MaxControlReduction - предел снижения риска существующими мерами.
const MaxControlReduction = 0.9

// MaxCombinedEfficacy - предел суммарной эффективности мер обработки одного риска.
const MaxCombinedEfficacy = 0.95

func checkEfficacy(e float64) error {
	if e < 0 || e > 1 {
		return InvalidInput("efficacy", "%g outside 0..1", e)
	}
	return nil
}

// ControlReduction - доля риска, снятая существующими мерами на пути атаки.
// covering[i] содержит эффективности мер, покрывающих шаг i. Результат:
// покрытые/все шаги × (сумма эффективностей / покрытые шаги), не больше
// MaxControlReduction. Без покрытия 0.
func ControlReduction(covering [][]float64) (float64, error) {
	var covered int
	var total float64
	for _, effs := range covering {
		for _, e := range effs {
			if err := checkEfficacy(e); err != nil {
				return 0, err
			}
			total += e
		}
		if len(effs) > 0 {
			covered++
		}
	}
	if covered == 0 {
		return 0, nil
	}
	r := float64(covered) / float64(len(covering)) * (total / float64(covered))
	return min(r, MaxControlReduction), nil
}

// CombinedEfficacy складывает эффективности мер одного риска, не больше
// MaxCombinedEfficacy.
func CombinedEfficacy(efficacies []float64) (float64, error) {
	var sum float64
	for _, e := range efficacies {
		if err := checkEfficacy(e); err != nil {
			return 0, err
		}
		sum += e
	}
	return min(sum, MaxCombinedEfficacy), nil
}
