package scoring

type LossExpectancy struct {
	SLE     float64 `json:"sle"`
	ARO     float64 `json:"aro"`
	ALE     float64 `json:"ale"`
	Monthly float64 `json:"monthly"`
}

// AnnualLossExpectancy: ALE = SLE × ARO.
func AnnualLossExpectancy(sle, aro float64) (LossExpectancy, error) {
	if sle < 0 {
		return LossExpectancy{}, InvalidInput("sle", "negative single loss %g", sle)
	}
	if aro < 0 {
		return LossExpectancy{}, InvalidInput("aro", "negative occurrence rate %g", aro)
	}
	ale := sle * aro
	return LossExpectancy{SLE: sle, ARO: aro, ALE: round2(ale), Monthly: round2(ale / 12)}, nil
}

// MeasureROI - рентабельность меры в процентах.
type MeasureROI struct {
	Cost         float64 `json:"cost"`
	ExpectedGain float64 `json:"expected_gain"`
	ROIPct       float64 `json:"roi_pct"`
	// мера без затрат, ROI не ограничен
	Free bool `json:"free"`
}

// ROI оценивает выгоду как avoided/4 × incidentCost и сравнивает с затратами.
func ROI(cost float64, avoided RiskLevel, incidentCost float64) (MeasureROI, error) {
	if cost < 0 {
		return MeasureROI{}, InvalidInput("cost", "negative cost %g", cost)
	}
	if !avoided.Valid() {
		return MeasureROI{}, InvalidInput("risk level", "%d outside %d..%d", int(avoided), LevelLow, LevelCritical)
	}
	if incidentCost < 0 {
		return MeasureROI{}, InvalidInput("incident cost", "negative cost %g", incidentCost)
	}
	gain := float64(avoided) / float64(LevelCritical) * incidentCost
	r := MeasureROI{Cost: cost, ExpectedGain: round2(gain)}
	if cost == 0 {
		r.Free = true
		return r, nil
	}
	r.ROIPct = round2((gain - cost) / cost * 100)
	return r, nil
}
