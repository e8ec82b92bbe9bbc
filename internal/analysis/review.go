package analysis

import (
	"fmt"

	"ebios-rm/internal/scoring"
)

// Review - блокирующие ошибки и предупреждения о полноте мастерских 2, 4 и 5.
type Review struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

const (
	recommendedSources    = 3
	recommendedObjectives = 3
	recommendedCoverage   = 80.0
)

func review(rec Records, r *Report) Review {
	out := Review{Errors: []string{}, Warnings: []string{}}
	fail := func(format string, args ...any) { out.Errors = append(out.Errors, fmt.Sprintf(format, args...)) }
	warn := func(format string, args ...any) { out.Warnings = append(out.Warnings, fmt.Sprintf(format, args...)) }

	// мастерская 2
	if len(rec.W2.Sources) == 0 {
		fail("workshop 2: no risk source defined")
	}
	if len(rec.W2.Objectives) == 0 {
		fail("workshop 2: no targeted objective defined")
	}
	if len(rec.W2.Pairs) == 0 {
		fail("workshop 2: no SR/OV pair mapped")
	}
	if len(rec.W2.Sources) < recommendedSources {
		warn("workshop 2: fewer than %d risk sources (3-7 recommended)", recommendedSources)
	}
	if len(rec.W2.Objectives) < recommendedObjectives {
		warn("workshop 2: fewer than %d targeted objectives (3-10 recommended)", recommendedObjectives)
	}
	if len(rec.W2.Sources) > 0 && r.Coverage.Sources < recommendedCoverage {
		warn("workshop 2: only %.1f%% of risk sources are paired", r.Coverage.Sources)
	}
	if len(rec.W2.Objectives) > 0 && r.Coverage.Objectives < recommendedCoverage {
		warn("workshop 2: only %.1f%% of objectives are paired", r.Coverage.Objectives)
	}

	// мастерская 4
	if len(r.Gaps) > 0 {
		warn("workshop 4: %d attack steps not covered by an existing measure", len(r.Gaps))
	}

	// мастерская 5: мера на стратегическом сценарии покрывает и его операционные,
	// формально принятый риск считается обработанным
	rc := reachOf(rec)
	covered := map[string]bool{}
	for _, m := range rec.W5.Measures {
		for _, code := range rc.expand(m.Scenarios) {
			covered[code] = true
		}
	}
	for _, a := range rec.W5.Acceptances {
		covered[a.Scenario] = true
	}

	scenarios := r.assessed()
	if len(scenarios) == 0 {
		fail("workshop 5: no risk identified")
	}
	var untreated, untreatedCritical int
	for _, s := range scenarios {
		if covered[s.Code] {
			continue
		}
		untreated++
		if s.Level == scoring.LevelCritical {
			untreatedCritical++
		}
	}
	if untreatedCritical > 0 {
		fail("workshop 5: %d critical risks untreated", untreatedCritical)
	}
	if untreated > 0 {
		warn("workshop 5: %d risks without a treatment measure", untreated)
	}
	if len(rec.W5.Measures) == 0 {
		warn("workshop 5: no treatment measure defined")
	}
	var acceptedCritical int
	for _, a := range r.Acceptances {
		if a.Residual == scoring.LevelCritical {
			acceptedCritical++
		}
	}
	if acceptedCritical > 0 {
		warn("workshop 5: %d accepted risks remain critical", acceptedCritical)
	}

	out.Valid = len(out.Errors) == 0
	return out
}
