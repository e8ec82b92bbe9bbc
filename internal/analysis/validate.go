package analysis

import (
	"errors"
	"strings"

	"ebios-rm/internal/catalog"
	"ebios-rm/internal/models"
	"ebios-rm/internal/scoring"
)

var errNoCatalog = errors.New("analysis: reference catalog is not loaded")

type codeSet map[string]struct{}

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

func collect[T any](kind string, rows []T, code func(T) string) (codeSet, error) {
	set := make(codeSet, len(rows))
	for _, r := range rows {
		c := code(r)
		if strings.TrimSpace(c) == "" {
			return nil, scoring.InvalidInput(kind, "empty code")
		}
		if set.has(c) {
			return nil, scoring.InvalidInput(kind, "duplicate code %q", c)
		}
		set[c] = struct{}{}
	}
	return set, nil
}

func requireName(kind, code, name string) error {
	if strings.TrimSpace(name) == "" {
		return scoring.InvalidInput(kind+" "+code, "name is required")
	}
	return nil
}

// Validate проверяет каждую запись и то, что каждая ссылка ведёт на запись
// того же анализа или на справочник. Останавливается на первой ошибке.
func Validate(rec Records, cat *catalog.Catalog) error {
	if cat == nil {
		return errNoCatalog
	}

	// ====== МАСТЕРСКАЯ 1 ======
	if _, err := collect("mission", rec.W1.Missions, func(m models.Mission) string { return m.Code }); err != nil {
		return err
	}
	for _, m := range rec.W1.Missions {
		if err := requireName("mission", m.Code, m.Name); err != nil {
			return err
		}
		if err := m.Criticality.Check("criticality of " + m.Code); err != nil {
			return err
		}
	}

	values, err := collect("business value", rec.W1.BusinessValues, func(v models.BusinessValue) string { return v.Code })
	if err != nil {
		return err
	}
	for _, v := range rec.W1.BusinessValues {
		if err := requireName("business value", v.Code, v.Name); err != nil {
			return err
		}
		if err := v.Sensitivity().Check(); err != nil {
			return scoring.InvalidInput("business value "+v.Code, "%v", err)
		}
	}

	assets, err := collect("supporting asset", rec.W1.Assets, func(a models.SupportingAsset) string { return a.Code })
	if err != nil {
		return err
	}
	for _, a := range rec.W1.Assets {
		if err := requireName("supporting asset", a.Code, a.Name); err != nil {
			return err
		}
		for _, ref := range a.BusinessValues {
			if !values.has(ref) {
				return scoring.DanglingReference("supporting asset "+a.Code, "business value", ref)
			}
		}
	}

	events, err := collect("redouted event", rec.W1.Events, func(e models.RedoutedEvent) string { return e.Code })
	if err != nil {
		return err
	}
	for _, e := range rec.W1.Events {
		if err := requireName("redouted event", e.Code, e.Name); err != nil {
			return err
		}
		if err := e.Impacts().Check(); err != nil {
			return scoring.InvalidInput("redouted event "+e.Code, "%v", err)
		}
		if e.BusinessValue != "" && !values.has(e.BusinessValue) {
			return scoring.DanglingReference("redouted event "+e.Code, "business value", e.BusinessValue)
		}
		for _, ref := range e.Assets {
			if !assets.has(ref) {
				return scoring.DanglingReference("redouted event "+e.Code, "supporting asset", ref)
			}
		}
	}

	if _, err := collect("baseline domain", rec.W1.Baseline, func(d models.BaselineDomain) string { return d.Domain }); err != nil {
		return err
	}
	for _, d := range rec.W1.Baseline {
		if d.Score < 0 || d.Score > 100 {
			return scoring.InvalidInput("baseline domain "+d.Domain, "score %g outside 0..100", d.Score)
		}
	}

	// ====== МАСТЕРСКАЯ 2 ======
	sources, err := collect("risk source", rec.W2.Sources, func(s models.RiskSource) string { return s.Code })
	if err != nil {
		return err
	}
	for _, s := range rec.W2.Sources {
		if err := requireName("risk source", s.Code, s.Name); err != nil {
			return err
		}
		if _, ok := cat.Category(s.Category); !ok {
			return scoring.DanglingReference("risk source "+s.Code, "risk source category", s.Category)
		}
		if _, err := scoring.Capability(s.Resources, s.Determination, s.Skills); err != nil {
			return scoring.InvalidInput("risk source "+s.Code, "%v", err)
		}
	}

	objectives, err := collect("objective", rec.W2.Objectives, func(o models.TargetedObjective) string { return o.Code })
	if err != nil {
		return err
	}
	for _, o := range rec.W2.Objectives {
		if err := requireName("objective", o.Code, o.Name); err != nil {
			return err
		}
		if err := o.Impact.Check("impact of " + o.Code); err != nil {
			return err
		}
	}

	pairs, err := collect("pair", rec.W2.Pairs, pairKey)
	if err != nil {
		return err
	}
	for _, p := range rec.W2.Pairs {
		if !sources.has(p.SourceCode) {
			return scoring.DanglingReference("pair "+pairKey(p), "risk source", p.SourceCode)
		}
		if !objectives.has(p.ObjectiveCode) {
			return scoring.DanglingReference("pair "+pairKey(p), "objective", p.ObjectiveCode)
		}
	}

	// ====== МАСТЕРСКАЯ 3 ======
	stakeholders, err := collect("stakeholder", rec.W3.Stakeholders, func(s models.Stakeholder) string { return s.Code })
	if err != nil {
		return err
	}
	for _, s := range rec.W3.Stakeholders {
		if err := requireName("stakeholder", s.Code, s.Name); err != nil {
			return err
		}
		if _, err := scoring.StakeholderThreat(s.Dependency, s.Penetration, s.Maturity, s.Trust); err != nil {
			return scoring.InvalidInput("stakeholder "+s.Code, "%v", err)
		}
	}

	strategic, err := collect("strategic scenario", rec.W3.Scenarios, func(s models.StrategicScenario) string { return s.Code })
	if err != nil {
		return err
	}
	for _, s := range rec.W3.Scenarios {
		owner := "strategic scenario " + s.Code
		if err := requireName("strategic scenario", s.Code, s.Name); err != nil {
			return err
		}
		if !sources.has(s.SourceCode) {
			return scoring.DanglingReference(owner, "risk source", s.SourceCode)
		}
		if !objectives.has(s.ObjectiveCode) {
			return scoring.DanglingReference(owner, "objective", s.ObjectiveCode)
		}
		if key := s.SourceCode + "/" + s.ObjectiveCode; !pairs.has(key) {
			return scoring.DanglingReference(owner, "SR/OV pair", key)
		}
		for _, ref := range s.Events {
			if !events.has(ref) {
				return scoring.DanglingReference(owner, "redouted event", ref)
			}
		}
		for _, ref := range s.Stakeholders {
			if !stakeholders.has(ref) {
				return scoring.DanglingReference(owner, "stakeholder", ref)
			}
		}
		if err := s.Gravity.Check("gravity of " + s.Code); err != nil {
			return err
		}
		if err := s.Likelihood.Check("likelihood of " + s.Code); err != nil {
			return err
		}
	}

	// ====== МАСТЕРСКАЯ 4 ======
	operational, err := collect("operational scenario", rec.W4.Scenarios, func(s models.OperationalScenario) string { return s.Code })
	if err != nil {
		return err
	}
	steps := codeSet{}
	detailed := codeSet{}
	for _, s := range rec.W4.Scenarios {
		owner := "operational scenario " + s.Code
		detailed[s.StrategicCode] = struct{}{}
		if strategic.has(s.Code) {
			return scoring.InvalidInput(owner, "code %q is already used by a strategic scenario", s.Code)
		}
		if err := requireName("operational scenario", s.Code, s.Name); err != nil {
			return err
		}
		if !strategic.has(s.StrategicCode) {
			return scoring.DanglingReference(owner, "strategic scenario", s.StrategicCode)
		}
		if len(s.Steps) == 0 {
			if err := s.Likelihood.Check("likelihood of " + s.Code); err != nil {
				return err
			}
			continue
		}
		if s.Likelihood != 0 {
			return scoring.InvalidInput(owner, "likelihood is derived from the attack steps and must not be set")
		}
		for i, st := range s.Steps {
			if strings.TrimSpace(st.Action) == "" {
				return scoring.InvalidInput(owner, "step %d: action is required", i+1)
			}
			if st.Code != "" {
				if steps.has(st.Code) {
					return scoring.InvalidInput(owner, "step %d: duplicate step code %q", i+1, st.Code)
				}
				steps[st.Code] = struct{}{}
			}
			if st.Technique != "" {
				if _, ok := cat.Technique(st.Technique); !ok {
					return scoring.DanglingReference(owner, "ATT&CK technique", st.Technique)
				}
			}
			if _, err := scoring.ActionLikelihood(st.Difficulty, st.Detectability); err != nil {
				return scoring.InvalidInput(owner, "step %d: %v", i+1, err)
			}
		}
	}

	if _, err := collect("existing measure", rec.W4.Existing, func(m models.ExistingMeasure) string { return m.Code }); err != nil {
		return err
	}
	for _, m := range rec.W4.Existing {
		owner := "existing measure " + m.Code
		if err := requireName("existing measure", m.Code, m.Name); err != nil {
			return err
		}
		if m.Efficacy < 0 || m.Efficacy > 1 {
			return scoring.InvalidInput(owner, "efficacy %g outside 0..1", m.Efficacy)
		}
		for _, ref := range m.Covers {
			if !steps.has(ref) {
				return scoring.DanglingReference(owner, "attack step", ref)
			}
		}
	}

	// ====== МАСТЕРСКАЯ 5 ======
	if _, err := collect("measure", rec.W5.Measures, func(m models.TreatmentMeasure) string { return m.Code }); err != nil {
		return err
	}
	for _, m := range rec.W5.Measures {
		owner := "measure " + m.Code
		if err := requireName("measure", m.Code, m.Name); err != nil {
			return err
		}
		if _, err := scoring.ParseStrategy(string(m.Strategy)); err != nil {
			return scoring.InvalidInput(owner, "%v", err)
		}
		if m.Cost < 0 {
			return scoring.InvalidInput(owner, "negative cost %g", m.Cost)
		}
		if m.DelayDays < 0 {
			return scoring.InvalidInput(owner, "negative delay %d", m.DelayDays)
		}
		if len(m.Scenarios) == 0 {
			return scoring.InvalidInput(owner, "no scenario referenced")
		}
		for _, ref := range m.Scenarios {
			if !strategic.has(ref) && !operational.has(ref) {
				return scoring.DanglingReference(owner, "scenario", ref)
			}
		}
		if m.CatalogRef != "" {
			if _, ok := cat.Measure(m.CatalogRef); !ok {
				return scoring.DanglingReference(owner, "ISO 27001 measure", m.CatalogRef)
			}
		}
		if m.Efficacy != nil && (*m.Efficacy < 0 || *m.Efficacy > 1) {
			return scoring.InvalidInput(owner, "efficacy %g outside 0..1", *m.Efficacy)
		}
	}

	// принимается риск, который оценивается: операционный сценарий или
	// стратегический без операционной детализации
	if _, err := collect("risk acceptance", rec.W5.Acceptances, func(a models.RiskAcceptance) string { return a.Scenario }); err != nil {
		return err
	}
	for _, a := range rec.W5.Acceptances {
		owner := "acceptance of " + a.Scenario
		if !strategic.has(a.Scenario) && !operational.has(a.Scenario) {
			return scoring.DanglingReference(owner, "scenario", a.Scenario)
		}
		if detailed.has(a.Scenario) {
			return scoring.InvalidInput(owner, "risk is assessed through the operational scenarios of %s", a.Scenario)
		}
		if strings.TrimSpace(a.Acceptor) == "" {
			return scoring.InvalidInput(owner, "acceptor is required")
		}
		if strings.TrimSpace(a.Justification) == "" {
			return scoring.InvalidInput(owner, "justification is required")
		}
		if a.AcceptedAt.IsZero() {
			return scoring.InvalidInput(owner, "acceptance date is required")
		}
	}
	return nil
}

func pairKey(p models.SourceObjectivePair) string {
	if p.SourceCode == "" || p.ObjectiveCode == "" {
		return ""
	}
	return p.SourceCode + "/" + p.ObjectiveCode
}
