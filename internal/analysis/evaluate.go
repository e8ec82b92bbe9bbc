package analysis

import (
	"cmp"
	"math"
	"slices"
	"time"

	"ebios-rm/internal/catalog"
	"ebios-rm/internal/models"
	"ebios-rm/internal/scoring"
)

// Options - политика оценки организации и справочник.
type Options struct {
	Matrix     scoring.Matrix
	Mitigation scoring.Mitigation
	Catalog    *catalog.Catalog
}

type EventScore struct {
	Code    string        `json:"code"`
	Gravity scoring.Scale `json:"gravity"`
}

type SourceScore struct {
	Code       string        `json:"code"`
	Category   string        `json:"category"`
	Capability scoring.Scale `json:"capability"`
}

type StakeholderScore struct {
	Code string `json:"code"`
	scoring.StakeholderExposure
}

// Coverage - доля (в процентах) источников и целей, входящих хотя бы в одну пару.
type Coverage struct {
	Sources    float64 `json:"sources_pct"`
	Objectives float64 `json:"objectives_pct"`
}

type ScenarioScore struct {
	Code       string            `json:"code"`
	Gravity    scoring.Scale     `json:"gravity"`
	Likelihood scoring.Scale     `json:"likelihood"`
	Level      scoring.RiskLevel `json:"level"`
}

// OperationalScore дополняет оценку путём атаки. CurrentLevel - Level после
// снижения действующими мерами.
type OperationalScore struct {
	ScenarioScore
	Strategic           string             `json:"strategic"`
	Complexity          scoring.Complexity `json:"complexity"`
	Techniques          []string           `json:"techniques"`
	RecommendedMeasures []string           `json:"recommended_measures"`
	ReductionPct        float64            `json:"existing_reduction_pct"`
	CurrentLevel        scoring.RiskLevel  `json:"current_level"`
}

// Gap - шаг атаки без действующей меры.
type Gap struct {
	Scenario   string        `json:"scenario"`
	Step       int           `json:"step"`
	Code       string        `json:"code,omitempty"`
	Action     string        `json:"action"`
	Technique  string        `json:"technique,omitempty"`
	Likelihood scoring.Scale `json:"likelihood"`
}

// ScenarioResidual - остаточный риск оцениваемого сценария после всех
// покрывающих мер. Residual - лучший результат по стратегиям, EfficacyLevel
// задан, если хотя бы у одной меры указана эффективность.
type ScenarioResidual struct {
	Code          string            `json:"code"`
	Level         scoring.RiskLevel `json:"level"`
	Residual      scoring.RiskLevel `json:"residual_level"`
	Transferred   bool              `json:"transferred"`
	Measures      []string          `json:"measures"`
	EfficacyPct   float64           `json:"efficacy_pct,omitempty"`
	EfficacyLevel scoring.RiskLevel `json:"efficacy_level,omitempty"`
	Accepted      bool              `json:"accepted"`
}

// AcceptedRisk - формальное принятие риска с датой следующего пересмотра.
type AcceptedRisk struct {
	Scenario      string            `json:"scenario"`
	Acceptor      string            `json:"acceptor"`
	Justification string            `json:"justification"`
	Conditions    []string          `json:"conditions"`
	Residual      scoring.RiskLevel `json:"residual_level"`
	AcceptedAt    time.Time         `json:"accepted_at"`
	ReviewDue     time.Time         `json:"review_due"`
}

// Report - все оценки, рассчитанные по записям анализа. Списки упорядочены по
// коду, кроме Pairs (по рангу) и Plan (по приоритету).
type Report struct {
	Events       []EventScore         `json:"events"`
	Sources      []SourceScore        `json:"sources"`
	Pairs        []scoring.RankedPair `json:"pairs"`
	Coverage     Coverage             `json:"coverage"`
	Stakeholders []StakeholderScore   `json:"stakeholders"`
	Strategic    []ScenarioScore      `json:"strategic_scenarios"`
	Operational  []OperationalScore   `json:"operational_scenarios"`

	Gaps []Gap `json:"gaps"`

	StrategicGrid   scoring.Grid `json:"strategic_matrix"`
	OperationalGrid scoring.Grid `json:"operational_matrix"`

	Plan        []scoring.PlannedMeasure `json:"treatment_plan"`
	Residuals   []ScenarioResidual       `json:"residual_risks"`
	Acceptances []AcceptedRisk           `json:"accepted_risks"`
	Exposure    scoring.Exposure         `json:"exposure"`
	Baseline    scoring.Compliance       `json:"baseline"`
	Review      Review                   `json:"review"`
}

func (r *Report) Level(code string) (scoring.RiskLevel, bool) {
	for _, s := range r.Strategic {
		if s.Code == code {
			return s.Level, true
		}
	}
	for _, s := range r.Operational {
		if s.Code == code {
			return s.Level, true
		}
	}
	return 0, false
}

// assessed - сценарии, по которым оценивается риск: операционные и
// стратегические без операционной детализации.
func (r *Report) assessed() []ScenarioScore {
	detailed := make(map[string]bool, len(r.Operational))
	out := make([]ScenarioScore, 0, len(r.Strategic)+len(r.Operational))
	for _, s := range r.Operational {
		detailed[s.Strategic] = true
		out = append(out, s.ScenarioScore)
	}
	for _, s := range r.Strategic {
		if !detailed[s.Code] {
			out = append(out, s)
		}
	}
	return out
}

// reach: стратегический сценарий -> его операционные. Мера на стратегическом
// сценарии покрывает и их.
type reach map[string][]string

func reachOf(rec Records) reach {
	out := reach{}
	for _, s := range rec.W4.Scenarios {
		out[s.StrategicCode] = append(out[s.StrategicCode], s.Code)
	}
	return out
}

func (rc reach) expand(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, c)
		out = append(out, rc[c]...)
	}
	return out
}

func byCode[T any](rows []T, code func(T) string) []T {
	out := slices.Clone(rows)
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(code(a), code(b)) })
	return out
}

// Evaluate проверяет rec и рассчитывает отчёт. rec не меняется.
func Evaluate(rec Records, opts Options) (*Report, error) {
	if err := opts.Mitigation.Check(); err != nil {
		return nil, err
	}
	if err := Validate(rec, opts.Catalog); err != nil {
		return nil, err
	}

	r := &Report{
		Events:       []EventScore{},
		Sources:      []SourceScore{},
		Stakeholders: []StakeholderScore{},
		Strategic:    []ScenarioScore{},
		Operational:  []OperationalScore{},
		Gaps:         []Gap{},
		Residuals:    []ScenarioResidual{},
		Acceptances:  []AcceptedRisk{},
	}
	rc := reachOf(rec)

	// ====== ОПАСАЕМЫЕ СОБЫТИЯ ======
	for _, e := range byCode(rec.W1.Events, func(e models.RedoutedEvent) string { return e.Code }) {
		g, err := scoring.Severity(e.Impacts())
		if err != nil {
			return nil, err
		}
		r.Events = append(r.Events, EventScore{Code: e.Code, Gravity: g})
	}

	baseline := make([]float64, 0, len(rec.W1.Baseline))
	for _, d := range rec.W1.Baseline {
		baseline = append(baseline, d.Score)
	}
	compliance, err := scoring.BaselineCompliance(baseline)
	if err != nil {
		return nil, err
	}
	r.Baseline = compliance

	// ====== ПАРЫ SR×OV ======
	capability := make(map[string]scoring.Scale, len(rec.W2.Sources))
	for _, s := range byCode(rec.W2.Sources, func(s models.RiskSource) string { return s.Code }) {
		c, err := scoring.Capability(s.Resources, s.Determination, s.Skills)
		if err != nil {
			return nil, err
		}
		capability[s.Code] = c
		r.Sources = append(r.Sources, SourceScore{Code: s.Code, Category: s.Category, Capability: c})
	}
	impact := make(map[string]scoring.Scale, len(rec.W2.Objectives))
	for _, o := range rec.W2.Objectives {
		impact[o.Code] = o.Impact
	}

	pairs := make([]scoring.Pair, 0, len(rec.W2.Pairs))
	usedSources, usedObjectives := map[string]bool{}, map[string]bool{}
	for _, p := range rec.W2.Pairs {
		pairs = append(pairs, scoring.Pair{
			SourceID:       p.SourceCode,
			ObjectiveID:    p.ObjectiveCode,
			SourceScore:    capability[p.SourceCode],
			ObjectiveScore: impact[p.ObjectiveCode],
		})
		usedSources[p.SourceCode] = true
		usedObjectives[p.ObjectiveCode] = true
	}
	if r.Pairs, err = scoring.RankPairs(pairs); err != nil {
		return nil, err
	}
	r.Coverage = Coverage{
		Sources:    percent(len(usedSources), len(rec.W2.Sources)),
		Objectives: percent(len(usedObjectives), len(rec.W2.Objectives)),
	}

	// ====== ЭКОСИСТЕМА ======
	for _, s := range byCode(rec.W3.Stakeholders, func(s models.Stakeholder) string { return s.Code }) {
		exp, err := scoring.StakeholderThreat(s.Dependency, s.Penetration, s.Maturity, s.Trust)
		if err != nil {
			return nil, err
		}
		r.Stakeholders = append(r.Stakeholders, StakeholderScore{Code: s.Code, StakeholderExposure: exp})
	}

	// ====== СТРАТЕГИЧЕСКИЕ СЦЕНАРИИ ======
	gravityOf := make(map[string]scoring.Scale, len(rec.W3.Scenarios))
	var strategicPlaces []scoring.Placement
	for _, s := range byCode(rec.W3.Scenarios, func(s models.StrategicScenario) string { return s.Code }) {
		level, err := scoring.RiskLevelOf(s.Gravity, s.Likelihood, opts.Matrix)
		if err != nil {
			return nil, err
		}
		gravityOf[s.Code] = s.Gravity
		r.Strategic = append(r.Strategic, ScenarioScore{Code: s.Code, Gravity: s.Gravity, Likelihood: s.Likelihood, Level: level})
		strategicPlaces = append(strategicPlaces, scoring.Placement{ID: s.Code, Gravity: s.Gravity, Likelihood: s.Likelihood})
	}
	if r.StrategicGrid, err = scoring.BuildMatrix(strategicPlaces, opts.Matrix); err != nil {
		return nil, err
	}

	// ====== ОПЕРАЦИОННЫЕ СЦЕНАРИИ ======
	controls := map[string][]float64{}
	for _, m := range rec.W4.Existing {
		for _, step := range m.Covers {
			controls[step] = append(controls[step], m.Efficacy)
		}
	}
	var operationalPlaces []scoring.Placement
	for _, s := range byCode(rec.W4.Scenarios, func(s models.OperationalScenario) string { return s.Code }) {
		score, err := scoreOperational(s, gravityOf[s.StrategicCode], controls, opts)
		if err != nil {
			return nil, err
		}
		r.Operational = append(r.Operational, score)
		operationalPlaces = append(operationalPlaces, scoring.Placement{ID: s.Code, Gravity: score.Gravity, Likelihood: score.Likelihood})
		r.Gaps = append(r.Gaps, gapsOf(s, controls)...)
	}
	if r.OperationalGrid, err = scoring.BuildMatrix(operationalPlaces, opts.Matrix); err != nil {
		return nil, err
	}

	var levels []scoring.RiskLevel
	for _, s := range r.assessed() {
		levels = append(levels, s.Level)
	}
	if r.Exposure, err = scoring.GlobalExposure(levels); err != nil {
		return nil, err
	}

	// ====== ПЛАН ОБРАБОТКИ ======
	planned := make([]scoring.PlannedMeasure, 0, len(rec.W5.Measures))
	for _, m := range rec.W5.Measures {
		pm, err := planMeasure(m, rc.expand(m.Scenarios), r, opts.Mitigation)
		if err != nil {
			return nil, err
		}
		planned = append(planned, pm)
	}
	r.Plan = scoring.PrioritizeTreatmentPlan(planned)

	if err := r.residuals(rec, rc, opts.Mitigation); err != nil {
		return nil, err
	}
	if err := r.acceptances(rec); err != nil {
		return nil, err
	}

	r.Review = review(rec, r)
	return r, nil
}

func scoreOperational(s models.OperationalScenario, gravity scoring.Scale, controls map[string][]float64, opts Options) (OperationalScore, error) {
	out := OperationalScore{
		ScenarioScore: ScenarioScore{Code: s.Code, Gravity: gravity},
		Strategic:     s.StrategicCode,
		Complexity:    scoring.PathComplexity(len(s.Steps)),
		Techniques:    []string{},
	}
	if len(s.Steps) == 0 {
		out.Likelihood = s.Likelihood
	} else {
		steps := make([]scoring.Scale, 0, len(s.Steps))
		for _, st := range s.Steps {
			l, err := scoring.ActionLikelihood(st.Difficulty, st.Detectability)
			if err != nil {
				return OperationalScore{}, err
			}
			steps = append(steps, l)
			if st.Technique != "" && !slices.Contains(out.Techniques, st.Technique) {
				out.Techniques = append(out.Techniques, st.Technique)
			}
		}
		l, err := scoring.PathLikelihood(steps)
		if err != nil {
			return OperationalScore{}, err
		}
		out.Likelihood = l
	}
	level, err := scoring.RiskLevelOf(out.Gravity, out.Likelihood, opts.Matrix)
	if err != nil {
		return OperationalScore{}, err
	}
	out.Level = level
	out.RecommendedMeasures = opts.Catalog.RecommendedMeasures(out.Techniques...)

	covering := make([][]float64, len(s.Steps))
	for i, st := range s.Steps {
		if st.Code != "" {
			covering[i] = controls[st.Code]
		}
	}
	reduction, err := scoring.ControlReduction(covering)
	if err != nil {
		return OperationalScore{}, err
	}
	out.ReductionPct = roundPct(reduction)
	if out.CurrentLevel, err = scoring.ResidualFromEfficacy(level, reduction); err != nil {
		return OperationalScore{}, err
	}
	return out, nil
}

func gapsOf(s models.OperationalScenario, controls map[string][]float64) []Gap {
	var out []Gap
	for i, st := range s.Steps {
		if st.Code != "" && len(controls[st.Code]) > 0 {
			continue
		}
		// шаги проверены в Validate
		l, _ := scoring.ActionLikelihood(st.Difficulty, st.Detectability)
		out = append(out, Gap{
			Scenario: s.Code, Step: i + 1, Code: st.Code,
			Action: st.Action, Technique: st.Technique, Likelihood: l,
		})
	}
	return out
}

// исходный уровень меры - наивысший среди покрытых сценариев, covered уже
// включает операционные сценарии стратегических ссылок
func planMeasure(m models.TreatmentMeasure, covered []string, r *Report, mit scoring.Mitigation) (scoring.PlannedMeasure, error) {
	strategy, err := scoring.ParseStrategy(string(m.Strategy))
	if err != nil {
		return scoring.PlannedMeasure{}, err
	}
	var original scoring.RiskLevel
	for _, code := range covered {
		if l, ok := r.Level(code); ok && l > original {
			original = l
		}
	}
	res, err := scoring.ResidualRisk(original, strategy, mit)
	if err != nil {
		return scoring.PlannedMeasure{}, err
	}
	phase, err := scoring.PhaseFor(m.DelayDays)
	if err != nil {
		return scoring.PlannedMeasure{}, err
	}
	pm := scoring.PlannedMeasure{
		ID:          m.Code,
		Strategy:    strategy,
		Cost:        m.Cost,
		DelayDays:   m.DelayDays,
		Original:    original,
		Residual:    res.Level,
		Transferred: res.Transferred,
		Phase:       phase,
		ReviewDays:  scoring.ReviewIntervalDays(res.Level),
	}
	if m.Efficacy != nil {
		if pm.EfficacyResidual, err = scoring.ResidualFromEfficacy(original, *m.Efficacy); err != nil {
			return scoring.PlannedMeasure{}, err
		}
	}
	return pm, nil
}

func (r *Report) residuals(rec Records, rc reach, mit scoring.Mitigation) error {
	accepted := map[string]bool{}
	for _, a := range rec.W5.Acceptances {
		accepted[a.Scenario] = true
	}

	byScenario := map[string][]models.TreatmentMeasure{}
	for _, m := range byCode(rec.W5.Measures, func(m models.TreatmentMeasure) string { return m.Code }) {
		seen := map[string]bool{}
		for _, code := range rc.expand(m.Scenarios) {
			if !seen[code] {
				seen[code] = true
				byScenario[code] = append(byScenario[code], m)
			}
		}
	}

	for _, s := range byCode(r.assessed(), func(s ScenarioScore) string { return s.Code }) {
		out := ScenarioResidual{Code: s.Code, Level: s.Level, Residual: s.Level, Measures: []string{}, Accepted: accepted[s.Code]}
		var efficacies []float64
		for _, m := range byScenario[s.Code] {
			strategy, err := scoring.ParseStrategy(string(m.Strategy))
			if err != nil {
				return err
			}
			res, err := scoring.ResidualRisk(s.Level, strategy, mit)
			if err != nil {
				return err
			}
			if res.Level < out.Residual {
				out.Residual = res.Level
			}
			out.Transferred = out.Transferred || res.Transferred
			out.Measures = append(out.Measures, m.Code)
			if m.Efficacy != nil {
				efficacies = append(efficacies, *m.Efficacy)
			}
		}
		if len(efficacies) > 0 {
			e, err := scoring.CombinedEfficacy(efficacies)
			if err != nil {
				return err
			}
			out.EfficacyPct = roundPct(e)
			if out.EfficacyLevel, err = scoring.ResidualFromEfficacy(s.Level, e); err != nil {
				return err
			}
		}
		r.Residuals = append(r.Residuals, out)
	}
	return nil
}

// срок пересмотра принятого риска зависит от остаточного уровня
func (r *Report) acceptances(rec Records) error {
	residual := make(map[string]scoring.RiskLevel, len(r.Residuals))
	for _, s := range r.Residuals {
		residual[s.Code] = s.Residual
	}
	for _, a := range byCode(rec.W5.Acceptances, func(a models.RiskAcceptance) string { return a.Scenario }) {
		level, ok := residual[a.Scenario]
		if !ok {
			return scoring.DanglingReference("acceptance of "+a.Scenario, "assessed scenario", a.Scenario)
		}
		at := a.AcceptedAt.UTC()
		conditions := slices.Clone(a.Conditions)
		if conditions == nil {
			conditions = []string{}
		}
		r.Acceptances = append(r.Acceptances, AcceptedRisk{
			Scenario:      a.Scenario,
			Acceptor:      a.Acceptor,
			Justification: a.Justification,
			Conditions:    conditions,
			Residual:      level,
			AcceptedAt:    at,
			ReviewDue:     at.AddDate(0, 0, scoring.ReviewIntervalDays(level)),
		})
	}
	return nil
}

func roundPct(ratio float64) float64 {
	return math.Round(ratio*1000) / 10
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(int(float64(part)/float64(total)*1000+0.5)) / 10
}
