// Package analysis обрабатывает записи одного исследования EBIOS RM:
// проверяет ссылки между пятью мастерскими и рассчитывает отчёт.
package analysis

import "ebios-rm/internal/models"

// Workshop1 - рамки исследования и базовый уровень безопасности.
type Workshop1 struct {
	Missions       []models.Mission         `json:"missions"`
	BusinessValues []models.BusinessValue   `json:"business_values"`
	Assets         []models.SupportingAsset `json:"supporting_assets"`
	Events         []models.RedoutedEvent   `json:"redouted_events"`
	Baseline       []models.BaselineDomain  `json:"baseline"`
}

type Workshop2 struct {
	Sources    []models.RiskSource          `json:"risk_sources"`
	Objectives []models.TargetedObjective   `json:"objectives"`
	Pairs      []models.SourceObjectivePair `json:"pairs"`
}

type Workshop3 struct {
	Stakeholders []models.Stakeholder       `json:"stakeholders"`
	Scenarios    []models.StrategicScenario `json:"scenarios"`
}

// Workshop4 - операционные сценарии и уже действующие меры безопасности.
type Workshop4 struct {
	Scenarios []models.OperationalScenario `json:"scenarios"`
	Existing  []models.ExistingMeasure     `json:"existing_measures"`
}

// Workshop5 - план обработки и формально принятые риски.
type Workshop5 struct {
	Measures    []models.TreatmentMeasure `json:"measures"`
	Acceptances []models.RiskAcceptance   `json:"acceptances"`
}

type Records struct {
	W1 Workshop1 `json:"workshop1"`
	W2 Workshop2 `json:"workshop2"`
	W3 Workshop3 `json:"workshop3"`
	W4 Workshop4 `json:"workshop4"`
	W5 Workshop5 `json:"workshop5"`
}
