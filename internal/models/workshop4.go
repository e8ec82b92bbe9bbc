package models

import "ebios-rm/internal/scoring"

// ====== МАСТЕРСКАЯ 4: операционные сценарии ======

// AttackStep: элементарное действие; Technique: идентификатор ATT&CK (необязательно).
// Code нужен, чтобы на шаг могли ссылаться существующие меры (AE1...).
type AttackStep struct {
	Code          string        `json:"code,omitempty"`
	Action        string        `json:"action"`
	Technique     string        `json:"technique,omitempty"`
	Difficulty    scoring.Scale `json:"difficulty"`
	Detectability scoring.Scale `json:"detectability"`
}

// OperationalScenario детализирует стратегический сценарий.
// Если шагов нет, вероятность задаётся явно; иначе она вычисляется по шагам.
type OperationalScenario struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_operational_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_operational_code;not null" json:"code"` // SO1...

	Name          string       `gorm:"size:255;not null" json:"name"`
	Description   string       `gorm:"type:text" json:"description"`
	StrategicCode string       `gorm:"size:32;not null" json:"strategic"`
	Steps         []AttackStep `gorm:"serializer:json" json:"steps"`

	Likelihood scoring.Scale `json:"likelihood,omitempty"`
}

func (s *OperationalScenario) Attach(analysisID uint) { s.ID, s.AnalysisID = 0, analysisID }

// ExistingMeasure: мера безопасности, уже действующая в организации.
// Covers: коды шагов атаки, которые она перекрывает.
type ExistingMeasure struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_existing_measure_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_existing_measure_code;not null" json:"code"` // ME1...

	Name     string   `gorm:"size:255;not null" json:"name"`
	Kind     string   `gorm:"size:64" json:"kind"`
	Efficacy float64  `json:"efficacy"` // 0..1
	Covers   []string `gorm:"serializer:json" json:"covers"`
}

func (m *ExistingMeasure) Attach(analysisID uint) { m.ID, m.AnalysisID = 0, analysisID }
