package models

import "ebios-rm/internal/scoring"

// ====== МАСТЕРСКАЯ 3: стратегические сценарии и экосистема ======

// Stakeholder: участник экосистемы (поставщик, партнёр, клиент).
type Stakeholder struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_stakeholder_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_stakeholder_code;not null" json:"code"` // PP1...

	Name string `gorm:"size:255;not null" json:"name"`
	Kind string `gorm:"size:64" json:"kind"`

	Dependency  scoring.Scale `gorm:"not null" json:"dependency"`
	Penetration scoring.Scale `gorm:"not null" json:"penetration"`
	Maturity    scoring.Scale `gorm:"not null" json:"maturity"`
	Trust       scoring.Scale `gorm:"not null" json:"trust"`
}

// StrategicScenario ссылается на пару SR×OV, опасаемые события и участников.
type StrategicScenario struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_strategic_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_strategic_code;not null" json:"code"` // SS1...

	Name          string   `gorm:"size:255;not null" json:"name"`
	SourceCode    string   `gorm:"size:32;not null" json:"sr"`
	ObjectiveCode string   `gorm:"size:32;not null" json:"ov"`
	Events        []string `gorm:"serializer:json" json:"events"`
	Stakeholders  []string `gorm:"serializer:json" json:"stakeholders"`
	Path          string   `gorm:"type:text" json:"path"` // описание пути атаки через экосистему

	Gravity    scoring.Scale `gorm:"not null" json:"gravity"`
	Likelihood scoring.Scale `gorm:"not null" json:"likelihood"`
}

func (s *Stakeholder) Attach(analysisID uint)       { s.ID, s.AnalysisID = 0, analysisID }
func (s *StrategicScenario) Attach(analysisID uint) { s.ID, s.AnalysisID = 0, analysisID }
