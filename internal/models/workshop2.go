package models

import "ebios-rm/internal/scoring"

// ====== МАСТЕРСКАЯ 2: источники риска и целевые объекты ======

// RiskSource: источник риска (SR). Category: код из справочника.
type RiskSource struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_source_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_source_code;not null" json:"code"` // SR1...

	Name     string `gorm:"size:255;not null" json:"name"`
	Category string `gorm:"size:64;not null" json:"category"`

	Resources     scoring.Scale `gorm:"not null" json:"resources"`
	Determination scoring.Scale `gorm:"not null" json:"determination"`
	Skills        scoring.Scale `gorm:"not null" json:"skills"`
}

// TargetedObjective: целевой объект (OV).
type TargetedObjective struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_objective_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_objective_code;not null" json:"code"` // OV1...

	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Impact      scoring.Scale `gorm:"not null" json:"impact"`
}

// SourceObjectivePair: связь SR×OV.
type SourceObjectivePair struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	AnalysisID    uint   `gorm:"uniqueIndex:idx_pair;not null" json:"-"`
	SourceCode    string `gorm:"size:32;uniqueIndex:idx_pair;not null" json:"sr"`
	ObjectiveCode string `gorm:"size:32;uniqueIndex:idx_pair;not null" json:"ov"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
}

func (s *RiskSource) Attach(analysisID uint)          { s.ID, s.AnalysisID = 0, analysisID }
func (o *TargetedObjective) Attach(analysisID uint)   { o.ID, o.AnalysisID = 0, analysisID }
func (p *SourceObjectivePair) Attach(analysisID uint) { p.ID, p.AnalysisID = 0, analysisID }
