package models

import "ebios-rm/internal/scoring"

// ====== МАСТЕРСКАЯ 1: рамки и базис безопасности ======

type Mission struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_mission_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_mission_code;not null" json:"code"` // M1, M2...

	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Criticality scoring.Scale `gorm:"not null" json:"criticality"`
}

// BusinessValue: бизнес-ценность с чувствительностью по DICT.
type BusinessValue struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_value_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_value_code;not null" json:"code"` // VM1...

	Name string `gorm:"size:255;not null" json:"name"`
	Kind string `gorm:"size:64" json:"kind"` // информация, сервис, процесс

	Availability    scoring.Scale `gorm:"not null" json:"d"`
	Integrity       scoring.Scale `gorm:"not null" json:"i"`
	Confidentiality scoring.Scale `gorm:"not null" json:"c"`
	Traceability    scoring.Scale `gorm:"not null" json:"t"`
}

func (v BusinessValue) Sensitivity() scoring.DICT {
	return scoring.DICT{
		Availability:    v.Availability,
		Integrity:       v.Integrity,
		Confidentiality: v.Confidentiality,
		Traceability:    v.Traceability,
	}
}

// SupportingAsset: опорный актив (SI, персонал, помещение).
type SupportingAsset struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_asset_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_asset_code;not null" json:"code"` // BS1...

	Name           string   `gorm:"size:255;not null" json:"name"`
	Kind           string   `gorm:"size:64" json:"kind"`
	BusinessValues []string `gorm:"serializer:json" json:"business_values"` // коды VM
}

// RedoutedEvent: опасаемое событие (événement redouté) с оценкой ущерба по DICT.
type RedoutedEvent struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_event_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_event_code;not null" json:"code"` // ER1...

	Name          string   `gorm:"size:255;not null" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	BusinessValue string   `gorm:"size:32" json:"business_value,omitempty"` // код VM, необязательно
	Assets        []string `gorm:"serializer:json" json:"assets"`           // коды BS

	Availability    scoring.Scale `gorm:"not null" json:"d"`
	Integrity       scoring.Scale `gorm:"not null" json:"i"`
	Confidentiality scoring.Scale `gorm:"not null" json:"c"`
	Traceability    scoring.Scale `gorm:"not null" json:"t"`
}

func (e RedoutedEvent) Impacts() scoring.DICT {
	return scoring.DICT{
		Availability:    e.Availability,
		Integrity:       e.Integrity,
		Confidentiality: e.Confidentiality,
		Traceability:    e.Traceability,
	}
}

// BaselineDomain: домен базиса безопасности, оценка 0..100.
type BaselineDomain struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	AnalysisID uint    `gorm:"uniqueIndex:idx_baseline_domain;not null" json:"-"`
	Domain     string  `gorm:"size:128;uniqueIndex:idx_baseline_domain;not null" json:"domain"`
	Score      float64 `json:"score"`
}

func (m *Mission) Attach(analysisID uint)         { m.ID, m.AnalysisID = 0, analysisID }
func (v *BusinessValue) Attach(analysisID uint)   { v.ID, v.AnalysisID = 0, analysisID }
func (a *SupportingAsset) Attach(analysisID uint) { a.ID, a.AnalysisID = 0, analysisID }
func (e *RedoutedEvent) Attach(analysisID uint)   { e.ID, e.AnalysisID = 0, analysisID }
func (d *BaselineDomain) Attach(analysisID uint)  { d.ID, d.AnalysisID = 0, analysisID }
