package models

import (
	"time"

	"ebios-rm/internal/scoring"
)

// ====== МАСТЕРСКАЯ 5: обработка риска ======

// TreatmentMeasure: мера обработки, покрывающая один или несколько сценариев
// (коды стратегических или операционных сценариев).
type TreatmentMeasure struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_measure_code;not null" json:"-"`
	Code       string `gorm:"size:32;uniqueIndex:idx_measure_code;not null" json:"code"` // M1...

	Name        string           `gorm:"size:255;not null" json:"name"`
	Kind        string           `gorm:"size:64" json:"kind"` // превентивная, детективная, корректирующая
	Description string           `gorm:"type:text" json:"description"`
	Strategy    scoring.Strategy `gorm:"type:varchar(20);not null" json:"strategy"`
	CatalogRef  string           `gorm:"size:32" json:"catalog_ref,omitempty"` // ISO 27001, например A.8.13
	Scenarios   []string         `gorm:"serializer:json" json:"scenarios"`

	Cost      float64 `json:"cost"`
	DelayDays int     `json:"delay_days"`
	Owner     string  `gorm:"size:255" json:"owner"`

	// оценка эффективности 0..1; nil, если не оценивалась
	Efficacy *float64 `json:"efficacy,omitempty"`
}

func (m *TreatmentMeasure) Attach(analysisID uint) { m.ID, m.AnalysisID = 0, analysisID }

// RiskAcceptance: формальное принятие остаточного риска сценария.
type RiskAcceptance struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	AnalysisID uint   `gorm:"uniqueIndex:idx_acceptance_scenario;not null" json:"-"`
	Scenario   string `gorm:"size:32;uniqueIndex:idx_acceptance_scenario;not null" json:"scenario"`

	Acceptor      string    `gorm:"size:255;not null" json:"acceptor"` // кто принимает риск
	Justification string    `gorm:"type:text;not null" json:"justification"`
	Conditions    []string  `gorm:"serializer:json" json:"conditions,omitempty"`
	AcceptedAt    time.Time `json:"accepted_at"`
}

func (a *RiskAcceptance) Attach(analysisID uint) { a.ID, a.AnalysisID = 0, analysisID }
