package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"at"`

	AnalysisID uint   `gorm:"index" json:"-"`
	Entity     string `gorm:"size:50;not null" json:"entity"` // "analysis", "workshop2" и т.п.
	Action     string `gorm:"size:50;not null" json:"action"` // "create", "replace", "import"
	Details    string `gorm:"type:text" json:"details"`
}
