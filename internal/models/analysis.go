package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Analysis: одно исследование EBIOS RM (метаданные мастерской 1).
// Все записи мастерских ссылаются на него по AnalysisID.
type Analysis struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PublicID  string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organization string    `gorm:"size:255;not null" json:"organization"` // организация
	Scope        string    `gorm:"type:text" json:"scope"`                // периметр исследования
	Owner        string    `gorm:"size:255" json:"owner"`                 // ответственный
	Sector       string    `gorm:"size:100" json:"sector"`
	Version      string    `gorm:"size:20" json:"version"`
	StartedAt    time.Time `json:"started_at"`
}

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.PublicID == "" {
		a.PublicID = uuid.NewString()
	}
	if a.Version == "" {
		a.Version = "1.0"
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now().UTC()
	}
	return nil
}
