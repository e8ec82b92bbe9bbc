package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ebios-rm/internal/models"
)

// helper для записи в журнал аудита
func CreateAuditLog(analysisID uint, entity, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		AnalysisID: analysisID,
		Entity:     entity,
		Action:     action,
		Details:    details,
	}
	if err := DB.Create(&record).Error; err != nil {
		zap.L().Warn("failed to write audit log",
			zap.Uint("analysis_id", analysisID), zap.String("entity", entity), zap.Error(err))
	}
}

// AuditHistory: журнал изменений анализа, новые записи первыми.
func AuditHistory(db *gorm.DB, analysisID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("analysis_id = ?", analysisID).
		Order("created_at DESC").Order("id DESC").
		Find(&logs).Error
	return logs, err
}
