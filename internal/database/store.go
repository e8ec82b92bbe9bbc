package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/models"
)

// owned: запись мастерской, привязываемая к анализу перед вставкой.
type owned[T any] interface {
	*T
	Attach(analysisID uint)
}

func loadRows[T any](db *gorm.DB, analysisID uint, dst *[]T) error {
	return db.Where("analysis_id = ?", analysisID).Order("id").Find(dst).Error
}

func deleteRows[T any](tx *gorm.DB, analysisID uint) error {
	var zero T
	return tx.Where("analysis_id = ?", analysisID).Delete(&zero).Error
}

// replaceRows удаляет все записи типа T анализа и вставляет rows.
func replaceRows[T any, P owned[T]](tx *gorm.DB, analysisID uint, rows []T) error {
	if err := deleteRows[T](tx, analysisID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		P(&rows[i]).Attach(analysisID)
	}
	return tx.Create(&rows).Error
}

// ====== АНАЛИЗЫ ======

func ListAnalyses(db *gorm.DB) ([]models.Analysis, error) {
	var list []models.Analysis
	err := db.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

// FindAnalysis ищет по публичному uuid; если нет, то gorm.ErrRecordNotFound.
func FindAnalysis(db *gorm.DB, publicID string) (models.Analysis, error) {
	var a models.Analysis
	err := db.Where("public_id = ?", publicID).First(&a).Error
	return a, err
}

// DeleteAnalysis безвозвратно удаляет анализ со всеми записями и журналом.
func DeleteAnalysis(db *gorm.DB, analysisID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, del := range []func(*gorm.DB, uint) error{
			deleteRows[models.RiskAcceptance],
			deleteRows[models.TreatmentMeasure],
			deleteRows[models.ExistingMeasure],
			deleteRows[models.OperationalScenario],
			deleteRows[models.StrategicScenario],
			deleteRows[models.Stakeholder],
			deleteRows[models.SourceObjectivePair],
			deleteRows[models.TargetedObjective],
			deleteRows[models.RiskSource],
			deleteRows[models.BaselineDomain],
			deleteRows[models.RedoutedEvent],
			deleteRows[models.SupportingAsset],
			deleteRows[models.BusinessValue],
			deleteRows[models.Mission],
			deleteRows[models.AuditLog],
		} {
			if err := del(tx, analysisID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Analysis{}, analysisID).Error
	})
}

// ====== ЗАПИСИ МАСТЕРСКИХ ======

func LoadRecords(db *gorm.DB, analysisID uint) (analysis.Records, error) {
	var rec analysis.Records
	for _, load := range []func() error{
		func() error { return loadRows(db, analysisID, &rec.W1.Missions) },
		func() error { return loadRows(db, analysisID, &rec.W1.BusinessValues) },
		func() error { return loadRows(db, analysisID, &rec.W1.Assets) },
		func() error { return loadRows(db, analysisID, &rec.W1.Events) },
		func() error { return loadRows(db, analysisID, &rec.W1.Baseline) },
		func() error { return loadRows(db, analysisID, &rec.W2.Sources) },
		func() error { return loadRows(db, analysisID, &rec.W2.Objectives) },
		func() error { return loadRows(db, analysisID, &rec.W2.Pairs) },
		func() error { return loadRows(db, analysisID, &rec.W3.Stakeholders) },
		func() error { return loadRows(db, analysisID, &rec.W3.Scenarios) },
		func() error { return loadRows(db, analysisID, &rec.W4.Scenarios) },
		func() error { return loadRows(db, analysisID, &rec.W4.Existing) },
		func() error { return loadRows(db, analysisID, &rec.W5.Measures) },
		func() error { return loadRows(db, analysisID, &rec.W5.Acceptances) },
	} {
		if err := load(); err != nil {
			return analysis.Records{}, err
		}
	}
	return rec, nil
}

// UpdateWorkshop заменяет целиком записи мастерской n (1..5) в одной транзакции.
// Строка анализа сначала обновляется (updated_at), что блокирует параллельные
// замены того же анализа до конца транзакции. Затем записи читаются заново,
// apply подставляет новую мастерскую и проверяет весь анализ; ошибка apply
// откатывает транзакцию.
func UpdateWorkshop(db *gorm.DB, analysisID uint, n int, apply func(rec *analysis.Records) error) (analysis.Records, error) {
	if n < 1 || n > 5 {
		return analysis.Records{}, fmt.Errorf("unknown workshop %d", n)
	}
	var rec analysis.Records
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Analysis{}).Where("id = ?", analysisID).UpdateColumn("updated_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		loaded, err := LoadRecords(tx, analysisID)
		if err != nil {
			return err
		}
		if err := apply(&loaded); err != nil {
			return err
		}
		rec = loaded
		return replaceWorkshop(tx, analysisID, n, rec)
	})
	if err != nil {
		return analysis.Records{}, err
	}
	return rec, nil
}

func replaceWorkshop(tx *gorm.DB, analysisID uint, n int, rec analysis.Records) error {
	var steps []func() error
	switch n {
	case 1:
		steps = []func() error{
			func() error { return replaceRows(tx, analysisID, rec.W1.Missions) },
			func() error { return replaceRows(tx, analysisID, rec.W1.BusinessValues) },
			func() error { return replaceRows(tx, analysisID, rec.W1.Assets) },
			func() error { return replaceRows(tx, analysisID, rec.W1.Events) },
			func() error { return replaceRows(tx, analysisID, rec.W1.Baseline) },
		}
	case 2:
		steps = []func() error{
			func() error { return replaceRows(tx, analysisID, rec.W2.Sources) },
			func() error { return replaceRows(tx, analysisID, rec.W2.Objectives) },
			func() error { return replaceRows(tx, analysisID, rec.W2.Pairs) },
		}
	case 3:
		steps = []func() error{
			func() error { return replaceRows(tx, analysisID, rec.W3.Stakeholders) },
			func() error { return replaceRows(tx, analysisID, rec.W3.Scenarios) },
		}
	case 4:
		steps = []func() error{
			func() error { return replaceRows(tx, analysisID, rec.W4.Scenarios) },
			func() error { return replaceRows(tx, analysisID, rec.W4.Existing) },
		}
	case 5:
		steps = []func() error{
			func() error { return replaceRows(tx, analysisID, rec.W5.Measures) },
			func() error { return replaceRows(tx, analysisID, rec.W5.Acceptances) },
		}
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("workshop %d: %w", n, err)
		}
	}
	return nil
}

// CreateWithRecords сохраняет новый анализ вместе со всеми мастерскими (импорт).
func CreateWithRecords(db *gorm.DB, a *models.Analysis, rec analysis.Records) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		for n := 1; n <= 5; n++ {
			if err := replaceWorkshop(tx, a.ID, n, rec); err != nil {
				return err
			}
		}
		return nil
	})
}
