package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ebios-rm/internal/models"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open подключается к БД без миграций.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Init открывает глобальное подключение (с повторами, пока поднимается postgres) и мигрирует схему.
func Init(driver, dsn string) error {
	log := zap.L().With(zap.String("driver", driver))

	var (
		db  *gorm.DB
		err error
	)
	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info("trying to connect to DB", zap.Int("attempt", i), zap.Int("max_attempts", maxAttempts))

		db, err = Open(driver, dsn)
		if err == nil {
			log.Info("connected to DB successfully")
			break
		}
		if driver != DriverPostgres {
			break
		}

		log.Warn("failed to connect to DB", zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}

	// миграции
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	DB = db
	return nil
}
