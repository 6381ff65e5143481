package database

import (
	"bakery-backend/internal/config"
	"bakery-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, log *zap.Logger) {
	var err error

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the assignment engine relies on for its
	// natural-key check under concurrency.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("auto-migration failed", zap.Error(err))
	}

	log.Info("database connected, migrations applied")
}

// Migrate runs schema migration for every persisted entity. Shared with the
// test harness, which runs it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Salesperson{},
		&models.Customer{},
		&models.Assignment{},
		&models.Delivery{},
		&models.Bill{},
		&models.AuditLog{},
	)
}
