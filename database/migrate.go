package database

import (
	"fmt"
	"time"

	"freelance_backend/internal/config"
	"freelance_backend/internal/logger"
	"freelance_backend/internal/models"
	chatmodels "freelance_backend/internal/models/chat"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect открывает пул соединений Postgres (pgx через gorm)
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей и создает частичные индексы
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Project{},
		&models.Bid{},
		&models.Review{},
		&models.Favorite{},
		// chat модуль
		&chatmodels.Message{},
		&chatmodels.MessageReaction{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Не более одного активного (не отозванного) отклика на пару проект/фрилансер.
	// Синтаксис частичного индекса одинаков в Postgres и SQLite
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_bids_active ON bids (project_id, freelancer_id) WHERE status <> 'withdrawn'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_bids_accepted ON bids (project_id) WHERE status = 'accepted'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	logger.Info("AutoMigrate completed")
	return nil
}
