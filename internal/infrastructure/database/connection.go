package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/infrastructure/config"
)

const memoryPath = ":memory:"

// NewConnection opens the configured database. Type "none" is rejected;
// callers check cfg.Enabled() first.
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		dsn := cfg.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		}
		dialector = postgres.Open(dsn)

	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = memoryPath
		}
		dialector = sqlite.Open(path)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}

	switch {
	case cfg.Type == "postgres":
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	case cfg.Path == "" || cfg.Path == memoryPath:
		// every sqlite connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Open connects and migrates in one step
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewTestConnection creates a migrated in-memory SQLite database
func NewTestConnection() (*gorm.DB, error) {
	return Open(&config.DatabaseConfig{
		Type: "sqlite",
		Path: memoryPath,
	})
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.SystemCoordinateModel{},
		&persistence.SystemNeighborsModel{},
		&persistence.RouteRecordModel{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
