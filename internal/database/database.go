package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"school-navigator/internal/config"
	"school-navigator/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect initializes a GORM connection for the configured driver and migrates the schema
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.GinMode == "release" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Database,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure db directory: %w", err)
		}
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unknown db driver %s", cfg.Database.Driver)
	}

	db, err := open(dialector, gormLogger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		// Set connection pool settings
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Printf("Successfully connected to %s database", cfg.Database.Driver)

	return db, nil
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// OpenSQLite opens and migrates a SQLite database at path with a quiet logger
func OpenSQLite(path string) (*gorm.DB, error) {
	return open(sqlite.Open(path), logger.Default.LogMode(logger.Silent))
}

func open(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&models.Document{}, &models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
