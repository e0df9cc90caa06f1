package config

import (
	"context"
	"fmt"
	"time"

	"insuranceapi/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the global GORM database instance used throughout the application.
var DB *gorm.DB

var memServer *MemoryServer

// GormConfig returns the gorm settings shared by every driver. TranslateError is
// required: reg_num allocation relies on gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(nil, Cfg.DBSlowQuery),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Dialector builds the gorm dialector for the configured DB_DRIVER.
func Dialector() (gorm.Dialector, error) {
	switch Cfg.DBDriver {
	case DriverMySQL, DriverMemory:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			Cfg.DBUser,
			Cfg.DBPass,
			Cfg.DBHost,
			Cfg.DBPort,
			Cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			Cfg.DBHost,
			Cfg.DBPort,
			Cfg.DBUser,
			Cfg.DBPass,
			Cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(Cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", Cfg.DBDriver)
	}
}

// ConnectDB establishes the database connection for the configured driver. With
// DB_DRIVER=memory an embedded MySQL server is started first and gorm connects to it.
func ConnectDB() error {
	if Cfg.DBDriver == DriverMemory {
		srv, err := StartMemoryServer(context.Background(), Cfg.DBName)
		if err != nil {
			logger.Errorf("Embedded MySQL server failed to start: %v", err)
			return err
		}
		memServer = srv
		Cfg.DBHost = "127.0.0.1"
		Cfg.DBPort = srv.Port
		Cfg.DBUser = "root"
		Cfg.DBPass = ""
	}

	logger.Infof("Connecting to %s database %s@%s:%d/%s", Cfg.DBDriver, Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName)

	dialector, err := Dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		logger.Errorf("GORM connection failed: %v", err)
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(Cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(Cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(Cfg.DBConnMaxLifetime)

	logger.Infof("GORM connected successfully to database %s", Cfg.DBName)

	DB = db
	return nil
}

// Migrate runs AutoMigrate for the given models when DB_AUTO_MIGRATE is set.
func Migrate(models ...interface{}) error {
	if !Cfg.DBAutoMigrate {
		logger.Infof("DB_AUTO_MIGRATE disabled, skipping schema migration")
		return nil
	}
	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	logger.Infof("Schema migrated for %d models", len(models))
	return nil
}

// CloseDB closes the connection pool and the embedded server, if running.
func CloseDB() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warnf("Failed to close database: %v", err)
			}
		}
	}
	if memServer != nil {
		if err := memServer.Close(); err != nil {
			logger.Warnf("Failed to close embedded MySQL server: %v", err)
		}
		memServer = nil
	}
}
