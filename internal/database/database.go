package database

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/logutils"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Connect opens the primary database selected by cfg.DBDriver and registers
// any configured read replicas.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DBDriver, PrimaryDSN(cfg))
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(logutils.Log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(cfg.GinMode),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if len(cfg.DBReplicaDSNs) > 0 {
		replicas := lo.Map(cfg.DBReplicaDSNs, func(dsn string, _ int) gorm.Dialector {
			d, _ := Dialector(cfg.DBDriver, dsn)
			return d
		})
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}
		logutils.Log.Infof("Registered %d read replica(s)", len(replicas))
	}

	logutils.Log.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return db, nil
}

// Dialector returns the GORM dialector for driver and dsn.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// PrimaryDSN builds the connection string for the primary database.
func PrimaryDSN(cfg *config.Config) string {
	switch cfg.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
	case "sqlite":
		return cfg.SQLitePath
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)
	}
}

// SetupJoinTables registers custom join models. It must run before
// AutoMigrate and before any association writes.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Task{}, "Tags", &models.TaskTag{}); err != nil {
		return fmt.Errorf("failed to set up task_tags join table: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates every table. Tests use it directly; the
// server goes through Migrate so schema changes are versioned.
func AutoMigrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Tag{},
		&models.TaskTag{},
		&models.Invitation{},
		&models.OutboundEmail{},
	)
}

func gormLogLevel(mode string) logger.LogLevel {
	if mode == "debug" {
		return logger.Info
	}
	return logger.Warn
}
