package db

import (
	"fmt"

	"kindtrail/internal/config"
	"kindtrail/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the store named by cfg.DatabaseURL and migrates it.
// Postgres DSNs use the postgres driver; anything else is a sqlite file path
// (":memory:" works for tests).
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.UsesPostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if !cfg.UsesPostgres() {
		// sqlite 单文件：串行化写入；:memory: 每个连接是独立库，必须只用一个连接
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logrus.WithField("postgres", cfg.UsesPostgres()).Info("Database connection established")

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or extends the users, stories, comments and
// archived_stories collections. Only additive changes are applied.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Comment{},
		&models.ArchivedStory{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logrus.Debug("Database migration completed")
	return nil
}
