package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readnest/library-back/internal/config"
)

// NewGormClient opens the database connection for the fx application
// and ties it to the process lifecycle: connected and migrated at
// start, closed at shutdown.
func NewGormClient(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing database connection.")
			sqlDB, err := conn.DB()
			if err != nil {
				return errors.Wrap(err, "get underlying sql.DB")
			}
			return sqlDB.Close()
		},
	})

	return conn, nil
}

// Connect opens a gorm client against the configured Postgres instance
// and runs migrations. Used directly by tooling that runs outside the
// fx application (the seed command).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		Colorful:                  !cfg.IsProduction(),
		IgnoreRecordNotFoundError: true,
	})

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(conn *gorm.DB) error {
	if err := conn.SetupJoinTable(&Book{}, "Categories", &BookCategory{}); err != nil {
		return errors.Wrap(err, "setup book_categories join table")
	}
	if err := conn.SetupJoinTable(&Category{}, "Books", &BookCategory{}); err != nil {
		return errors.Wrap(err, "setup book_categories join table")
	}
	if err := conn.AutoMigrate(&User{}); err != nil {
		return errors.Wrap(err, "migrate user")
	}
	if err := conn.AutoMigrate(&Author{}); err != nil {
		return errors.Wrap(err, "migrate author")
	}
	if err := conn.AutoMigrate(&Category{}); err != nil {
		return errors.Wrap(err, "migrate category")
	}
	if err := conn.AutoMigrate(&Book{}); err != nil {
		return errors.Wrap(err, "migrate book")
	}
	if err := conn.AutoMigrate(&Loan{}); err != nil {
		return errors.Wrap(err, "migrate loan")
	}
	return nil
}
