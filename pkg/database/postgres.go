package database

import (
	"context"
	"time"

	"GlobetrotterService/config"
	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/logger"
	"GlobetrotterService/pkg/resilience"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open открывает подключение через переданный диалект и настраивает пул соединений
func Open(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate создает или обновляет схему
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Destination{},
		&models.User{},
	)
}

// NewPostgresDB подключается к PostgreSQL с повторными попытками и выполняет миграции
func NewPostgresDB(ctx context.Context, cfg config.PostgresConfig, rc config.ResilienceConfig, log *zap.Logger) (*gorm.DB, error) {
	retryOptions := resilience.RetryOptions{
		MaxRetries:     rc.StartupRetry.MaxRetries,
		InitialBackoff: rc.StartupRetry.InitialBackoff,
		MaxBackoff:     rc.StartupRetry.MaxBackoff,
		BackoffFactor:  rc.StartupRetry.BackoffFactor,
		Jitter:         rc.StartupRetry.Jitter,
	}

	var db *gorm.DB
	err := resilience.WithRetry(ctx, log, "connect_postgres", retryOptions, func(ctx context.Context) error {
		conn, err := Open(postgres.Open(cfg.ConnectionString()), log)
		if err != nil {
			return err
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}

		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.DBName))
	return db, nil
}

// Close закрывает пул соединений
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
