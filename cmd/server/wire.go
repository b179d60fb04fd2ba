//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"journal-api/internal/config"
	domain "journal-api/internal/domain/conversation"
	"journal-api/internal/domain/insight"
	"journal-api/internal/infrastructure/analyzer"
	"journal-api/internal/infrastructure/database"
	"journal-api/internal/infrastructure/logger"
	repo "journal-api/internal/infrastructure/repository/conversation"
	"journal-api/internal/interfaces/httpserver"
)

var conversationSet = wire.NewSet(
	repo.NewPostgresRepository,
	wire.Bind(new(domain.Repository), new(*repo.PostgresRepository)),
	analyzer.NewClient,
	wire.Bind(new(insight.Provider), new(*analyzer.Client)),
	newServiceOptions,
	domain.NewService,
)

// BuildApplication assembles the journal service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		conversationSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newServiceOptions(cfg *config.Config) domain.Options {
	return domain.Options{
		HistoryWindow:   cfg.AnalysisHistoryWindow,
		ProviderTimeout: cfg.AnalysisTimeout,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
