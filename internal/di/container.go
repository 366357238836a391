package di

import (
	"context"
	"fmt"
	zaploki "github.com/paul-milne/zap-loki"
	"go.uber.org/zap"
	"io"
	"procurement_evaluation_system/configs"
	"procurement_evaluation_system/internal/db"
	"procurement_evaluation_system/internal/db/repositories"
	"procurement_evaluation_system/internal/db/sqlite"
	"time"
)

func NewLogger(app configs.App, config configs.Logger) *zap.SugaredLogger {
	if config.URL == "" {
		if app.IsDevEnvironment() {
			return zap.Must(zap.NewDevelopment()).Sugar().With("app", config.AppName)
		}
		return zap.Must(zap.NewProduction()).Sugar().With("app", config.AppName)
	}

	ctx := context.Background()
	lokiConfig := zaploki.Config{
		Url:          config.URL,
		BatchMaxSize: 1000,
		BatchMaxWait: 10 * time.Second,
		Labels:       map[string]string{"app": config.AppName, "environment": app.Environment},
	}
	return zap.Must(zaploki.New(ctx, lokiConfig).WithCreateLogger(zap.NewProductionConfig())).Sugar()
}

// NewStore opens the configured backend. The returned closer releases its connections.
func NewStore(ctx context.Context, app configs.App, dbConfig configs.DB, sqliteConfig configs.SQLite, logger *zap.SugaredLogger) (repositories.Store, io.Closer, error) {
	if app.UsesPostgres() {
		database, err := db.StartDB(ctx, dbConfig, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start postgres: %w", err)
		}
		return repositories.NewStore(database), database, nil
	}

	store, err := sqlite.Open(ctx, sqliteConfig.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	logger.Infow("sqlite store opened", "path", sqliteConfig.Path)
	return store, store, nil
}
