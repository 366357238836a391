package db

import (
	"context"
	"fmt"
	"github.com/go-pg/migrations/v8"
	"github.com/go-pg/pg/v10"
	"go.uber.org/zap"
	"procurement_evaluation_system/configs"
)

type dbLogger struct {
	logger *zap.SugaredLogger
}

func (d dbLogger) BeforeQuery(c context.Context, q *pg.QueryEvent) (context.Context, error) {
	query, err := q.FormattedQuery()
	if err != nil {
		return c, nil
	}

	d.logger.Debug(string(query))
	return c, nil
}

func (d dbLogger) AfterQuery(c context.Context, q *pg.QueryEvent) error {
	if q.Err != nil {
		d.logger.Debugw("query failed", "error", q.Err)
	}
	return nil
}

func StartDB(ctx context.Context, config configs.DB, logger *zap.SugaredLogger) (*pg.DB, error) {
	options, err := pg.ParseURL(config.URL)
	if err != nil {
		logger.Errorw("failed to parse db url", "error", err)
		return nil, err
	}

	db := pg.Connect(options)
	db.AddQueryHook(dbLogger{logger})

	if err := db.Ping(ctx); err != nil {
		logger.Errorw("failed to reach db", "error", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	if err := migrate(db, config.MigrationsDir, logger); err != nil {
		logger.Errorw("failed to migrate db", "error", err)
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// migrate brings the schema for opportunities, proposals and their ledgers up to date.
func migrate(db *pg.DB, dir string, logger *zap.SugaredLogger) error {
	collection := migrations.NewCollection()
	if err := collection.DiscoverSQLMigrations(dir); err != nil {
		return fmt.Errorf("discover migrations in %s: %w", dir, err)
	}
	logger.Infow("migrations discovered", "dir", dir)

	if _, _, err := collection.Run(db, "init"); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	oldVersion, newVersion, err := collection.Run(db, "up")
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if newVersion != oldVersion {
		logger.Infow("schema migrated", "from", oldVersion, "to", newVersion)
	} else {
		logger.Infow("schema up to date", "version", oldVersion)
	}
	return nil
}
