package configs

import (
	"errors"
	"fmt"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"io/fs"
)

type EvaluationCLIConfig struct {
	App    App
	DB     DB
	SQLite SQLite
	Logger Logger
	Engine Engine
}

type DeadlineServiceConfig struct {
	App       App
	DB        DB
	SQLite    SQLite
	Logger    Logger
	Engine    Engine
	Telegram  Telegram
	Scheduler Scheduler
}

func LoadEvaluationCLIConfig() (EvaluationCLIConfig, error) {
	var config EvaluationCLIConfig

	if err := load(&config); err != nil {
		return EvaluationCLIConfig{}, err
	}
	if err := validateStorage(config.App, config.DB); err != nil {
		return EvaluationCLIConfig{}, err
	}

	return config, nil
}

func LoadDeadlineServiceConfig() (DeadlineServiceConfig, error) {
	var config DeadlineServiceConfig

	if err := load(&config); err != nil {
		return DeadlineServiceConfig{}, err
	}
	if err := validateStorage(config.App, config.DB); err != nil {
		return DeadlineServiceConfig{}, err
	}

	return config, nil
}

// load reads an optional .env file and then parses the environment into config.
func load(config interface{}) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

func validateStorage(app App, db DB) error {
	switch app.Storage {
	case "postgres":
		if db.URL == "" {
			return errors.New("DB_URL is required for the postgres backend")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", app.Storage)
	}
	return nil
}
