package configs

type App struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	// Storage selects the backend: "postgres" or "sqlite".
	Storage string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
}

func (c App) IsDevEnvironment() bool {
	return c.Environment == "dev"
}

func (c App) UsesPostgres() bool {
	return c.Storage == "postgres"
}
