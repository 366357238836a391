package configs

type Logger struct {
	AppName string `env:"LOGGER_APP_NAME" envDefault:"procurement_evaluation_system"`
	URL     string `env:"LOKI_URL"`
}
