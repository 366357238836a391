package configs

type Scheduler struct {
	Cron            string `env:"DEADLINE_SERVICE_CRON" envDefault:"*/5 * * * *"`
	HealthCheckAddr string `env:"HEALTH_CHECK_ADDR" envDefault:":8080"`
}
