package configs

import "time"

type Engine struct {
	LockTimeout time.Duration `env:"ENGINE_LOCK_TIMEOUT" envDefault:"5s"`
}
