package game

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ProcessEnv is the process-level configuration shared by the binaries.
type ProcessEnv struct {
	ConfigDir     string        `env:"GACHA_CONFIG_DIR" envDefault:"config"`
	Profile       string        `env:"GACHA_PROFILE"`
	HTTPAddr      string        `env:"GACHA_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"GACHA_GRPC_ADDR" envDefault:":9090"`
	WatchInterval time.Duration `env:"GACHA_WATCH_INTERVAL" envDefault:"2s"`
}

// ParseProcessEnv reads ProcessEnv from the environment.
func ParseProcessEnv() (ProcessEnv, error) {
	var cfg ProcessEnv
	if err := env.Parse(&cfg); err != nil {
		return ProcessEnv{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
