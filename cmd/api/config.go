package main

import (
	"log/slog"
	"time"

	"github.com/seeker-rps/api/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"PORT" default:"8080"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	Postgres config.PostgresConfig
	Solana   config.SolanaConfig
	Game     config.GameConfig
}
