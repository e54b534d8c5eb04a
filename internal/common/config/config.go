package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		// When disabled the service runs on the in-memory stores.
		Enabled bool `env:"REDIS_ENABLED" envDefault:"false"`
	}

	Draw struct {
		// Grace period after the scheduled draw time during which an
		// unconsumed commitment is still considered live.
		CommitmentGraceSec int `env:"DRAW_COMMITMENT_GRACE_SEC" envDefault:"3600"`

		// Bounded timeout for the external entropy fetch.
		EntropyTimeoutSec int `env:"DRAW_ENTROPY_TIMEOUT_SEC" envDefault:"5"`

		// TON lite-client global config URL; empty disables external
		// entropy and forces crypto-only draws.
		TonLiteConfigURL string `env:"TON_LITE_CONFIG_URL" envDefault:""`
	}
}

// CommitmentGrace returns the commitment grace period as a duration.
func (c *Config) CommitmentGrace() time.Duration {
	return time.Duration(c.Draw.CommitmentGraceSec) * time.Second
}

// EntropyTimeout returns the external entropy fetch timeout as a duration.
func (c *Config) EntropyTimeout() time.Duration {
	return time.Duration(c.Draw.EntropyTimeoutSec) * time.Second
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine; in production the environment is set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
