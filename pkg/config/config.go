package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds the defaults that can be set from the environment. Command
// line flags override every field.
type Config struct {
	Workers int    `envconfig:"PATHTRACER_WORKERS" default:"0"`   // 0 uses every CPU
	Seed    int64  `envconfig:"PATHTRACER_SEED" default:"-1"`     // Negative picks a random seed
	Output  string `envconfig:"PATHTRACER_OUTPUT" default:"-"`    // "-" writes to stdout
	Debug   bool   `envconfig:"PATHTRACER_DEBUG" default:"false"` // Lowers the log level to debug
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
