package test

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// TEST_DEBUG switches the scenario logger to debug level.
	Debug bool `envconfig:"TEST_DEBUG" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
