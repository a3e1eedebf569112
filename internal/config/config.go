package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// fallbackUser stands in when the USER environment variable is unset,
// matching the hosted deployment's account layout.
const fallbackUser = "drugsafety"

type Config struct {
	ServiceEnvironment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	ServiceAPIPort     string `envconfig:"SERVICE_API_PORT" default:"5001"`
	ServiceHost        string `envconfig:"SERVICE_HOST" default:"localhost:5001"`
	DataDir            string `envconfig:"DATA_DIR"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// The data directory lives under the deployment account's home unless
	// overridden explicitly.
	if cfg.DataDir == "" {
		user := os.Getenv("USER")
		if user == "" {
			user = fallbackUser
		}
		cfg.DataDir = filepath.Join("/home", user, "calculator_data")
	}

	return &cfg, nil
}
