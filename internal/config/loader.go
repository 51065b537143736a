package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config.yaml"

// Load reads the application configuration and validates it.
// The YAML file is taken from CONFIG_PATH. Without CONFIG_PATH, ./config.yaml
// is used when present, otherwise only the environment is read.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat(defaultPath); err == nil {
			path = defaultPath
		}
	}

	var cfg Config
	if err := Read(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Read fills dst from the YAML file at path, then from environment variables,
// then from env-default tags for anything still unset. An empty path reads the
// environment only. A path that does not exist is an error.
func Read(path string, dst any) error {
	if path == "" {
		if err := cleanenv.ReadEnv(dst); err != nil {
			return fmt.Errorf("read env: %w", err)
		}
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, dst); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
