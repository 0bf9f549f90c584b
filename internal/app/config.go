package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://omni-leap-backend-service-280476321364.asia-south1.run.app"

type Config struct {
	BaseURL        string `yaml:"base_url"`
	FirebaseAPIKey string `yaml:"firebase_api_key"`
	GreetingName   string `yaml:"greeting_name"`
	Theme          string `yaml:"theme"`
	HTTPTimeoutSec int    `yaml:"http_timeout_sec"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		Theme:          "midnight",
		HTTPTimeoutSec: 60,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Theme == "" {
		cfg.Theme = "midnight"
	}
	if cfg.HTTPTimeoutSec <= 0 {
		cfg.HTTPTimeoutSec = 60
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "omnileap", "config.yml")
}
