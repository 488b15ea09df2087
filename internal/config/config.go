package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		URI            string `yaml:"uri" env:"MONGO_URI"`
		Name           string `yaml:"name" env:"MONGO_DB"`
		ConnectTimeout string `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT"`
	} `yaml:"database"`

	API struct {
		Key string `yaml:"key" env:"API_KEY"`
	} `yaml:"api"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; environment variables can carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "school_db"
	config.Database.ConnectTimeout = "10s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URI == "" {
		return fmt.Errorf("database URI is required")
	}

	if config.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if config.API.Key == "" {
		return fmt.Errorf("API key is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid database connect timeout format: %w", err)
	}

	return nil
}

// ConnectTimeout returns the parsed database connect timeout.
func (c *Config) ConnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.Database.ConnectTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
