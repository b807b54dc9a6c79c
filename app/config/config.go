package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server struct {
		Port string `envconfig:"PORT" default:"8080"`
	}
	Session struct {
		Key    string `envconfig:"SESSION_KEY" default:"your-session-secret-32-characters-long"`
		MaxAge int    `envconfig:"STATE_MAX_AGE" default:"31536000"`
		Secure bool   `envconfig:"STATE_SECURE" default:"false"`
	}
	Log struct {
		Mode string `envconfig:"LOG_MODE" default:"development"`
	}
	// Local holds the device-local database used by the CLI.
	Local struct {
		DBPath  string `envconfig:"FOUNDERHUB_DB" default:"founderhub.db"`
		Profile string `envconfig:"FOUNDERHUB_PROFILE" default:"default"`
	}
	Env string `envconfig:"ENV" default:"development"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := Process()
	if err != nil {
		log.Fatal("Error processing environment variables:", err)
	}

	return cfg
}

// Process reads the environment without touching .env files.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Env == "production" {
		cfg.Session.Secure = true
	}
	return &cfg, nil
}
