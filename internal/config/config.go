// internal/config/config.go
//
// Process configuration, read from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and terminal client.
type Config struct {
	Port           string `env:"PORT" envDefault:"5175"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath         string `env:"DB_PATH" envDefault:"./data/app.db"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"codebreaker_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt      string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DailyPool      string `env:"DAILY_POOL" envDefault:"colors"`
	DailyLength    int    `env:"DAILY_LENGTH" envDefault:"4"`
	DefaultPool    string `env:"DEFAULT_POOL" envDefault:"colors"`
	DefaultLength  int    `env:"DEFAULT_LENGTH" envDefault:"4"`
	MaxLength      int    `env:"MAX_LENGTH" envDefault:"12"`
	Production     bool   `env:"PRODUCTION" envDefault:"false"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxLength < 1 {
		return Config{}, fmt.Errorf("parse env: MAX_LENGTH must be positive")
	}
	return cfg, nil
}
