package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds the server runtime configuration, read from environment
// variables (a .env file is loaded by main before this runs) plus an
// optional TOML file for booster pack definitions.
type Config struct {
	DatabaseURL       string
	Port              int
	SessionSecret     string
	CatalogPath       string
	CatalogReloadSpec string // cron spec; empty disables periodic reload
	LogLevel          string
	Boosters          []Booster
}

// Booster is one purchasable pack definition.
type Booster struct {
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

type boosterFile struct {
	Booster []Booster `toml:"booster"`
}

// DefaultBooster mirrors the original single five-card champion pack.
var DefaultBooster = Booster{Name: "Champion Pack", Count: 5}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              3000,
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		CatalogPath:       os.Getenv("CATALOG_PATH"),
		CatalogReloadSpec: os.Getenv("CATALOG_RELOAD_CRON"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		Boosters:          []Booster{DefaultBooster},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}
	if cfg.SessionSecret == "" {
		// Dev fallback; set SESSION_SECRET in production.
		cfg.SessionSecret = "yboost-secret-key-change-in-production"
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "data/skins.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if path := os.Getenv("BOOSTER_CONFIG_PATH"); path != "" {
		boosters, err := loadBoosters(path)
		if err != nil {
			return nil, err
		}
		cfg.Boosters = boosters
	}

	return cfg, nil
}

func loadBoosters(path string) ([]Booster, error) {
	var file boosterFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to load booster config %s: %w", path, err)
	}
	if len(file.Booster) == 0 {
		return nil, fmt.Errorf("booster config %s defines no packs", path)
	}
	for _, b := range file.Booster {
		if b.Name == "" || b.Count <= 0 {
			return nil, fmt.Errorf("booster config %s: every pack needs a name and a positive count", path)
		}
	}
	return file.Booster, nil
}
