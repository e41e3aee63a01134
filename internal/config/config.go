package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Board  BoardConfig  `yaml:"board"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BoardConfig tunes the overview board engine.
type BoardConfig struct {
	// MaxColumns is the ceiling on display columns.
	MaxColumns int `yaml:"max_columns"`
	// GroupItemCap bounds items fetched per group.
	GroupItemCap int `yaml:"group_item_cap"`
	// IncludeScheduled folds scheduled items into the unpublished
	// status shorthand.
	IncludeScheduled bool `yaml:"include_scheduled"`
	// QueryWorkers bounds concurrent group queries.
	QueryWorkers int `yaml:"query_workers"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "overview.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Board: BoardConfig{
			MaxColumns:   3,
			GroupItemCap: 200,
			QueryWorkers: 4,
		},
	}

	if path := os.Getenv("OVERVIEW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("OVERVIEW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("OVERVIEW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OVERVIEW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("OVERVIEW_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("OVERVIEW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if maxStr := os.Getenv("OVERVIEW_MAX_COLUMNS"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OVERVIEW_MAX_COLUMNS: %w", err)
		}
		cfg.Board.MaxColumns = max
	}
	if capStr := os.Getenv("OVERVIEW_GROUP_ITEM_CAP"); capStr != "" {
		itemCap, err := strconv.Atoi(capStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OVERVIEW_GROUP_ITEM_CAP: %w", err)
		}
		cfg.Board.GroupItemCap = itemCap
	}
	if scheduled := os.Getenv("OVERVIEW_INCLUDE_SCHEDULED"); scheduled != "" {
		cfg.Board.IncludeScheduled = scheduled == "1" || scheduled == "true"
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
