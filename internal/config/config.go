package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	RoomTTLHours int `yaml:"room_ttl_hours"`
}

func (c *AppConfig) RoomTTL() time.Duration {
	return time.Duration(c.RoomTTLHours) * time.Hour
}

// Load reads the optional YAML config file (CONFIG_FILE, default
// config.yaml), then applies environment overrides. REDIS_URL is the only
// hard requirement.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:         ":3000",
		AllowOrigins: []string{"http://localhost:5173"},
		RoomTTLHours: 24,
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		path = "config.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); v != "" {
		cfg.AllowOrigins = nil
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, s)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ROOM_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoomTTLHours = n
		}
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis_url (or REDIS_URL) is required")
	}
	return cfg, nil
}
