package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const defaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Config holds all configuration for findash
type Config struct {
	Environment string          `toml:"environment"`
	Debug       bool            `toml:"debug"`
	Server      ServerConfig    `toml:"server"`
	Source      SourceConfig    `toml:"source"`
	Cache       CacheConfig     `toml:"cache"`
	Dashboard   DashboardConfig `toml:"dashboard"`
}

type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// SourceConfig selects where the financial records come from. Kind is one of
// json, mongo, surreal or sql; the remaining fields apply per kind.
type SourceConfig struct {
	Kind       string `toml:"kind"`
	Path       string `toml:"path"`       // json: local path or s3://bucket/key
	Region     string `toml:"region"`     // json: AWS region for s3 paths
	URI        string `toml:"uri"`        // mongo, surreal
	Database   string `toml:"database"`   // mongo, surreal
	Namespace  string `toml:"namespace"`  // surreal
	Collection string `toml:"collection"` // mongo collection, surreal or sql table
	Username   string `toml:"username"`   // surreal
	Password   string `toml:"password"`   // surreal
	DSN        string `toml:"dsn"`        // sql
	Timeout    string `toml:"timeout"`
}

type CacheConfig struct {
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

type DashboardConfig struct {
	Title      string `toml:"title"`
	Intro      string `toml:"intro"` // markdown
	AssetsHost string `toml:"assets_host"`
}

func (c *SourceConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

func (c *CacheConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 24*time.Hour)
}

func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 10*time.Second)
}

func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 10*time.Second)
}

func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         10000,
			ReadTimeout:  "10s",
			WriteTimeout: "10s",
		},
		Source: SourceConfig{
			Kind:       "json",
			Path:       "data/financial_data.json",
			Region:     "us-east-1",
			Database:   "financial",
			Namespace:  "findash",
			Collection: "metrics",
			Timeout:    "30s",
		},
		Cache: CacheConfig{
			TTL: "24h",
		},
		Dashboard: DashboardConfig{
			Title: "Financial Dashboard",
			Intro: "This project explores how companies balance liquidity and long-term debt " +
				"to evaluate their financial resilience. " +
				"The goal is to provide clear, interactive insights into how well " +
				"different companies can cover debt obligations with liquid assets.",
			AssetsHost: defaultAssetsHost,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides. A
// .env file in the working directory, if any, is read into the environment
// first; variables already set win.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config. The
// unprefixed names are the ones earlier deployments of the dashboard used.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINDASH_ENV"); env != "" {
		config.Environment = env
	}
	if v := os.Getenv("FINDASH_DEBUG"); v != "" {
		config.Debug = strings.EqualFold(v, "true")
	}

	if port := firstEnv("FINDASH_PORT", "PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if v := os.Getenv("USE_MONGO"); v != "" {
		if strings.EqualFold(v, "true") {
			config.Source.Kind = "mongo"
		} else {
			config.Source.Kind = "json"
		}
	}
	if v := os.Getenv("FINDASH_SOURCE"); v != "" {
		config.Source.Kind = strings.ToLower(v)
	}
	if v := firstEnv("FINDASH_DATA_PATH", "DATA_PATH"); v != "" {
		config.Source.Path = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		config.Source.Region = v
	}
	if v := firstEnv("FINDASH_SOURCE_URI", "MONGODB_URI"); v != "" {
		config.Source.URI = v
	}
	if v := firstEnv("FINDASH_DB_NAME", "DB_NAME"); v != "" {
		config.Source.Database = v
	}
	if v := firstEnv("FINDASH_COLLECTION", "COLLECTION"); v != "" {
		config.Source.Collection = v
	}
	if v := os.Getenv("FINDASH_SOURCE_USER"); v != "" {
		config.Source.Username = v
	}
	if v := os.Getenv("FINDASH_SOURCE_PASS"); v != "" {
		config.Source.Password = v
	}
	if v := os.Getenv("FINDASH_SQL_DSN"); v != "" {
		config.Source.DSN = v
	}

	if v := os.Getenv("FINDASH_REDIS_ADDR"); v != "" {
		config.Cache.RedisAddr = v
	}
	if v := os.Getenv("FINDASH_ASSETS_HOST"); v != "" {
		config.Dashboard.AssetsHost = v
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
