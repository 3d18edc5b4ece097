// Package config — загрузка настроек сервиса из YAML-файла и переменных окружения.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Session  SessionConfig  `yaml:"session"`
	Logger   LoggerConfig   `yaml:"logger"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Stan     StanConfig     `yaml:"stan"`
	Checkout CheckoutConfig `yaml:"checkout"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	WebDir          string        `yaml:"web_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	// HashKey подписывает cookie сессии; пустой — случайный ключ на процесс
	HashKey string `yaml:"hash_key"`
	Secure  bool   `yaml:"secure"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	Mode       string `yaml:"mode"` // development | production; пустой — по Env
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type CatalogConfig struct {
	File         string `yaml:"file"`
	FromDatabase bool   `yaml:"from_database"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StanConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ClusterID string `yaml:"cluster_id"`
	ClientID  string `yaml:"client_id"`
	URL       string `yaml:"url"`
	Subject   string `yaml:"subject"`
	Durable   string `yaml:"durable"`
}

type CheckoutConfig struct {
	NodeID      int64         `yaml:"node_id"`
	SinkTimeout time.Duration `yaml:"sink_timeout"`
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func Default() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:            ":3000",
			WebDir:          "web",
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Session: SessionConfig{CookieName: "sessionId"},
		Logger:  LoggerConfig{Level: "info", Filename: "logs/aurora.log"},
		Stan: StanConfig{
			ClusterID: "aurora-cluster",
			ClientID:  "aurora-storefront",
			URL:       "nats://localhost:4222",
			Subject:   "orders",
			Durable:   "aurora-archiver",
		},
		Checkout: CheckoutConfig{NodeID: 1, SinkTimeout: 3 * time.Second},
	}
}

// Load — прочитать path (если задан) поверх умолчаний и применить переменные окружения.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HTTP_ADDR") == "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.WebDir = getEnv("WEB_DIR", cfg.HTTP.WebDir)
	cfg.Session.HashKey = getEnv("SESSION_HASH_KEY", cfg.Session.HashKey)
	cfg.Session.Secure = cast.ToBool(getEnv("SESSION_SECURE", cast.ToString(cfg.Session.Secure)))
	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Mode = getEnv("LOG_MODE", cfg.Logger.Mode)
	if cfg.Logger.Mode == "" {
		cfg.Logger.Mode = "development"
		if cfg.IsProduction() {
			cfg.Logger.Mode = "production"
		}
	}
	cfg.Catalog.File = getEnv("CATALOG_FILE", cfg.Catalog.File)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Stan.Enabled = cast.ToBool(getEnv("STAN_ENABLED", cast.ToString(cfg.Stan.Enabled)))
	cfg.Stan.ClusterID = getEnv("STAN_CLUSTER_ID", cfg.Stan.ClusterID)
	cfg.Stan.ClientID = getEnv("STAN_CLIENT_ID", cfg.Stan.ClientID)
	cfg.Stan.URL = getEnv("NATS_URL", cfg.Stan.URL)
	cfg.Stan.Subject = getEnv("STAN_SUBJECT", cfg.Stan.Subject)
	cfg.Checkout.NodeID = cast.ToInt64(getEnv("ORDER_NODE_ID", cast.ToString(cfg.Checkout.NodeID)))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
