package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Session  SessionConfig  `koanf:"session"`
	Tokens   TokenConfig    `koanf:"tokens"`
	Outbound OutboundConfig `koanf:"outbound"`
	Argon2   Argon2Config   `koanf:"argon2"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"`
	FrontURL    string `koanf:"front_url"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

// DSN builds the postgres connection string both the sqlx and GORM pools use.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
}

type SessionConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// TokenConfig is the enumerated record governing the token lifecycle: two
// independent lifetimes plus the anti-spam cooldown window.
type TokenConfig struct {
	EmailConfirmationLifetime time.Duration `koanf:"email_confirmation_lifetime"`
	ChangePasswordLifetime    time.Duration `koanf:"change_password_lifetime"`
	Cooldown                  time.Duration `koanf:"cooldown"`
}

type OutboundConfig struct {
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	MailerURL     string        `koanf:"mailer_url"`
}

type Argon2Config struct {
	Time    uint32 `koanf:"time"`
	Memory  uint32 `koanf:"memory"`
	Threads uint8  `koanf:"threads"`
	KeyLen  uint32 `koanf:"key_len"`
}

// Load reads defaults, an optional YAML file, and DONATELLO_* environment
// overrides, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("DONATELLO_", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "donatello",
		"app.environment": "development",
		"app.front_url":   "http://localhost:3000",

		"server.host": "0.0.0.0",
		"server.port": 8080,

		"database.host": "localhost",
		"database.port": "5432",
		"database.user": "postgres",
		"database.name": "donatello",

		"redis.host": "localhost",
		"redis.port": "6379",

		"session.ttl": "30m",

		"tokens.email_confirmation_lifetime": "168h",
		"tokens.change_password_lifetime":    "24h",
		"tokens.cooldown":                    "5m",

		"outbound.retry_attempts": 5,
		"outbound.retry_interval": "1s",

		"argon2.time":    4,
		"argon2.memory":  64 * 1024,
		"argon2.threads": 4,
		"argon2.key_len": 32,
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DONATELLO_ENVIRONMENT":       "app.environment",
	"DONATELLO_FRONT_URL":         "app.front_url",
	"DONATELLO_PORT":              "server.port",
	"DONATELLO_DATABASE_HOST":     "database.host",
	"DONATELLO_DATABASE_PORT":     "database.port",
	"DONATELLO_DATABASE_USER":     "database.user",
	"DONATELLO_DATABASE_PASSWORD": "database.password",
	"DONATELLO_DATABASE_NAME":     "database.name",
	"DONATELLO_REDIS_HOST":        "redis.host",
	"DONATELLO_REDIS_PORT":        "redis.port",
	"DONATELLO_REDIS_PASSWORD":    "redis.password",
	"DONATELLO_SESSION_SECRET":    "session.secret",
	"DONATELLO_MAILER_URL":        "outbound.mailer_url",
}

// envKeyReplacer maps recognized DONATELLO_* variables onto config keys;
// unrecognized ones are dropped.
func envKeyReplacer(s string) string {
	if key, ok := envKeyMap[strings.ToUpper(s)]; ok {
		return key
	}
	return ""
}
