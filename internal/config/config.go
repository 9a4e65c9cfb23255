// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
// Adapter credentials are optional: an empty key simply removes that
// provider from the active set.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Hunter    HunterConfig
	Snov      SnovConfig
	Apollo    ApolloConfig
	Company   CompanyEnrichConfig
	Resend    ResendConfig
	Dispatch  DispatchConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Providers ProvidersConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=disable"
}

type HunterConfig struct {
	APIKey  string
	BaseURL string
}

func (c HunterConfig) Enabled() bool { return c.APIKey != "" }

type SnovConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

func (c SnovConfig) Enabled() bool { return c.ClientID != "" && c.ClientSecret != "" }

type ApolloConfig struct {
	APIKey  string
	BaseURL string
}

func (c ApolloConfig) Enabled() bool { return c.APIKey != "" }

// CompanyEnrichConfig configures the company-lookup provider.
type CompanyEnrichConfig struct {
	APIKey  string
	BaseURL string
}

func (c CompanyEnrichConfig) Enabled() bool { return c.APIKey != "" }

type ResendConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
}

func (c ResendConfig) Enabled() bool { return c.APIKey != "" }

// DispatchConfig controls the per-message delivery retry policy.
type DispatchConfig struct {
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	CacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type AMQPConfig struct {
	URL   string
	Queue string
}

// ProvidersConfig carries the email-finder priority order. Fallback walks
// this list top to bottom, so order changes are config-only.
type ProvidersConfig struct {
	Priority []string
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           envOr("PORT", "8080"),
			AllowedOrigins: splitList(envOr("ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
		},
		Hunter: HunterConfig{
			APIKey:  os.Getenv("HUNTER_API_KEY"),
			BaseURL: envOr("HUNTER_BASE_URL", "https://api.hunter.io/v2"),
		},
		Snov: SnovConfig{
			ClientID:     os.Getenv("SNOV_CLIENT_ID"),
			ClientSecret: os.Getenv("SNOV_CLIENT_SECRET"),
			BaseURL:      envOr("SNOV_BASE_URL", "https://api.snov.io"),
		},
		Apollo: ApolloConfig{
			APIKey:  os.Getenv("APOLLO_API_KEY"),
			BaseURL: envOr("APOLLO_BASE_URL", "https://api.apollo.io/v1"),
		},
		Company: CompanyEnrichConfig{
			APIKey:  os.Getenv("COMPANYENRICH_API_KEY"),
			BaseURL: envOr("COMPANYENRICH_BASE_URL", "https://api.companyenrich.com"),
		},
		Resend: ResendConfig{
			APIKey:    os.Getenv("RESEND_API_KEY"),
			BaseURL:   envOr("RESEND_BASE_URL", "https://api.resend.com"),
			FromEmail: envOr("FROM_EMAIL", "outreach@recruitflow.dev"),
			FromName:  envOr("FROM_NAME", "RecruitFlow"),
		},
		Dispatch: DispatchConfig{
			MaxAttempts:    envInt("SEND_MAX_ATTEMPTS", 3),
			RetryBaseDelay: time.Duration(envInt("SEND_RETRY_BASE_MS", 2000)) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			CacheTTL: time.Duration(envInt("RESOLVER_CACHE_TTL_HOURS", 24)) * time.Hour,
		},
		AMQP: AMQPConfig{
			URL:   os.Getenv("AMQP_URL"),
			Queue: envOr("AMQP_EVENTS_QUEUE", "email_events"),
		},
		Providers: ProvidersConfig{
			Priority: splitList(envOr("PROVIDER_PRIORITY", "hunter,snov,apollo")),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
