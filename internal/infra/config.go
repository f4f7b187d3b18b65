package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	APIKeys             []string
	DefaultModel        string
	CloudflareAccountID string
	CloudflareAPIToken  string
	WorkersAIBaseURL    string
	ProviderTimeout     time.Duration
	DispatchConcurrency int
	RateLimitPerMin     int
	CORSAllowedOrigins  []string
	TrustProxyHeaders   bool
	MetricsEnabled      bool
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		APIKeys:             getEnvList("API_KEYS", nil),
		DefaultModel:        getEnv("DEFAULT_MODEL", "stable-diffusion-xl"),
		CloudflareAccountID: strings.TrimSpace(os.Getenv("CLOUDFLARE_ACCOUNT_ID")),
		CloudflareAPIToken:  strings.TrimSpace(os.Getenv("CLOUDFLARE_API_TOKEN")),
		WorkersAIBaseURL:    getEnv("WORKERS_AI_BASE_URL", "https://api.cloudflare.com/client/v4"),
		ProviderTimeout:     getEnvSeconds("PROVIDER_TIMEOUT_SECONDS", 60),
		DispatchConcurrency: getEnvInt("DISPATCH_CONCURRENCY", 1),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustProxyHeaders:   getEnvBool("TRUST_PROXY_HEADERS", false),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		HTTPReadTimeout:     getEnvSeconds("HTTP_READ_TIMEOUT_SECONDS", 15),
		HTTPWriteTimeout:    getEnvSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 300),
		HTTPIdleTimeout:     getEnvSeconds("HTTP_IDLE_TIMEOUT_SECONDS", 60),
	}

	if cfg.CloudflareAccountID == "" {
		return nil, fmt.Errorf("CLOUDFLARE_ACCOUNT_ID is required")
	}

	if cfg.CloudflareAPIToken == "" {
		return nil, fmt.Errorf("CLOUDFLARE_API_TOKEN is required")
	}

	if cfg.DispatchConcurrency < 1 {
		cfg.DispatchConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Second * time.Duration(getEnvInt(key, fallback))
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks. An unset or
// all-blank variable yields fallback.
func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
