package infra

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acct-123")
	t.Setenv("CLOUDFLARE_API_TOKEN", "token-abc")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("API_KEYS", "")
	t.Setenv("DEFAULT_MODEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if len(cfg.APIKeys) != 0 {
		t.Fatalf("APIKeys = %#v, want empty", cfg.APIKeys)
	}
	if cfg.DefaultModel != "stable-diffusion-xl" {
		t.Fatalf("DefaultModel = %q", cfg.DefaultModel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.DispatchConcurrency != 1 {
		t.Fatalf("DispatchConcurrency = %d, want 1", cfg.DispatchConcurrency)
	}
	if cfg.ProviderTimeout != 60*time.Second {
		t.Fatalf("ProviderTimeout = %s", cfg.ProviderTimeout)
	}
	if cfg.TrustProxyHeaders {
		t.Fatalf("TrustProxyHeaders should default to false")
	}
}

func TestLoadConfigRequiresCloudflareCredentials(t *testing.T) {
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "")
	t.Setenv("CLOUDFLARE_API_TOKEN", "token")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without account id")
	}

	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acct")
	t.Setenv("CLOUDFLARE_API_TOKEN", " ")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without api token")
	}
}

func TestLoadConfigParsesLists(t *testing.T) {
	setRequired(t)
	t.Setenv("API_KEYS", " sk-one, ,sk-two ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"sk-one", "sk-two"}
	if len(cfg.APIKeys) != len(expected) {
		t.Fatalf("APIKeys mismatch: got %#v want %#v", cfg.APIKeys, expected)
	}
	for i, key := range expected {
		if cfg.APIKeys[i] != key {
			t.Fatalf("APIKeys[%d] = %q, want %q", i, cfg.APIKeys[i], key)
		}
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigClampsConcurrencyAndIgnoresGarbage(t *testing.T) {
	setRequired(t)
	t.Setenv("DISPATCH_CONCURRENCY", "0")
	t.Setenv("METRICS_ENABLED", "nope")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "ten")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DispatchConcurrency != 1 {
		t.Fatalf("DispatchConcurrency = %d, want 1", cfg.DispatchConcurrency)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("MetricsEnabled should fall back to true")
	}
	if cfg.RateLimitPerMin != 60 {
		t.Fatalf("RateLimitPerMin = %d, want 60", cfg.RateLimitPerMin)
	}
}
