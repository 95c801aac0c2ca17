package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("CART_KEY", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("page size=%d", cfg.PageSize)
	}
	if cfg.FetchAttempts < 1 {
		t.Fatalf("attempts=%d", cfg.FetchAttempts)
	}
	if len(cfg.CORSAllowOrigins) != 1 || cfg.CORSAllowOrigins[0] != "*" {
		t.Fatalf("origins=%v", cfg.CORSAllowOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("CART_BACKEND", " Redis ")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DEBUG", "yes")
	t.Setenv("FETCH_ATTEMPTS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PageSize != 50 {
		t.Fatalf("page size=%d", cfg.PageSize)
	}
	if cfg.CartBackend != "redis" {
		t.Fatalf("backend=%q", cfg.CartBackend)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "http://b.test" {
		t.Fatalf("origins=%v", cfg.CORSAllowOrigins)
	}
	if !cfg.Debug {
		t.Fatal("debug not set")
	}
	if cfg.FetchAttempts != 1 {
		t.Fatalf("attempts=%d", cfg.FetchAttempts)
	}
}

func TestRequire(t *testing.T) {
	var cfg Config
	if err := cfg.Require("REDIS_URL", "  "); err == nil {
		t.Fatal("expected error")
	}
	if err := cfg.Require("REDIS_URL", "redis://localhost:6379"); err != nil {
		t.Fatal(err)
	}
}
