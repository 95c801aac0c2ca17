package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	CD1Source    string
	ZMM045Source string
	PageSize     int

	FetchTimeoutMs    int
	FetchAttempts     int
	FetchRateLimitRPS int

	HTTPAddr         string
	CORSAllowOrigins []string

	CartBackend string
	CartKey     string
	DBPath      string
	RedisURL    string

	OutputDir string

	LogLevel  string
	LogFormat string
	Debug     bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CD1Source:    getEnv("CATALOG_CD1_SOURCE", filepath.Join(cwd, "data", "cd1.json")),
		ZMM045Source: getEnv("CATALOG_ZMM045_SOURCE", filepath.Join(cwd, "data", "zmm045.json")),
		PageSize:     getEnvInt("PAGE_SIZE", 20),

		FetchTimeoutMs:    getEnvInt("FETCH_TIMEOUT_MS", 15000),
		FetchAttempts:     getEnvInt("FETCH_ATTEMPTS", 1),
		FetchRateLimitRPS: getEnvInt("FETCH_RATE_LIMIT_RPS", 10),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),

		CartBackend: strings.ToLower(strings.TrimSpace(getEnv("CART_BACKEND", "sqlite"))),
		CartKey:     getEnv("CART_KEY", "carrinho"),
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RedisURL:    getEnv("REDIS_URL", ""),

		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Debug:     getEnvBool("DEBUG", false),
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = 1
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
