package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port          int
	LogLevel      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	Store         string
	StoreDir      string
	DatabaseURL   string
	RedisURL      string
	NatsURL       string
	NatsToken     string
	APIToken      string
	MaxChars      int
}

func Load() Config {
	return Config{
		Port:          envInt("ASTRA_PORT", 8760),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		GeminiAPIKey:  envStr("GEMINI_API_KEY", envStr("VITE_API_KEY", "")),
		GeminiModel:   envStr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: envStr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Store:         envStr("ASTRA_STORE", "file"),
		StoreDir:      expandHome(envStr("ASTRA_STORE_DIR", "~/.astra")),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		RedisURL:      envStr("REDIS_URL", ""),
		NatsURL:       envStr("NATS_URL", ""),
		NatsToken:     envStr("NATS_TOKEN", ""),
		APIToken:      envStr("ASTRA_API_TOKEN", ""),
		MaxChars:      envInt("ASTRA_MAX_CHARS", 200),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
