package config

import (
	"os"

	"github.com/pkg/errors"
)

// Config holds all environment-supplied options. Provider credentials are
// deliberately allowed to be empty here: a missing key surfaces as an
// unconfigured-provider error on first use, not as a startup failure.
type Config struct {
	Addr            string
	DBDriver        string // memory | sqlite3 | postgres
	DBConn          string
	CookieSecret    string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	DefaultProvider string // gemini | openai
	ChatPersona     string
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:            defaultEnv("ADDR", ":8080"),
		DBDriver:        defaultEnv("DB_DRIVER", "memory"),
		DBConn:          defaultEnv("DB_CONN", "./inkwell.db"),
		CookieSecret:    os.Getenv("COOKIE_SECRET"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		DefaultProvider: defaultEnv("AI_PROVIDER", "gemini"),
		ChatPersona:     os.Getenv("CHAT_PERSONA"),
	}

	switch cfg.DBDriver {
	case "memory", "sqlite3", "postgres":
	default:
		return cfg, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.DefaultProvider {
	case "gemini", "openai":
	default:
		return cfg, errors.Errorf("unsupported AI_PROVIDER %q", cfg.DefaultProvider)
	}

	return cfg, nil
}

func defaultEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
