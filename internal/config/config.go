package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	LogDir      string
	// Persistence
	StoreBackend string // memory, redis, postgres, sqlite
	RedisURL     string
	DatabaseURL  string
	SQLitePath   string
	TablePrefix  string
	SaveDebounce time.Duration
	// Auth (empty JWKSURL disables token verification)
	JWKSURL     string
	LocalUserID string
	// Generative assist
	AssistProvider   string
	AssistModel      string
	AnthropicAPIKey  string
	OpenRouterAPIKey string
	AssistTimeout    time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:       getEnv("LOG_DIR", ""),
		StoreBackend: getEnv("STORE_BACKEND", "sqlite"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "inkwell.sqlite"),
		TablePrefix:  getTablePrefix(env),
		SaveDebounce: getDuration("SAVE_DEBOUNCE", DefaultSaveDebounce),
		JWKSURL:      getEnv("JWKS_URL", ""),
		LocalUserID:  getEnv("LOCAL_USER_ID", "local"),
		// Assist Configuration
		AssistProvider:   getEnv("ASSIST_PROVIDER", "stub"),
		AssistModel:      getEnv("ASSIST_MODEL", "claude-haiku-4-5-20251001"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		AssistTimeout:    getDuration("ASSIST_TIMEOUT", 60*time.Second),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration string ("2s", "500ms"); invalid values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
