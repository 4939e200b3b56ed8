package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Places    PlacesConfig
	Recommend RecommendConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Secure      bool   // HSTS and HTTPS-only behavior
	Environment string // "development", "production", "test"
	Debug       bool
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
	Stub         bool // serve deterministic drafts without calling the provider
	Timeout      time.Duration
}

type PlacesConfig struct {
	APIKey  string
	Timeout time.Duration
}

type RecommendConfig struct {
	// DraftCount is the number of ideas requested per questionnaire.
	// The documented contract fixes this at three.
	DraftCount int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Secure:      getEnvBool("SERVER_SECURE", false),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvBool("DEBUG", false),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			Stub:         getEnvBool("AI_STUB", false),
			Timeout:      getEnvDuration("AI_TIMEOUT", 60*time.Second),
		},
		Places: PlacesConfig{
			APIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
			Timeout: getEnvDuration("PLACES_TIMEOUT", 10*time.Second),
		},
		Recommend: RecommendConfig{
			DraftCount: getEnvInt("RECOMMEND_DRAFT_COUNT", 3),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
