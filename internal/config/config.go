package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Capability CapabilityConfig
	Comparison ComparisonConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

// CapabilityConfig points at the external backend capabilities the core
// consumes: the AI chatbot service and the product catalog service.
type CapabilityConfig struct {
	ChatbotBaseURL   string
	CatalogBaseURL   string
	APIKey           string
	AssistantTimeout time.Duration
	CatalogTimeout   time.Duration
}

type ComparisonConfig struct {
	// MaxProducts caps the shared comparison set.
	MaxProducts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Capability: CapabilityConfig{
			ChatbotBaseURL:   getEnv("CHATBOT_BASE_URL", "http://localhost:8000"),
			CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "http://localhost:8080/api"),
			APIKey:           getEnv("CAPABILITY_API_KEY", ""),
			AssistantTimeout: getEnvAsDuration("ASSISTANT_TIMEOUT", 60*time.Second),
			CatalogTimeout:   getEnvAsDuration("CATALOG_TIMEOUT", 15*time.Second),
		},
		Comparison: ComparisonConfig{
			MaxProducts: getEnvAsInt("COMPARISON_MAX_PRODUCTS", 4),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
