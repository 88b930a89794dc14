package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Builder preview debounce window and session retention.
	PreviewDebounce time.Duration
	SessionTTL      time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "go-reporting"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppId:           getEnv("APP_ID", "go-reporting"),
		PreviewDebounce: getDurationMS("PREVIEW_DEBOUNCE_MS", 400),
		SessionTTL:      getDurationMS("SESSION_TTL_MS", 30*60*1000),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationMS(key string, fallback int64) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
