package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	// WebhookURL is the compiled-in fallback; the settings store value wins
	// when present.
	WebhookURL string

	// SelectorsFile optionally points at a YAML override for the host UI
	// selector set.
	SelectorsFile string

	Headless bool
}

const DefaultWebhookURL = "https://marketbot-replies.up.railway.app/webhook/marketplace-reply"

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "marketbot"),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "marketbot-images"),

		WebhookURL:    getEnv("WEBHOOK_URL", DefaultWebhookURL),
		SelectorsFile: getEnv("SELECTORS_FILE", ""),
		Headless:      getEnv("HEADLESS", "true") != "false",
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
