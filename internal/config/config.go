package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Service
	Port    string
	GinMode string
	NodeEnv string

	// Origins trusted by the auth service (app and API base URLs).
	AppBaseURL string
	APIBaseURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// OAuth providers
	GithubClientID     string
	GithubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string

	// AuthSecret signs OAuth flow state tokens.
	AuthSecret string

	// SessionExpiresIn is the session lifetime in seconds.
	SessionExpiresIn int

	// Swagger reference route credentials
	SwaggerUser     string
	SwaggerPassword string

	// Polar payments
	PolarAccessToken   string
	PolarWebhookSecret string
	PolarServer        string
}

func Load() *Config {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		NodeEnv: getEnv("NODE_ENV", "development"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "gitsprint"),
		DBPassword: getEnv("DB_PASSWORD", "gitsprint"),
		DBName:     getEnv("DB_NAME", "gitsprint"),

		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GoogleClientID:     getEnv("BETTER_AUTH_GOOGLE_ID", ""),
		GoogleClientSecret: getEnv("BETTER_AUTH_GOOGLE_SECRET", ""),

		AuthSecret: getEnv("AUTH_SECRET", "default-secret-key-change-me"),

		SessionExpiresIn: getEnvInt("SESSION_EXPIRES_IN", 60*60*8),

		SwaggerUser:     getEnv("SWAGGER_USER", ""),
		SwaggerPassword: getEnv("SWAGGER_PASSWORD", ""),

		PolarAccessToken:   getEnv("POLAR_ACCESS_TOKEN", ""),
		PolarWebhookSecret: getEnv("POLAR_WEBHOOK_SECRET", ""),
		PolarServer:        getEnv("POLAR_SERVER", "sandbox"),
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.NodeEnv == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
