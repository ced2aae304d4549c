package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerConfig   ServerConfig
	PostgresConfig PostgresConfig
	ClerkConfig    ClerkConfig
	AuthConfig     AuthConfig
	KafkaConfig    KafkaConfig
	TracingConfig  TracingConfig
	MetricsConfig  MetricsConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ClerkConfig struct {
	APIBaseURL    string
	SecretKey     string
	WebhookSecret string
}

type AuthConfig struct {
	TokenSecret string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TracingConfig struct {
	Endpoint string
}

type MetricsConfig struct {
	Port string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	config := &Config{
		ServerConfig: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5001"),
			AllowedOrigins: splitOrigins(getEnv("CLIENT_URL", "http://localhost:5173")),
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "user"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			DBName:   getEnv("POSTGRES_DB", "quicknotes"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		ClerkConfig: ClerkConfig{
			APIBaseURL:    getEnv("CLERK_API_URL", "https://api.clerk.com"),
			SecretKey:     getEnv("CLERK_SECRET_KEY", ""),
			WebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),
		},
		AuthConfig: AuthConfig{
			TokenSecret: getEnv("TOKEN_SECRET", ""),
		},
		KafkaConfig: KafkaConfig{
			Brokers: splitOrigins(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "quicknotes-events"),
		},
		TracingConfig: TracingConfig{
			Endpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		MetricsConfig: MetricsConfig{
			Port: getEnv("METRICS_PORT", ":8080"),
		},
	}

	if config.ClerkConfig.SecretKey == "" {
		return nil, fmt.Errorf("CLERK_SECRET_KEY is required")
	}

	if config.ClerkConfig.WebhookSecret == "" {
		return nil, fmt.Errorf("CLERK_WEBHOOK_SECRET is required")
	}

	if config.AuthConfig.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}

	return config, nil
}

// DSN builds the postgres connection string used by both the sql driver
// and the migration runner.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
