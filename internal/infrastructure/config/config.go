package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	JWTExpiration time.Duration
}

type ScoringConfig struct {
	PaymentHistoryWeight  float64
	LoanCountWeight       float64
	CurrentActivityWeight float64
	VolumeWeight          float64
}

type IngestConfig struct {
	CustomerBook string
	LoanBook     string
}

type Config struct {
	GRPCPort      int
	HTTPPort      int
	LogLevel      string
	LogFormat     string
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Redis         RedisConfig
	Auth          AuthConfig
	Scoring       ScoringConfig
	Ingest        IngestConfig
	MigrationsDir string
	ServiceName   string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
	if c.Auth.JWTSecret == "" {
		panic("JWT_SECRET environment variable is required")
	}
}

func Load() Config {
	return Config{
		GRPCPort:  getEnvInt("GRPC_PORT", 9090),
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "credit"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit_system"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "credit.events"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTIssuer:     getEnv("JWT_ISSUER", "credit-system"),
			JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Scoring: ScoringConfig{
			PaymentHistoryWeight:  getEnvFloat("SCORE_WEIGHT_PAYMENT_HISTORY", 0.30),
			LoanCountWeight:       getEnvFloat("SCORE_WEIGHT_LOAN_COUNT", 0.20),
			CurrentActivityWeight: getEnvFloat("SCORE_WEIGHT_CURRENT_ACTIVITY", 0.20),
			VolumeWeight:          getEnvFloat("SCORE_WEIGHT_VOLUME", 0.30),
		},
		Ingest: IngestConfig{
			CustomerBook: getEnv("INGEST_CUSTOMER_BOOK", "data/customer_data.xlsx"),
			LoanBook:     getEnv("INGEST_LOAN_BOOK", "data/loan_data.xlsx"),
		},
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://internal/infrastructure/postgres/migrations"),
		ServiceName:   "credit-system",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
