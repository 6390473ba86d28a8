package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DBURL     string
	RedisAddr string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int

	ConfirmationCodeTTLMin int
	RecoveryCodeTTLMin     int

	RateLimitMax       int
	RateLimitWindowSec int

	SessionSweepIntervalMin int

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	AppName  string
}

func Load() *Config {
	// Missing .env is fine; real deployments set everything via environment.
	_ = godotenv.Load()

	return &Config{
		Env:                     getEnv("ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		DBURL:                   mustGetEnv("DB_URL"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		AccessTokenSecret:       mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:      mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:         getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:        getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		ConfirmationCodeTTLMin:  getEnvAsInt("CONFIRMATION_CODE_TTL", 60),
		RecoveryCodeTTLMin:      getEnvAsInt("RECOVERY_CODE_TTL", 60),
		RateLimitMax:            getEnvAsInt("RATE_LIMIT_MAX", 5),
		RateLimitWindowSec:      getEnvAsInt("RATE_LIMIT_WINDOW", 10),
		SessionSweepIntervalMin: getEnvAsInt("SESSION_SWEEP_INTERVAL", 30),
		SMTPHost:                getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:                getEnv("SMTP_PORT", "587"),
		SMTPUser:                getEnv("SMTP_USER", ""),
		SMTPPass:                getEnv("SMTP_PASS", ""),
		AppName:                 getEnv("APP_NAME", "Blogger Platform"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
