package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Settings holds runtime configuration for programs embedding the BirdDog
// client. Per-account credentials (api_key, user_name, password) are never
// read from the environment; they are resolved from AWS Secrets Manager at
// call time. See internal/secrets.
type Settings struct {
	Env        string
	BaseURL    string
	APIVersion string
	LogLevel   string

	HTTPTimeout time.Duration

	AWSRegion string

	// Optional shared token cache. Empty RedisAddr means tokens are cached
	// in-process only.
	RedisAddr string
	RedisDB   int
	RedisPass string
	TokenTTL  time.Duration
}

// Load reads Settings from environment variables and an optional .env file.
func Load() *Settings {
	_ = godotenv.Load()

	return &Settings{
		Env:         GetEnv("ENV", "dev"),
		BaseURL:     GetEnv("BIRDDOG_BASE_URL", "https://api.birddoghr.com"),
		APIVersion:  GetEnv("BIRDDOG_API_VERSION", "v2"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		HTTPTimeout: GetEnvDuration("BIRDDOG_HTTP_TIMEOUT", 30*time.Second),
		AWSRegion:   GetEnv("AWS_REGION", "us-east-2"),
		RedisAddr:   GetEnv("REDIS_ADDR", ""),
		RedisDB:     GetEnvInt("REDIS_DB", 0),
		RedisPass:   GetEnv("REDIS_PASS", ""),
		TokenTTL:    GetEnvDuration("BIRDDOG_TOKEN_TTL", 20*time.Minute),
	}
}
