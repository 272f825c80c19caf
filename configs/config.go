package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type OpenAI struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Configured reports whether captions and chat should go to the provider.
func (o OpenAI) Configured() bool {
	return o.APIKey != ""
}

type Config struct {
	Port                   string
	Environment            string
	FrontendURL            string
	RedisURI               string
	SecretKey              string
	CookieName             string
	ConnectDelay           time.Duration
	PublishFallbackDelay   time.Duration
	CompositionIdleTimeout time.Duration
	OpenAI                 OpenAI
}

func LoadConfig() *Config {
	return &Config{
		Port:                   getEnv("PORT", "3000"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:5173"),
		RedisURI:               getEnv("REDIS_URI", ""),
		SecretKey:              getEnv("SECRET_KEY", ""),
		CookieName:             getEnv("COOKIE_NAME", "vizora_session"),
		ConnectDelay:           getEnvDuration("CONNECT_DELAY", 2*time.Second),
		PublishFallbackDelay:   getEnvDuration("PUBLISH_FALLBACK_DELAY", time.Second),
		CompositionIdleTimeout: getEnvDuration("COMPOSITION_IDLE_TIMEOUT", time.Hour),
		OpenAI: OpenAI{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 500),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			Timeout:     getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Info("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Info("invalid float in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Info("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}
