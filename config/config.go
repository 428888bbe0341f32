package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	App     AppConfig
	Publish PublishConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	SeedFile    string
}

// PublishConfig paces the simulated publish pipeline. Tick is the delay
// between progress increments, StepPause the gap between steps.
type PublishConfig struct {
	Tick              time.Duration
	StepPause         time.Duration
	ProgressIncrement int
	FailureRate       float64
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SeedFile:    getEnv("SEED_FILE", ""),
		},
		Publish: PublishConfig{
			Tick:              time.Duration(getEnvAsInt("PUBLISH_TICK_MS", 100)) * time.Millisecond,
			StepPause:         time.Duration(getEnvAsInt("PUBLISH_STEP_PAUSE_MS", 500)) * time.Millisecond,
			ProgressIncrement: getEnvAsInt("PUBLISH_PROGRESS_INCREMENT", 10),
			FailureRate:       getEnvAsFloat("PUBLISH_FAILURE_RATE", 0.3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Publish.ProgressIncrement <= 0 || c.Publish.ProgressIncrement > 100 {
		return fmt.Errorf("PUBLISH_PROGRESS_INCREMENT must be within 1..100")
	}

	if c.Publish.FailureRate < 0 || c.Publish.FailureRate > 1 {
		return fmt.Errorf("PUBLISH_FAILURE_RATE must be within 0..1")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
