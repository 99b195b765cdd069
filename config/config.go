package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jhentschel/anntab/logger"
)

// Config holds runtime settings taken from the environment. Corpus layout
// conventions live in Profile instead.
type Config struct {
	Port          string
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	ReleaseBucket string
	AWSRegion     string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load reads configuration from a .env file (if present) and the
// environment. Existing environment variables win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("ANNTAB_PORT", "8080"),
		LogLevel:      getEnv("ANNTAB_LOG_LEVEL", "info"),
		LogPath:       getEnv("ANNTAB_LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("ANNTAB_LOG_MAX_SIZE", 50),
		ReleaseBucket: getEnv("ANNTAB_RELEASE_BUCKET", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
	}
}

// InitLogger wires the logger from this config.
func (c *Config) InitLogger() {
	logger.Init(logger.Config{
		Level:      c.LogLevel,
		OutputPath: c.LogPath,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: 3,
		MaxAgeDays: 28,
	})
}
