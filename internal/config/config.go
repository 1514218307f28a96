package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the current or the parent directory, once
// per process. It returns the file loaded, or "" when there was none.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(".env", filepath.Join("..", ".env"))
	})
	return loaded
}

// loadEnvFile loads the first existing candidate. Variables already set in
// the environment win over the file.
func loadEnvFile(candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return ""
		}
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
