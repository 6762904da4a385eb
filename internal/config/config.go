package config

import (
	"log"
	"os"
	"runtime"
	"strconv"

	"class_portal/internal/utils"
)

// AppConfig holds non-database runtime settings
type AppConfig struct {
	ServerPort  string
	BcryptCost  int
	HashWorkers int
}

// LoadAppConfig loads application settings from environment variables,
// falling back to defaults where unset.
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		BcryptCost:  getEnvAsInt("BCRYPT_COST", utils.DefaultHashCost),
		HashWorkers: getEnvAsInt("HASH_WORKERS", runtime.NumCPU()),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
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
