package util

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"plexus/pkg/logger"
)

// LoadEnv loads a .env file into the environment if one exists.
// Missing files are not an error; deployments use real environment
// variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment")
	}
}

// GetEnv returns the value of key or the empty string.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvString returns the value of key or defaultValue when unset.
func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of key parsed as an integer, or
// defaultValue when unset or unparsable.
func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetEnvInt64 returns the value of key parsed as an int64, or
// defaultValue when unset or unparsable.
func GetEnvInt64(key string, defaultValue int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetEnvBool returns the value of key as a bool. Only the literals
// "true" and "false" count; anything else falls back to defaultValue.
func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return defaultValue
}
