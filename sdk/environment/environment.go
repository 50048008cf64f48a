// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files, or from
// .env in the working directory when no path is given. A missing file is not
// an error; values already present in the process environment win.
//
// Example:
//
//	if err := LoadEnv(); err != nil {
//	    log.Printf("loading .env: %v", err)
//	}
//
//	LoadEnv("/config/.env.production")
func LoadEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetNamespaceEnvKey constructs a namespaced environment variable key by
// combining a namespace prefix with the actual key name using an underscore.
// If no namespace is provided, it returns the key unchanged.
//
//	GetNamespaceEnvKey("TASKTRACKER", "PG_DATABASE_URL") // "TASKTRACKER_PG_DATABASE_URL"
func GetNamespaceEnvKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", namespace, key)
}

// GetNamespaceEnvOrDefault retrieves a namespaced environment variable value,
// returning a fallback value if the variable is not set.
func GetNamespaceEnvOrDefault(namespace, key, fallback string) string {
	return GetEnvOrDefault(GetNamespaceEnvKey(namespace, key), fallback)
}
