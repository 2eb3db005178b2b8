package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/geminichat/internal/errors"
)

// Environment variables consulted for the API key, in order of precedence.
// VITE_GEMINI_API_KEY keeps .env files written for the web client working.
const (
	EnvAPIKey     = "GEMINI_API_KEY"
	EnvViteAPIKey = "VITE_GEMINI_API_KEY"
	EnvLogLevel   = "GEMINICHAT_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given .env files (default ".env").
// Existing environment variables are never overridden and missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var present []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		present = append(present, name)
	}
	if len(present) == 0 {
		return nil
	}

	return godotenv.Load(present...)
}

// ResolveAPIKey returns the API key to use.
// Precedence: explicit flag value, GEMINI_API_KEY, VITE_GEMINI_API_KEY, config file.
func ResolveAPIKey(flagValue string, cfg Config) (string, error) {
	candidates := []string{
		flagValue,
		os.Getenv(EnvAPIKey),
		os.Getenv(EnvViteAPIKey),
		cfg.APIKey,
	}
	for _, c := range candidates {
		if key := strings.TrimSpace(c); key != "" {
			return key, nil
		}
	}
	return "", apierrors.ErrNoAPIKey
}

// MaskAPIKey returns a display-safe version of key
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
