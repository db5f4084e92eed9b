package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} references with the
// current environment. Collapsed into a single pattern since this config
// has no bare-$VAR fields to support.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		val, ok := os.LookupEnv(parts[1])
		if ok {
			return val
		}
		return parts[3]
	})
}

// LoadEnvFiles loads .env.local then .env into the process environment,
// local taking precedence since godotenv.Load never overwrites variables
// already set. Missing files are not an error.
func LoadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// LoadWithEnv loads .env/.env.local into the process environment, reads a
// YAML config file, expands ${VAR} references against the now-overlaid
// environment, then defaults and validates it.
func LoadWithEnv(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))
	return parse([]byte(expanded), path)
}
