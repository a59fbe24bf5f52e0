package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads envFile when given (its values never override variables
// already set), otherwise the optional ./.env of dev builds, then the process
// environment.
func LoadFromEnv(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return Load(FromEnviron())
}
