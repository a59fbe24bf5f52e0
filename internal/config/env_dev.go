//go:build dev

package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv reads .env.local then .env from the working directory. Earlier
// files win, and neither overrides the process environment.
func loadDotEnv() error {
	var files []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		files = append(files, name)
	}
	if len(files) == 0 {
		return nil
	}
	return godotenv.Load(files...)
}
