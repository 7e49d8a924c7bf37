package config

import (
	"os"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
)

// envFiles are loaded in order; earlier files and the process environment win.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the .env files that exist and returns their names.
// godotenv never overrides variables that are already set.
func loadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load env file").
				WithContext("config", name).
				Build()
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}
