// Package env loads .env files into the process environment.
package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Load reads the given .env files (".env" when none are given) without
// overriding variables already set. Missing files are skipped.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
