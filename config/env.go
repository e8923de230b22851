package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Env is a read-only view of environment variables.
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an Env backed by a map, mostly useful in tests and tooling.
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func get(env Env, key string) string {
	v, _ := env.Lookup(key)
	return v
}

// Modes that get their own overlay file. Any other mode reads plain .env.
var overlayModes = map[string]bool{
	"staging":    true,
	"production": true,
	"test":       true,
}

// EnvFile returns the overlay file name used for the given runtime mode.
func EnvFile(mode string) string {
	if overlayModes[mode] {
		return ".env." + mode
	}
	return ".env"
}

// RuntimeMode returns NODE_ENV, or "development" when it is unset.
func RuntimeMode(env Env) string {
	if mode := get(env, "NODE_ENV"); mode != "" {
		return mode
	}
	return "development"
}

// LoadEnv loads the overlay file for mode from dir into the process
// environment. Variables already set in the process win. A missing file is
// not an error.
func LoadEnv(mode, dir string) error {
	path := filepath.Join(dir, EnvFile(mode))

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat env file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("env file %s is a directory", path)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
