package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// App holds the settings of the searchd binary.
type App struct {
	Service       string `env:"APP_NAME" envDefault:"searchd"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL"`
	CoresFile     string `env:"SEARCH_CORES_FILE" envDefault:"search.yaml"`
	DefaultDriver string `env:"SEARCH_DEFAULT_DRIVER" envDefault:"opensearch"`
}

// LoadEnv merges the given .env files into the process environment, earlier
// files winning on conflicts. With no paths it loads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load parses the environment into v according to its `env` tags.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
