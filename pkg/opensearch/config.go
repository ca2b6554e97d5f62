package opensearch

import (
	"errors"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

// Config holds OpenSearch client connection parameters. The env tags allow a
// single cluster to be configured with config.Load; per-core settings come
// from search.Options through ConfigFromOptions.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required" envSeparator:","`
	Username     string   `env:"OPENSEARCH_USERNAME"`
	Password     string   `env:"OPENSEARCH_PASSWORD"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	Index        string   `env:"OPENSEARCH_INDEX"`
}

// ConfigFromOptions reads a core's options. Recognised keys are addresses
// (comma separated), username, password, max_retries, disable_retry and
// index; index defaults to the core name. Errors wrap search.ErrConfiguration.
func ConfigFromOptions(core string, opts search.Options) (Config, error) {
	cfg := Config{
		Addresses: opts.List("addresses"),
		Username:  opts.Get("username", ""),
		Password:  opts.Get("password", ""),
		Index:     opts.Get("index", core),
	}
	if len(cfg.Addresses) == 0 {
		return Config{}, errors.Join(search.ErrConfiguration, ErrNoAddresses)
	}

	var err error
	if cfg.MaxRetries, err = opts.Int("max_retries", 3); err != nil {
		return Config{}, errors.Join(search.ErrConfiguration, ErrInvalidOption, err)
	}
	if cfg.DisableRetry, err = opts.Bool("disable_retry", false); err != nil {
		return Config{}, errors.Join(search.ErrConfiguration, ErrInvalidOption, err)
	}
	return cfg, nil
}
