package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/searchkit/pkg/blevesearch"
	"github.com/dmitrymomot/searchkit/pkg/config"
	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/opensearch"
	"github.com/dmitrymomot/searchkit/pkg/requestid"
	"github.com/dmitrymomot/searchkit/pkg/search"
)

type rootFlags struct {
	envFiles  []string
	coresFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "searchd",
		Short:         "Search core gateway",
		Long:          "searchd serves configured search cores over HTTP and runs maintenance tasks against them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	cmd.PersistentFlags().StringVar(&flags.coresFile, "cores", "", "cores file (overrides SEARCH_CORES_FILE)")

	cmd.AddCommand(
		newServeCmd(flags),
		newOptimizeCmd(flags),
		newQueryCmd(flags),
	)
	return cmd
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg      config.App
	log      *slog.Logger
	cores    config.Cores
	registry *search.Registry
}

func bootstrap(flags *rootFlags, stderr io.Writer) (*app, error) {
	if len(flags.envFiles) > 0 {
		if err := config.LoadEnv(flags.envFiles...); err != nil {
			return nil, err
		}
	} else if err := config.LoadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg config.App
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if flags.coresFile != "" {
		cfg.CoresFile = flags.coresFile
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithOutput(stderr),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	log := logger.New(logOpts...)

	cores, err := config.LoadCores(cfg.CoresFile)
	if err != nil {
		return nil, err
	}

	registry := search.NewRegistry(cores,
		search.WithDriver("opensearch", opensearch.Dial),
		search.WithDriver("bleve", blevesearch.Dial),
		search.WithDefaultDriver(cfg.DefaultDriver),
		search.WithLogger(log),
	)
	return &app{cfg: cfg, log: log, cores: cores, registry: registry}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.registry.Close(); err != nil {
		a.log.ErrorContext(ctx, "failed to close search connections", logger.Error(err))
	}
}
