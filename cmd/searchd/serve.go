package main

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/searchkit/pkg/cache"
	"github.com/dmitrymomot/searchkit/pkg/config"
	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/searchapi"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured cores over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer a.close(ctx)
			return a.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	var cacheCfg cache.Config
	if err := config.Load(&cacheCfg); err != nil {
		return err
	}
	c, err := cache.New(ctx, cacheCfg)
	if err != nil {
		return err
	}
	if closer, ok := c.(io.Closer); ok {
		defer closer.Close()
	}

	apiOpts := []searchapi.Option{
		searchapi.WithLogger(a.log),
		searchapi.WithCache(c, cacheCfg.TTL),
		searchapi.WithCoreChecks(a.cores.Names()...),
	}
	if r, ok := c.(*cache.Redis); ok {
		apiOpts = append(apiOpts, searchapi.WithHealthChecks(httpserver.Check{Name: "cache", Run: r.Healthcheck}))
	}
	api := searchapi.New(a.registry, apiOpts...)

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	if addr != "" {
		httpCfg.Addr = addr
	}
	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(a.log),
		httpserver.WithStartHook(func(bound net.Addr) {
			a.log.InfoContext(ctx, "searchd ready",
				slog.String("addr", bound.String()),
				slog.Any("cores", a.cores.Names()),
				slog.String("cache", cacheCfg.Driver),
			)
		}),
	)
	return srv.Run(ctx, api.Router())
}
