package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// ConfigProvider supplies connection options per core. A missing or empty map
// means the core is not configured.
type ConfigProvider interface {
	CoreOptions(core string) (map[string]string, bool)
}

// ProviderFunc adapts a function to ConfigProvider.
type ProviderFunc func(core string) (map[string]string, bool)

func (f ProviderFunc) CoreOptions(core string) (map[string]string, bool) { return f(core) }

// StaticProvider serves options from an in-memory map.
type StaticProvider map[string]map[string]string

func (p StaticProvider) CoreOptions(core string) (map[string]string, bool) {
	opts, ok := p[core]
	return opts, ok
}

// DriverKey is the option naming the driver used to dial a core.
const DriverKey = "driver"

// Registry owns the per-core Client instances and their connections.
// It constructs at most one Conn per core, even under concurrent first use.
// Once built, a Conn is reused for the lifetime of the Registry without any
// liveness check; a failed dial is not cached.
type Registry struct {
	provider      ConfigProvider
	drivers       map[string]Dialer
	defaultDriver string
	sink          Sink
	log           *slog.Logger

	mu      sync.RWMutex
	conns   map[string]Conn
	clients map[string]*Client
	group   singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithDriver registers dialer under name. Cores select it with the "driver" option.
func WithDriver(name string, dialer Dialer) Option {
	return func(r *Registry) {
		if name != "" && dialer != nil {
			r.drivers[name] = dialer
		}
	}
}

// WithDefaultDriver sets the driver used by cores whose options omit "driver".
func WithDefaultDriver(name string) Option {
	return func(r *Registry) { r.defaultDriver = name }
}

// WithSink routes failure reports to s. Nil is ignored.
func WithSink(s Sink) Option {
	return func(r *Registry) {
		if s != nil {
			r.sink = s
		}
	}
}

// WithLogger sets the logger used for connection and operation events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns a Registry reading core options from provider.
func NewRegistry(provider ConfigProvider, opts ...Option) *Registry {
	r := &Registry{
		provider: provider,
		drivers:  make(map[string]Dialer),
		conns:    make(map[string]Conn),
		clients:  make(map[string]*Client),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sink == nil {
		r.sink = NewLogSink(r.log)
	}
	r.log = r.log.With(logger.Component("search"))
	return r
}

// Core returns the Client for core, creating it on first request. Repeated
// calls with the same name return the same instance.
func (r *Registry) Core(core string) *Client {
	r.mu.RLock()
	c, ok := r.clients[core]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[core]; ok {
		return c
	}
	c = &Client{core: core, registry: r}
	r.clients[core] = c
	return c
}

// Resolve returns the cached Conn for core or dials a new one. Failures are
// reported to the sink.
func (r *Registry) Resolve(ctx context.Context, core string) (Conn, error) {
	conn, err := r.resolve(ctx, core)
	if err != nil {
		return nil, r.report(ctx, err)
	}
	return conn, nil
}

// Healthcheck resolves core and, when its Conn implements
// Healthcheck(context.Context) error, runs it. Unlike Resolve it never
// reports to the sink, so periodic readiness polling does not flood it.
func (r *Registry) Healthcheck(ctx context.Context, core string) error {
	conn, err := r.resolve(ctx, core)
	if err != nil {
		return err
	}
	if hc, ok := conn.(interface{ Healthcheck(context.Context) error }); ok {
		return hc.Healthcheck(ctx)
	}
	return nil
}

func (r *Registry) resolve(ctx context.Context, core string) (Conn, error) {
	if conn, ok := r.cached(core); ok {
		return conn, nil
	}

	v, err, _ := r.group.Do(core, func() (any, error) {
		if conn, ok := r.cached(core); ok {
			return conn, nil
		}
		conn, err := r.dial(ctx, core)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.conns[core] = conn
		r.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Conn), nil
}

// Close closes every established connection that implements io.Closer and
// forgets them. Clients stay valid and will redial on next use.
func (r *Registry) Close() error {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]Conn)
	r.mu.Unlock()

	var errs []error
	for _, conn := range conns {
		if c, ok := conn.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) cached(core string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[core]
	return conn, ok
}

func (r *Registry) dial(ctx context.Context, core string) (Conn, error) {
	var raw map[string]string
	if r.provider != nil {
		raw, _ = r.provider.CoreOptions(core)
	}
	if len(raw) == 0 {
		return nil, newError(KindConfiguration, core, "connect", nil)
	}
	opts := Options(maps.Clone(raw))

	driver := opts.Get(DriverKey, r.defaultDriver)
	dialer, ok := r.drivers[driver]
	if !ok {
		return nil, newError(KindUnavailable, core, "connect", fmt.Errorf("unknown driver %q", driver))
	}

	conn, err := dialer(ctx, core, opts)
	if errors.Is(err, ErrConfiguration) {
		return nil, newError(KindConfiguration, core, "connect", err)
	}
	if err != nil {
		return nil, transportError(core, "connect", err)
	}
	r.log.InfoContext(ctx, "search connection established", logger.Core(core), slog.String("driver", driver))
	return conn, nil
}

// report forwards err to the sink and returns it unchanged.
func (r *Registry) report(ctx context.Context, err error) error {
	r.sink.Report(ctx, KindOf(err), err)
	return err
}
