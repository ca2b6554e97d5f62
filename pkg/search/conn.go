package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Conn is a live handle to one core of a search service. Drivers implement it.
// A Conn is shared by every caller of the same core, so implementations must be
// safe for concurrent use to the extent the underlying client is.
type Conn interface {
	Query(ctx context.Context, req *Request) (*Result, error)
	Add(ctx context.Context, docs []Document) error
	DeleteByID(ctx context.Context, id string) error
	Commit(ctx context.Context) (*Response, error)
	Optimize(ctx context.Context) (*Response, error)
}

// Dialer constructs a Conn for core from its connection options.
type Dialer func(ctx context.Context, core string, opts Options) (Conn, error)

// Result is the payload of a successful query, passed through from the driver.
type Result struct {
	NumFound int64            `json:"numFound"`
	Start    int              `json:"start"`
	MaxScore float64          `json:"maxScore"`
	Docs     []map[string]any `json:"docs"`
}

// Response is the payload of a successful update, commit or optimize request.
type Response struct {
	Status int             `json:"status"`
	Took   time.Duration   `json:"took"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Options holds the connection parameters of one core as supplied by the
// configuration provider.
type Options map[string]string

// Get returns the trimmed value for key or def when it is missing or blank.
func (o Options) Get(key, def string) string {
	if v := strings.TrimSpace(o[key]); v != "" {
		return v
	}
	return def
}

// List splits a comma separated value, dropping blank items.
func (o Options) List(key string) []string {
	raw := o.Get(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (o Options) Int(key string, def int) (int, error) {
	raw := o.Get(key, "")
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (o Options) Bool(key string, def bool) (bool, error) {
	raw := o.Get(key, "")
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

func (o Options) Duration(key string, def time.Duration) (time.Duration, error) {
	raw := o.Get(key, "")
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

