package search

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Client is the per-core facade. Obtain it from Registry.Core; a Registry
// hands out a single Client per core name.
//
// Limit and Order mutate builder state kept on the Client and consumed by
// Fetch. That state is shared by everyone holding the Client, so concurrent
// request handlers should build a Request and call Search instead.
type Client struct {
	core     string
	registry *Registry

	mu   sync.Mutex
	page Pagination
	sort []SortField
}

// Core returns the core name the client is bound to.
func (c *Client) Core() string { return c.core }

// Limit sets the result window used by Fetch. A limit of zero or less disables
// windowing; page counts from 1 and values below 1 select the first page.
// Every call overwrites the previous window.
func (c *Client) Limit(limit, page int) *Client {
	c.mu.Lock()
	c.page = Pagination{Limit: limit, Page: page}
	c.mu.Unlock()
	return c
}

// Order replaces the sort specification with the given tokens, see ParseSort.
func (c *Client) Order(tokens ...string) *Client {
	return c.OrderBy(ParseSort(tokens...)...)
}

// OrderBy replaces the sort specification. Keys are applied in the given order.
func (c *Client) OrderBy(fields ...SortField) *Client {
	c.mu.Lock()
	c.sort = slices.Clone(fields)
	c.mu.Unlock()
	return c
}

// Request builds the request Fetch would submit for the same arguments.
func (c *Client) Request(fields []string, query, filter string) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildRequest(fields, query, filter, c.page, c.sort)
}

// Fetch runs query with filter, projecting fields, using the window and sort
// configured through Limit and Order.
func (c *Client) Fetch(ctx context.Context, fields []string, query, filter string) (*Result, error) {
	return c.Search(ctx, c.Request(fields, query, filter))
}

// Search executes req as is.
func (c *Client) Search(ctx context.Context, req *Request) (*Result, error) {
	conn, err := c.registry.Resolve(ctx, c.core)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := conn.Query(ctx, req)
	if err != nil {
		return nil, c.fail(ctx, transportError(c.core, "fetch", err))
	}
	c.trace(ctx, "fetch", start, slog.Int64("num_found", res.NumFound))
	return res, nil
}

// Put indexes one or more documents and commits. Each argument must be a
// struct, a pointer to one or an Indexable; a single slice or array argument
// is expanded into its elements. Every element is validated before anything
// is sent, so an invalid element means no request reaches the service.
// Returns the commit response.
func (c *Client) Put(ctx context.Context, docs ...any) (*Response, error) {
	items := expandBatch(docs)
	if len(items) == 0 {
		return nil, c.fail(ctx, newError(KindInvalidDocument, c.core, "put", nil))
	}

	batch := make([]Document, 0, len(items))
	for _, item := range items {
		doc, err := ToDocument(item)
		if err != nil {
			return nil, c.fail(ctx, newError(KindInvalidDocument, c.core, "put", err))
		}
		batch = append(batch, doc)
	}

	conn, err := c.registry.Resolve(ctx, c.core)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := conn.Add(ctx, batch); err != nil {
		return nil, c.fail(ctx, transportError(c.core, "put", err))
	}
	resp, err := conn.Commit(ctx)
	if err != nil {
		return nil, c.fail(ctx, transportError(c.core, "commit", err))
	}
	c.trace(ctx, "put", start, slog.Int("documents", len(batch)))
	return resp, nil
}

// Delete removes the documents with the given ids, one request per id in
// order, then commits once. The first failure stops the sequence; ids deleted
// before it are not restored and no commit is issued.
func (c *Client) Delete(ctx context.Context, ids ...string) (*Response, error) {
	conn, err := c.registry.Resolve(ctx, c.core)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	for _, id := range ids {
		if err := conn.DeleteByID(ctx, id); err != nil {
			return nil, c.fail(ctx, transportError(c.core, "delete", err))
		}
	}
	resp, err := conn.Commit(ctx)
	if err != nil {
		return nil, c.fail(ctx, transportError(c.core, "commit", err))
	}
	c.trace(ctx, "delete", start, slog.Int("documents", len(ids)))
	return resp, nil
}

// Optimize asks the service to optimize the core's index.
func (c *Client) Optimize(ctx context.Context) (*Response, error) {
	conn, err := c.registry.Resolve(ctx, c.core)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := conn.Optimize(ctx)
	if err != nil {
		return nil, c.fail(ctx, transportError(c.core, "optimize", err))
	}
	c.trace(ctx, "optimize", start)
	return resp, nil
}

func (c *Client) fail(ctx context.Context, err *Error) error {
	return c.registry.report(ctx, err)
}

func (c *Client) trace(ctx context.Context, op string, start time.Time, attrs ...slog.Attr) {
	attrs = append(attrs, logger.Core(c.core), logger.Operation(op), logger.Duration(time.Since(start)))
	c.registry.log.LogAttrs(ctx, slog.LevelDebug, "search operation completed", attrs...)
}

// expandBatch flattens a single slice or array argument into its elements.
func expandBatch(docs []any) []any {
	if len(docs) != 1 {
		return docs
	}
	rv := reflect.ValueOf(docs[0])
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return docs
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
