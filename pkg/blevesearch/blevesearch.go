// Package blevesearch is an embedded driver for package search backed by
// github.com/blevesearch/bleve/v2. It serves cores from an on-disk index, or
// from memory when no path is configured, which makes it suitable for tests,
// development and single-node deployments.
//
// Adds and deletes are buffered in a batch and applied by Commit, so they are
// not visible to queries until then. Optimize has nothing to do for Bleve and
// returns an empty response.
//
// Core options: path (index directory; empty keeps the index in memory).
package blevesearch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

var (
	ErrOpenIndex   = errors.New("bleve index could not be opened")
	ErrIndexClosed = errors.New("bleve index is closed")
	ErrEmptyID     = errors.New("document id is empty")
)

// Conn implements search.Conn over a single Bleve index.
type Conn struct {
	index bleve.Index

	mu      sync.Mutex
	pending *bleve.Batch
	closed  bool
}

// Dial is a search.Dialer for cores served by an embedded Bleve index.
func Dial(_ context.Context, core string, opts search.Options) (search.Conn, error) {
	idx, err := Open(opts.Get("path", ""))
	if err != nil {
		return nil, fmt.Errorf("core %q: %w", core, err)
	}
	return NewConn(idx), nil
}

// Open opens the index at path, creating it with a dynamic mapping when it
// does not exist yet. An empty path creates an in-memory index.
func Open(path string) (bleve.Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(newMapping())
		if err != nil {
			return nil, errors.Join(ErrOpenIndex, err)
		}
		return idx, nil
	}
	if _, err := os.Stat(path); err == nil {
		idx, err := bleve.Open(path)
		if err != nil {
			return nil, errors.Join(ErrOpenIndex, err)
		}
		return idx, nil
	}
	idx, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, errors.Join(ErrOpenIndex, err)
	}
	return idx, nil
}

func newMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	m.DefaultMapping.Dynamic = true
	m.StoreDynamic = true
	m.IndexDynamic = true
	return m
}

// NewConn wraps an open index.
func NewConn(idx bleve.Index) *Conn {
	return &Conn{index: idx, pending: idx.NewBatch()}
}

func (c *Conn) Query(_ context.Context, req *search.Request) (*search.Result, error) {
	q := parseQuery(req.Query())
	if fq := req.Filter(); fq != "" {
		q = bleve.NewConjunctionQuery(q, parseQuery(fq))
	}

	sr := bleve.NewSearchRequest(q)
	if rows, start, ok := req.Window(); ok {
		sr.Size = rows
		sr.From = start
	}
	sr.Fields = req.Fields()
	if len(sr.Fields) == 0 {
		sr.Fields = []string{"*"}
	}
	if keys := req.Sort(); len(keys) > 0 {
		order := make([]string, 0, len(keys))
		for _, k := range keys {
			if k.Direction == search.Descending {
				order = append(order, "-"+k.Field)
			} else {
				order = append(order, k.Field)
			}
		}
		sr.SortBy(order)
	}

	res, err := c.index.Search(sr)
	if err != nil {
		return nil, err
	}

	out := &search.Result{
		NumFound: int64(res.Total),
		Start:    sr.From,
		MaxScore: res.MaxScore,
		Docs:     make([]map[string]any, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		doc := make(map[string]any, len(hit.Fields)+1)
		for k, v := range hit.Fields {
			doc[k] = v
		}
		if _, ok := doc[search.IDField]; !ok {
			doc[search.IDField] = hit.ID
		}
		out.Docs = append(out.Docs, doc)
	}
	return out, nil
}

// Add stages docs for the next Commit. Documents without an "id" field get a
// generated UUID. The call is all or nothing: if any document is rejected,
// none of them are staged.
func (c *Conn) Add(_ context.Context, docs []search.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrIndexClosed
	}
	batch := c.index.NewBatch()
	for _, doc := range docs {
		fields := doc.Map()
		id := uuid.NewString()
		if v, ok := doc.ID(); ok && v != nil {
			id = fmt.Sprint(v)
		} else {
			fields[search.IDField] = id
		}
		if id == "" {
			return ErrEmptyID
		}
		if err := batch.Index(id, fields); err != nil {
			return err
		}
	}
	c.pending.Merge(batch)
	return nil
}

// DeleteByID stages a delete for the next Commit.
func (c *Conn) DeleteByID(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrIndexClosed
	}
	c.pending.Delete(id)
	return nil
}

// Commit applies every staged add and delete.
func (c *Conn) Commit(_ context.Context) (*search.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrIndexClosed
	}
	start := time.Now()
	if c.pending.Size() > 0 {
		if err := c.index.Batch(c.pending); err != nil {
			return nil, err
		}
	}
	c.pending = c.index.NewBatch()
	return &search.Response{Status: 0, Took: time.Since(start)}, nil
}

func (c *Conn) Optimize(_ context.Context) (*search.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrIndexClosed
	}
	return &search.Response{Status: 0}, nil
}

// Healthcheck fails once the connection is closed or the index cannot be read.
func (c *Conn) Healthcheck(context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrIndexClosed
	}
	_, err := c.index.DocCount()
	return err
}

// Count returns the number of committed documents.
func (c *Conn) Count() (uint64, error) {
	return c.index.DocCount()
}

// Close discards staged writes and closes the index.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.pending.Reset()
	return c.index.Close()
}

func parseQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" || q == search.MatchAll {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewQueryStringQuery(q)
}
