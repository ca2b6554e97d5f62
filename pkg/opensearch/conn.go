package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

// Conn implements search.Conn for one OpenSearch index. Writes become visible
// after Commit, which refreshes the index; Optimize force-merges it.
type Conn struct {
	client *opensearch.Client
	index  string
}

// Dial is a search.Dialer for cores served by OpenSearch.
func Dial(ctx context.Context, core string, opts search.Options) (search.Conn, error) {
	cfg, err := ConfigFromOptions(core, opts)
	if err != nil {
		return nil, err
	}
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewConn(client, cfg.Index), nil
}

// NewConn binds an existing client to index.
func NewConn(client *opensearch.Client, index string) *Conn {
	return &Conn{client: client, index: index}
}

// Index returns the index name the connection targets.
func (c *Conn) Index() string { return c.index }

// Healthcheck pings the cluster behind the connection.
func (c *Conn) Healthcheck(ctx context.Context) error {
	return Healthcheck(c.client)(ctx)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *Conn) Query(ctx context.Context, req *search.Request) (*search.Result, error) {
	body, err := json.Marshal(searchBody(req))
	if err != nil {
		return nil, err
	}
	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(c.index),
		c.client.Search.WithBody(bytes.NewReader(body)),
	)
	raw, err := readResponse(res, err)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	_, start, _ := req.Window()
	out := &search.Result{
		NumFound: sr.Hits.Total.Value,
		Start:    start,
		Docs:     make([]map[string]any, 0, len(sr.Hits.Hits)),
	}
	if sr.Hits.MaxScore != nil {
		out.MaxScore = *sr.Hits.MaxScore
	}
	fields := req.Fields()
	withID := len(fields) == 0 || slices.Contains(fields, search.IDField)
	for _, hit := range sr.Hits.Hits {
		doc := hit.Source
		if doc == nil {
			doc = make(map[string]any)
		}
		if _, ok := doc[search.IDField]; !ok && withID {
			doc[search.IDField] = hit.ID
		}
		out.Docs = append(out.Docs, doc)
	}
	return out, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// Add submits docs in a single bulk request. Documents carrying an id field,
// matched case-insensitively, use it as the OpenSearch _id.
func (c *Conn) Add(ctx context.Context, docs []search.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		meta := map[string]any{"_index": c.index}
		if id, ok := doc.ID(); ok && id != nil {
			meta["_id"] = fmt.Sprint(id)
		}
		if err := enc.Encode(map[string]any{"index": meta}); err != nil {
			return err
		}
		if err := enc.Encode(doc.Map()); err != nil {
			return err
		}
	}

	res, err := c.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.client.Bulk.WithContext(ctx),
		c.client.Bulk.WithIndex(c.index),
	)
	raw, err := readResponse(res, err)
	if err != nil {
		return err
	}

	var br bulkResponse
	if err := json.Unmarshal(raw, &br); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	if !br.Errors {
		return nil
	}
	for _, item := range br.Items {
		for action, result := range item {
			if result.Error != nil {
				return fmt.Errorf("%w: %s %s: %s: %s", ErrRequestFailed, action, result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return ErrRequestFailed
}

// DeleteByID removes one document. Deleting an id that does not exist is not
// an error.
func (c *Conn) DeleteByID(ctx context.Context, id string) error {
	res, err := c.client.Delete(c.index, id, c.client.Delete.WithContext(ctx))
	if err == nil && res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	_, err = readResponse(res, err)
	return err
}

func (c *Conn) Commit(ctx context.Context) (*search.Response, error) {
	start := time.Now()
	res, err := c.client.Indices.Refresh(
		c.client.Indices.Refresh.WithContext(ctx),
		c.client.Indices.Refresh.WithIndex(c.index),
	)
	return toResponse(res, err, start)
}

func (c *Conn) Optimize(ctx context.Context) (*search.Response, error) {
	start := time.Now()
	res, err := c.client.Indices.Forcemerge(
		c.client.Indices.Forcemerge.WithContext(ctx),
		c.client.Indices.Forcemerge.WithIndex(c.index),
	)
	return toResponse(res, err, start)
}

func toResponse(res *opensearchapi.Response, err error, start time.Time) (*search.Response, error) {
	raw, err := readResponse(res, err)
	if err != nil {
		return nil, err
	}
	return &search.Response{
		Status: res.StatusCode,
		Took:   time.Since(start),
		Body:   json.RawMessage(raw),
	}, nil
}

// readResponse drains res and turns transport errors and error statuses into
// ErrRequestFailed.
func readResponse(res *opensearchapi.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: [%s] %s", ErrRequestFailed, res.Status(), errorReason(raw))
	}
	return raw, nil
}

func errorReason(raw []byte) string {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Reason != "" {
		return body.Error.Type + ": " + body.Error.Reason
	}
	return string(raw)
}

// searchBody translates a request into the OpenSearch query DSL. The match-all
// token maps to match_all; other query and filter strings go through
// query_string, whose syntax accepts field:value terms.
func searchBody(req *search.Request) map[string]any {
	var query map[string]any
	if req.MatchesAll() {
		query = map[string]any{"match_all": map[string]any{}}
	} else {
		query = queryString(req.Query())
	}
	if fq := req.Filter(); fq != "" {
		query = map[string]any{"bool": map[string]any{
			"must":   []any{query},
			"filter": []any{queryString(fq)},
		}}
	}

	body := map[string]any{
		"query":            query,
		"track_total_hits": true,
	}
	if fields := req.Fields(); len(fields) > 0 {
		body["_source"] = fields
	}
	if rows, start, ok := req.Window(); ok {
		body["size"] = rows
		body["from"] = start
	}
	if keys := req.Sort(); len(keys) > 0 {
		sort := make([]any, 0, len(keys))
		for _, k := range keys {
			sort = append(sort, map[string]any{k.Field: map[string]any{"order": string(k.Direction)}})
		}
		body["sort"] = sort
	}
	return body
}

func queryString(q string) map[string]any {
	if q == search.MatchAll {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{"query_string": map[string]any{"query": q}}
}
