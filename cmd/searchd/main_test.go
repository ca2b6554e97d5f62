package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/blevesearch"
	"github.com/dmitrymomot/searchkit/pkg/search"
)

// seedCores writes a cores file with one bleve core backed by an on-disk
// index holding three products.
func seedCores(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "products.bleve")

	idx, err := blevesearch.Open(indexPath)
	require.NoError(t, err)
	conn := blevesearch.NewConn(idx)
	var docs []search.Document
	for _, m := range []search.Map{
		{"id": "p-1", "name": "lamp", "price": 30},
		{"id": "p-2", "name": "chair", "price": 120},
		{"id": "p-3", "name": "kettle", "price": 45},
	} {
		doc, err := search.ToDocument(m)
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	require.NoError(t, conn.Add(ctx, docs))
	_, err = conn.Commit(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	coresPath := filepath.Join(dir, "search.yaml")
	yaml := fmt.Sprintf("cores:\n  products:\n    driver: bleve\n    path: %q\n", indexPath)
	require.NoError(t, os.WriteFile(coresPath, []byte(yaml), 0o600))
	return coresPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestQueryCommand(t *testing.T) {
	cores := seedCores(t)

	out, err := run(t, "query", "products", "--cores", cores, "--sort", "price DESC", "--rows", "2", "--fl", "id,name")
	require.NoError(t, err)

	var res search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(3), res.NumFound)
	require.Len(t, res.Docs, 2)
	assert.Equal(t, "chair", res.Docs[0]["name"])
	assert.Equal(t, "kettle", res.Docs[1]["name"])
}

func TestOptimizeCommand(t *testing.T) {
	cores := seedCores(t)

	out, err := run(t, "optimize", "products", "--cores", cores)
	require.NoError(t, err)
	assert.Contains(t, out, "optimized products")
}

func TestUnknownCore(t *testing.T) {
	cores := seedCores(t)

	_, err := run(t, "query", "orders", "--cores", cores)
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrConfiguration)
}

func TestMissingCoresFile(t *testing.T) {
	_, err := run(t, "query", "products", "--cores", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	_, err := run(t, "optimize")
	assert.Error(t, err)
}
