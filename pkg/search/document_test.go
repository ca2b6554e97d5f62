package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

type Base struct {
	ID string `search:"id"`
}

type product struct {
	Base
	Name    string
	Tags    []string `search:"tags"`
	Sizes   [2]int
	Blob    []byte
	Secret  string `search:"-"`
	private string
}

type audit struct {
	Owner string
	note  string
}

type stamp struct{ Version int }

type record struct {
	audit
	*stamp
	ID    string
	Title string
}

type custom struct{ name string }

func (c *custom) FieldEntries() []search.FieldEntry {
	return []search.FieldEntry{{Name: "name", Value: c.name}, {Name: "alias", Value: []string{"a", "b"}}}
}

func TestToDocument(t *testing.T) {
	t.Run("struct fields in declaration order", func(t *testing.T) {
		p := product{
			Base:    Base{ID: "p-1"},
			Name:    "lamp",
			Tags:    []string{"x", "y"},
			Sizes:   [2]int{3, 4},
			Blob:    []byte("raw"),
			Secret:  "hidden",
			private: "ignored",
		}

		doc, err := search.ToDocument(&p)
		require.NoError(t, err)

		assert.Equal(t, []search.Field{
			{Name: "id", Value: "p-1"},
			{Name: "Name", Value: "lamp"},
			{Name: "tags", Value: "x"},
			{Name: "tags", Value: "y"},
			{Name: "Sizes", Value: 3},
			{Name: "Sizes", Value: 4},
			{Name: "Blob", Value: []byte("raw")},
		}, doc.Fields())

		id, ok := doc.ID()
		assert.True(t, ok)
		assert.Equal(t, "p-1", id)
	})

	t.Run("untagged ID field is the key", func(t *testing.T) {
		doc, err := search.ToDocument(struct{ ID, Name string }{ID: "p-1", Name: "lamp"})
		require.NoError(t, err)

		id, ok := doc.ID()
		assert.True(t, ok)
		assert.Equal(t, "p-1", id)
	})

	t.Run("unexported embedded structs are inlined", func(t *testing.T) {
		doc, err := search.ToDocument(record{
			audit: audit{Owner: "ops", note: "skip"},
			stamp: &stamp{Version: 2},
			ID:    "r-1",
			Title: "t",
		})
		require.NoError(t, err)
		assert.Equal(t, []search.Field{
			{Name: "Owner", Value: "ops"},
			{Name: "Version", Value: 2},
			{Name: "ID", Value: "r-1"},
			{Name: "Title", Value: "t"},
		}, doc.Fields())
	})

	t.Run("nil embedded pointer is skipped", func(t *testing.T) {
		doc, err := search.ToDocument(record{ID: "r-2"})
		require.NoError(t, err)
		assert.Equal(t, []search.Field{
			{Name: "Owner", Value: ""},
			{Name: "ID", Value: "r-2"},
			{Name: "Title", Value: ""},
		}, doc.Fields())
	})

	t.Run("sequence expands into repeated entries", func(t *testing.T) {
		doc, err := search.ToDocument(struct{ Tags []string }{Tags: []string{"x", "y"}})
		require.NoError(t, err)
		assert.Equal(t, []any{"x", "y"}, doc.Values("Tags"))
		assert.Equal(t, 2, doc.Len())
	})

	t.Run("empty sequence emits nothing", func(t *testing.T) {
		doc, err := search.ToDocument(struct{ Tags []string }{})
		require.NoError(t, err)
		assert.Zero(t, doc.Len())
	})

	t.Run("indexable", func(t *testing.T) {
		doc, err := search.ToDocument(&custom{name: "n"})
		require.NoError(t, err)
		assert.Equal(t, []search.Field{
			{Name: "name", Value: "n"},
			{Name: "alias", Value: "a"},
			{Name: "alias", Value: "b"},
		}, doc.Fields())
	})

	t.Run("map in key order", func(t *testing.T) {
		doc, err := search.ToDocument(search.Map{"z": 1, "a": []any{"p", "q"}, "id": "m-1"})
		require.NoError(t, err)
		assert.Equal(t, []search.Field{
			{Name: "a", Value: "p"},
			{Name: "a", Value: "q"},
			{Name: "id", Value: "m-1"},
			{Name: "z", Value: 1},
		}, doc.Fields())
		assert.Equal(t, map[string]any{"a": []any{"p", "q"}, "id": "m-1", "z": 1}, doc.Map())
	})

	t.Run("rejects non structured values", func(t *testing.T) {
		var nilProduct *product
		var nilCustom *custom
		for _, v := range []any{nil, "not-an-object", 42, []string{"a"}, map[string]any{"a": 1}, nilProduct, nilCustom} {
			_, err := search.ToDocument(v)
			assert.ErrorIs(t, err, search.ErrInvalidDocument, "%#v", v)
			assert.False(t, search.IsDocument(v))
		}
		assert.True(t, search.IsDocument(product{}))
		assert.True(t, search.IsDocument(&custom{}))
	})
}
