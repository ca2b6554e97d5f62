package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

func TestPagination_Window(t *testing.T) {
	tests := []struct {
		name      string
		page      search.Pagination
		wantRows  int
		wantStart int
		wantOK    bool
	}{
		{"unset", search.Pagination{}, 0, 0, false},
		{"zero limit ignores page", search.Pagination{Limit: 0, Page: 3}, 0, 0, false},
		{"negative limit", search.Pagination{Limit: -5, Page: 1}, 0, 0, false},
		{"first page", search.Pagination{Limit: 10, Page: 1}, 10, 0, true},
		{"third page", search.Pagination{Limit: 10, Page: 3}, 10, 20, true},
		{"page unset", search.Pagination{Limit: 25}, 25, 0, true},
		{"negative page", search.Pagination{Limit: 25, Page: -2}, 25, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, start, ok := tt.page.Window()
			assert.Equal(t, tt.wantRows, rows)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseSort(t *testing.T) {
	t.Run("explicit directions keep order", func(t *testing.T) {
		got := search.ParseSort("name ASC", "type DESC")
		assert.Equal(t, []search.SortField{
			{Field: "name", Direction: search.Ascending},
			{Field: "type", Direction: search.Descending},
		}, got)
	})

	t.Run("bare names are ascending", func(t *testing.T) {
		got := search.ParseSort("name", "type")
		assert.Equal(t, []search.SortField{search.Asc("name"), search.Asc("type")}, got)
	})

	t.Run("direction token is case sensitive", func(t *testing.T) {
		got := search.ParseSort("name desc", "type Desc", "size DESC", "  ")
		assert.Equal(t, []search.SortField{search.Asc("name"), search.Asc("type"), search.Desc("size")}, got)
	})
}

func TestBuildRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := search.BuildRequest(nil, "", "", search.Pagination{}, nil)

		assert.Equal(t, search.MatchAll, req.Query())
		assert.True(t, req.MatchesAll())
		assert.Empty(t, req.Filter())
		assert.Empty(t, req.Fields())
		assert.Empty(t, req.Sort())
		_, _, ok := req.Window()
		assert.False(t, ok)
	})

	t.Run("all parts", func(t *testing.T) {
		fields := []string{"id", "name", "price"}
		sort := []search.SortField{search.Desc("price"), search.Asc("name")}
		req := search.BuildRequest(fields, "name:lamp", "in_stock:true", search.Pagination{Limit: 5, Page: 4}, sort)

		assert.Equal(t, "name:lamp", req.Query())
		assert.Equal(t, "in_stock:true", req.Filter())
		assert.Equal(t, []string{"id", "name", "price"}, req.Fields())
		assert.Equal(t, sort, req.Sort())
		rows, start, ok := req.Window()
		assert.True(t, ok)
		assert.Equal(t, 5, rows)
		assert.Equal(t, 15, start)
	})

	t.Run("request is isolated from its inputs", func(t *testing.T) {
		fields := []string{"id"}
		sort := []search.SortField{search.Asc("id")}
		req := search.BuildRequest(fields, "*:*", "", search.Pagination{}, sort)

		fields[0] = "changed"
		sort[0] = search.Desc("changed")
		req.Fields()[0] = "changed too"

		assert.Equal(t, []string{"id"}, req.Fields())
		assert.Equal(t, []search.SortField{search.Asc("id")}, req.Sort())
	})
}
