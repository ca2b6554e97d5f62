package search

import (
	"slices"
	"strings"
)

// MatchAll is the query string used when the caller supplies none.
const MatchAll = "*:*"

// Sort direction tokens accepted by Order and NewSortField. Comparison is
// case-sensitive: only OrderDesc selects descending.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Direction of a sort key.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortField is one key of a multi-field sort.
type SortField struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// NewSortField maps the direction token to a Direction. Anything other than
// OrderDesc, including an empty token, means ascending.
func NewSortField(field, direction string) SortField {
	if direction == OrderDesc {
		return SortField{Field: field, Direction: Descending}
	}
	return SortField{Field: field, Direction: Ascending}
}

// Asc and Desc are shorthands for building sort keys.
func Asc(field string) SortField  { return SortField{Field: field, Direction: Ascending} }
func Desc(field string) SortField { return SortField{Field: field, Direction: Descending} }

// ParseSort converts order tokens into sort keys, preserving their order.
// A token is either a bare field name ("name") or a field followed by a
// direction token ("type DESC").
func ParseSort(tokens ...string) []SortField {
	out := make([]SortField, 0, len(tokens))
	for _, tok := range tokens {
		parts := strings.Fields(tok)
		switch len(parts) {
		case 0:
			continue
		case 1:
			out = append(out, Asc(parts[0]))
		default:
			out = append(out, NewSortField(parts[0], parts[1]))
		}
	}
	return out
}

// Pagination is the window requested by Limit. The zero value applies no window.
type Pagination struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// Window returns the result window. ok is false when no limiting applies.
// Offset is Limit*(Page-1) for a positive page and zero otherwise.
func (p Pagination) Window() (rows, start int, ok bool) {
	if p.Limit <= 0 {
		return 0, 0, false
	}
	if p.Page > 0 {
		start = p.Limit * (p.Page - 1)
	}
	return p.Limit, start, true
}

// Request is an immutable query ready for submission to a Conn.
type Request struct {
	query  string
	filter string
	fields []string
	rows   int
	start  int
	window bool
	sort   []SortField
}

// BuildRequest assembles a Request. An empty query becomes MatchAll, an empty
// filter adds no filter clause and an empty field list keeps the service's
// default projection.
func BuildRequest(fields []string, query, filter string, page Pagination, sort []SortField) *Request {
	if strings.TrimSpace(query) == "" {
		query = MatchAll
	}
	req := &Request{
		query:  query,
		filter: filter,
		fields: slices.Clone(fields),
		sort:   slices.Clone(sort),
	}
	req.rows, req.start, req.window = page.Window()
	return req
}

// Query returns the main query string.
func (r *Request) Query() string { return r.query }

// Filter returns the filter clause ANDed with the main query, or "".
func (r *Request) Filter() string { return r.filter }

// Fields returns the projection in the requested order. Empty means default.
func (r *Request) Fields() []string { return slices.Clone(r.fields) }

// Window reports the result window; ok is false when the service default applies.
func (r *Request) Window() (rows, start int, ok bool) { return r.rows, r.start, r.window }

// Sort returns the sort keys, primary first.
func (r *Request) Sort() []SortField { return slices.Clone(r.sort) }

// MatchesAll reports whether the main query is the match-all token.
func (r *Request) MatchesAll() bool { return r.query == MatchAll }
