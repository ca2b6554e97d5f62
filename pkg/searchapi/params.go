package searchapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/searchkit/pkg/search"
)

// selectParams reads q, fq, fl, rows, page and sort from a select query string.
//
//	?q=name:lamp&fq=category:home&fl=id,name&rows=20&page=2&sort=price+desc,name+asc
//
// Sort directions are case-insensitive here; each sort item is "field" or
// "field dir".
func selectParams(values url.Values) (*search.Request, error) {
	rows, err := intParam(values, "rows")
	if err != nil {
		return nil, err
	}
	page, err := intParam(values, "page")
	if err != nil {
		return nil, err
	}

	var sort []string
	for _, item := range splitList(values.Get("sort")) {
		parts := strings.Fields(item)
		switch len(parts) {
		case 1:
			sort = append(sort, parts[0])
		case 2:
			sort = append(sort, parts[0]+" "+strings.ToUpper(parts[1]))
		default:
			return nil, badRequest("invalid sort item " + strconv.Quote(item))
		}
	}

	return search.BuildRequest(
		splitList(values.Get("fl")),
		values.Get("q"),
		values.Get("fq"),
		search.Pagination{Limit: rows, Page: page},
		search.ParseSort(sort...),
	), nil
}

func intParam(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest(name + " must be a non-negative integer")
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
