package apiserver

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// pathID parses the numeric {id} path value.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// listParams extracts pagination and brief-mode parameters from a collection
// request.
func listParams(r *http.Request) (limit, offset int, brief bool) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}
	brief = r.URL.Query().Get("brief") == "true" || r.URL.Query().Get("brief") == "1"
	return limit, offset, brief
}

// paginate returns the page of items selected by limit and offset.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
