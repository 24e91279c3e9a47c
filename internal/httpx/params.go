package httpx

import (
	"errors"
	"net/http"
	"strconv"
)

var errInvalidID = errors.New("id must be a positive integer")

// PathID parses a positive int64 path value.
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(r.PathValue(name))
}

// QueryID parses a positive int64 query parameter.
func QueryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
