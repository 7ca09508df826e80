package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultMaxBody bounds ordinary request bodies.
const DefaultMaxBody = 1 << 20

// ParseJSON decodes the request body into dest, limited to DefaultMaxBody.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	return ParseJSONLimit(w, r, dest, DefaultMaxBody)
}

// ParseJSONLimit decodes the request body into dest, limited to maxBytes.
// A body over the limit fails with *http.MaxBytesError.
func ParseJSONLimit(w http.ResponseWriter, r *http.Request, dest interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
