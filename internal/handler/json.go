// Package handler exposes the checkout flow as a JSON API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rbenali/kahina/internal/domain"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON reads the request body into v, rejecting unknown fields and
// oversized bodies.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.WrapError(err, domain.EINVALID, "handler.decode", "Request body is not valid JSON")
	}
	return nil
}
