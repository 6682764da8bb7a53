// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides JSON response and request helpers for the
// HTTP host.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxJSONBody caps request bodies decoded by DecodeJSON.
const maxJSONBody = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as {"error": "..."} with the given status.
func WriteError(w http.ResponseWriter, status int, err error) error {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return WriteJSON(w, status, ErrorBody{Error: msg})
}

// DecodeJSON reads a single JSON value from r into v. Unknown fields and
// trailing data are rejected.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("decoding request: %w", err)
	}
	if dec.More() {
		return errors.New("decoding request: unexpected data after JSON value")
	}
	return nil
}
