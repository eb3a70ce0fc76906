// Package respond provides shared JSON response utilities for API handlers.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-live/internal/validate"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details validate.Issues `json:"details,omitempty"`
}

// DataResponse wraps a single record or a commentary list.
type DataResponse struct {
	Data any `json:"data"`
}

// EventsResponse wraps the match list.
type EventsResponse struct {
	Events any `json:"events"`
}

// Data writes {"data": v}.
func Data(w http.ResponseWriter, status int, v any) {
	WriteJSONObject(w, status, DataResponse{Data: v})
}

// Events writes {"events": v}.
func Events(w http.ResponseWriter, v any) {
	WriteJSONObject(w, http.StatusOK, EventsResponse{Events: v})
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	writeError(w, status, ErrorResponse{Error: message})
}

// Invalid sends a 400 with the validation issues as details.
func Invalid(w http.ResponseWriter, message string, issues validate.Issues) {
	writeError(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: issues})
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Marshal encodes v the way Data would, for callers that cache the bytes.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(DataResponse{Data: v})
}

// WriteJSON writes raw JSON bytes to the response with cache and ETag headers.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Live data is only briefly cacheable by clients; the server-side copy is
// invalidated on every write.
func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, must-revalidate", int(ttl.Seconds())))
}
