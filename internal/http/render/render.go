// Package render writes JSON bodies and OpenAI style error envelopes.
package render

import (
	"encoding/json"
	"net/http"

	"imagegw/internal/domain"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error envelope. Errors that are not *domain.APIError
// become a 500 internal_error.
func Error(w http.ResponseWriter, err error) {
	apiErr := domain.AsAPIError(err)
	JSON(w, apiErr.Status, apiErr.Envelope())
}
