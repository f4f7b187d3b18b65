package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInvalidPrompt           = errors.New("invalid prompt")
	ErrModelNotFound           = errors.New("model not found")
	ErrProviderFailure         = errors.New("provider failure")
	ErrInvalidProviderResponse = errors.New("invalid provider response")
)

// Error types of the OpenAI error envelope.
const (
	TypeInvalidRequest = "invalid_request_error"
	TypeNotImplemented = "not_implemented_error"
	TypeServer         = "server_error"
	TypeRateLimit      = "rate_limit_error"
)

// APIError is an error that knows how to render itself as an OpenAI style
// error envelope. Param and Code are nullable on the wire.
type APIError struct {
	Status  int
	Message string
	Type    string
	Param   *string
	Code    *string
	cause   error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.cause }

// ErrorBody is the inner object of the envelope.
type ErrorBody struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// Envelope is the JSON document written for every error response.
type Envelope struct {
	Error ErrorBody `json:"error"`
}

// Envelope converts the error into its wire representation.
func (e *APIError) Envelope() Envelope {
	return Envelope{Error: ErrorBody{Message: e.Message, Type: e.Type, Param: e.Param, Code: e.Code}}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InvalidRequest is a 400 for client input problems. Empty param or code
// render as null.
func InvalidRequest(cause error, message, param, code string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
		Type:    TypeInvalidRequest,
		Param:   nullable(param),
		Code:    nullable(code),
		cause:   cause,
	}
}

func MissingPrompt() *APIError {
	return InvalidRequest(ErrInvalidPrompt, "Missing or invalid 'prompt' parameter", "prompt", "")
}

func ModelNotFound(id string) *APIError {
	return InvalidRequest(ErrModelNotFound, fmt.Sprintf("Model '%s' not found", id), "model", "model_not_found")
}

func RouteNotFound() *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Message: "Not Found",
		Type:    TypeInvalidRequest,
		Code:    nullable("not_found"),
		cause:   ErrNotFound,
	}
}

func MissingAPIKey() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: "You didn't provide an API key.",
		Type:    TypeInvalidRequest,
		cause:   ErrUnauthorized,
	}
}

func InvalidAPIKey() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Message: "Incorrect API key provided.",
		Type:    TypeInvalidRequest,
		Code:    nullable("invalid_api_key"),
		cause:   ErrUnauthorized,
	}
}

func NotImplemented(message string) *APIError {
	return &APIError{
		Status:  http.StatusNotImplemented,
		Message: message,
		Type:    TypeNotImplemented,
		Code:    nullable("not_implemented"),
	}
}

func RateLimited() *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Message: "Rate limit reached for requests",
		Type:    TypeRateLimit,
		Code:    nullable("rate_limit_exceeded"),
	}
}

// ServiceFailure maps any provider side failure of a batch to a single 500.
func ServiceFailure(err error) *APIError {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: "Image generation failed: " + msg,
		Type:    TypeServer,
		Code:    nullable("ai_service_error"),
		cause:   err,
	}
}

// Internal is the catch-all for panics and unexpected failures.
func Internal(detail string) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error: " + detail,
		Type:    TypeServer,
		Code:    nullable("internal_error"),
	}
}

// AsAPIError unwraps err into an *APIError, falling back to Internal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if err == nil {
		return Internal("unknown error")
	}
	return Internal(err.Error())
}
