// Package apperrors defines the error envelope returned by the API and the
// small taxonomy the handlers work with: invalid arguments fail fast,
// upstream model failures fail the whole job, extraction errors surface as
// client errors.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	TypeInvalidArgument = "invalid_argument"
	TypeUnauthorized    = "unauthorized"
	TypeNotFound        = "not_found"
	TypeExtraction      = "extraction_error"
	TypeUpstream        = "upstream_error"
	TypeServer          = "server_error"
)

// APIError is the error unit used across handlers and serialized to clients.
type APIError struct {
	HTTPStatus int            `json:"-"`
	Type       string         `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// New constructs an APIError with the given status, type/code and message.
func New(status int, typ, code, message string) *APIError {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	if typ == "" {
		typ = TypeServer
	}
	if code == "" {
		code = typ
	}
	return &APIError{HTTPStatus: status, Type: typ, Code: code, Message: message}
}

// InvalidArgument reports a caller mistake (400).
func InvalidArgument(message string) *APIError {
	return New(http.StatusBadRequest, TypeInvalidArgument, TypeInvalidArgument, message)
}

// Unauthorized reports a missing or wrong credential (401).
func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, TypeUnauthorized, TypeUnauthorized, message)
}

// NotFound reports a missing resource (404).
func NotFound(message string) *APIError {
	return New(http.StatusNotFound, TypeNotFound, TypeNotFound, message)
}

// Extraction reports a failed text extraction from an upload (422).
func Extraction(message string, cause error) *APIError {
	e := New(http.StatusUnprocessableEntity, TypeExtraction, TypeExtraction, message)
	if cause != nil {
		e.Details = map[string]any{"cause": cause.Error()}
	}
	return e
}

// Upstream wraps a failed model call. The upstream payload, when present, is
// attached decoded so callers can see the provider's own error body.
func Upstream(status int, message string, payload []byte) *APIError {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	e := New(status, TypeUpstream, TypeUpstream, message)
	if len(payload) > 0 {
		e.Details = map[string]any{}
		var decoded any
		if json.Unmarshal(payload, &decoded) == nil {
			e.Details["upstream"] = decoded
		} else {
			e.Details["upstream_raw"] = string(payload)
		}
	}
	return e
}

// Internal reports an unexpected server-side failure (500).
func Internal(message string) *APIError {
	return New(http.StatusInternalServerError, TypeServer, TypeServer, message)
}

// From coerces any error into an APIError, wrapping unknown errors as
// internal so no raw error string structure leaks into the envelope shape.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	return Internal(err.Error())
}
