// Package httpapi provides the JSON request/response helpers shared by all
// API handlers: a response writer, a strict request decoder, and the error
// envelope.
//
// Every error response carries a machine-readable code so clients can tell
// a lost claim race (conflict) apart from bad input (validation_error):
//
//	{ "error": { "code": "conflict", "message": "donation already claimed" } }
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Error codes returned in the error envelope.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeValidation      = "validation_error"
	CodeConflict        = "conflict"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal_error"
)

// maxBodyBytes bounds JSON request bodies. The largest legitimate payload
// is a donation listing, well under this.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads the request body into dst, rejecting unknown fields and
// oversized or trailing input. Callers translate a non-nil error into a
// validation response.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document after the first is malformed input.
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// WriteError writes the error envelope with the given status, code, and message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	Respond(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// Unauthorized writes a 401 unauthenticated error.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthenticated, "sign in required")
}

// Forbidden writes a 403 forbidden error.
func Forbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, CodeForbidden, "you do not have permission to perform this action")
}

// NotFound writes a 404 not_found error.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Conflict writes a conflict error. Claim races surface here with a 400
// status, matching the platform's API contract.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeConflict, message)
}

// Validation writes a 400 validation_error with optional per-field details.
func Validation(w http.ResponseWriter, message string, fields map[string]string) {
	Respond(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}})
}

// Internal logs err and writes a generic 500. The error detail stays out
// of the response body.
func Internal(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	if logger != nil {
		logger.Error(msg, zap.Error(err))
	}
	WriteError(w, http.StatusInternalServerError, CodeInternal, "something went wrong")
}
