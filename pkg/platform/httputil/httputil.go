// Package httputil holds the JSON request/response helpers shared by handlers.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "lendmatch/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; policy drafts are the largest payload.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request DTOs that check their own shape.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request DTOs that trim or canonicalize
// input before validation.
type Normalizable interface {
	Normalize()
}

type errorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Details          []string `json:"details,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and JSON body.
// Internal errors never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}

	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		resp.ErrorDescription = de.Message
		resp.Details = de.Details
	}
	WriteJSON(w, StatusFor(code), resp)
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput,
		dErrors.CodeUnknownField, dErrors.CodeTypeMismatch, dErrors.CodeInvalidProgramWindow:
		return http.StatusBadRequest
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeStaleVersion:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into a T, rejecting unknown fields.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	return decode[T](io.LimitReader(r.Body, maxBodyBytes))
}

// ReadBody reads the bounded request body for handlers that inspect the raw
// payload before decoding it with DecodeBytes.
func ReadBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return body, nil
}

// DecodeBytes decodes an already-read body into a T, rejecting unknown fields.
func DecodeBytes[T any](body []byte) (*T, error) {
	return decode[T](bytes.NewReader(body))
}

func decode[T any](r io.Reader) (*T, error) {
	var req T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	return &req, nil
}

// DecodeAndPrepare decodes, normalizes and validates a request body. On
// failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, err := DecodeJSON[T](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}

	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}
