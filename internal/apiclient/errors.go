package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrNetwork         = errors.New("network error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrServer          = errors.New("server error")
	ErrInvalidResponse = errors.New("invalid response")
)

// NetworkError indicates the request never completed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// IsRetryable returns true as the request may succeed when repeated.
func (e *NetworkError) IsRetryable() bool { return true }

// AuthError indicates invalid or expired credentials (401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "unauthorized: " + e.Message
}

// Is reports whether target is ErrUnauthorized.
func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// ForbiddenError indicates the token is valid but lacks permission (403).
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Message
}

// Is reports whether target is ErrForbidden.
func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError indicates the resource does not exist (404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ValidationError indicates a rejected request. StatusCode is 0 when the
// request was rejected before it was sent.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("validation failed: %s (%s)", e.Message, strings.Join(parts, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ServerError indicates an upstream failure (5xx).
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrServer.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// IsRetryable returns true as upstream failures are usually transient.
func (e *ServerError) IsRetryable() bool { return true }

// IsRetryable reports whether err is worth retrying for an idempotent request.
func IsRetryable(err error) bool {
	var r interface{ IsRetryable() bool }
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return false
}

// errorBody covers {"detail": "..."} and {"detail": [{"loc": [...], "msg": ..., "type": ...}]}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type detailItem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// parseError maps a non-2xx response to the error taxonomy.
func parseError(statusCode int, body []byte) error {
	message, fields := parseDetail(body)
	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return &AuthError{Message: message}
	case statusCode == http.StatusForbidden:
		return &ForbiddenError{Message: message}
	case statusCode == http.StatusNotFound:
		return &NotFoundError{Message: message}
	case statusCode >= 500:
		return &ServerError{StatusCode: statusCode, Message: message}
	default:
		return &ValidationError{StatusCode: statusCode, Message: message, Fields: fields}
	}
}

func parseDetail(body []byte) (string, []FieldError) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return strings.TrimSpace(truncate(string(body), 200)), nil
	}

	var msg string
	if err := json.Unmarshal(eb.Detail, &msg); err == nil {
		return msg, nil
	}

	var items []detailItem
	if err := json.Unmarshal(eb.Detail, &items); err != nil {
		return string(eb.Detail), nil
	}

	fields := make([]FieldError, 0, len(items))
	for _, it := range items {
		fields = append(fields, FieldError{Field: locToField(it.Loc), Message: it.Msg, Type: it.Type})
	}
	return "request rejected", fields
}

func locToField(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, p := range loc {
		s := fmt.Sprint(p)
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

// fromValidator converts struct validation failures into a client-side ValidationError.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fe.Tag()})
	}
	return &ValidationError{Message: "invalid request", Fields: fields}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
