package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRows is returned by Single when the query matched nothing.
	ErrNoRows = errors.New("supabase: no rows in result")
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("supabase: circuit breaker is open")
)

const (
	codeUniqueViolation = "23505"
	codeNoRows          = "PGRST116"
)

// APIError is a structured error answered by the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsConflict reports a unique violation or a 409 answer.
func (e *APIError) IsConflict() bool {
	return e.Status == http.StatusConflict || e.Code == codeUniqueViolation
}

// TransportError wraps failures where no structured answer was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsConflict reports whether err is a conflict answered by the backend.
func IsConflict(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsConflict()
}

// IsNotFound reports a 404 answer or ErrNoRows.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoRows) {
		return true
	}
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == http.StatusNotFound || apiErr.Code == codeNoRows)
}

// IsTransport reports whether err happened before a structured answer arrived.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te) || errors.Is(err, ErrCircuitOpen)
}

// parseAPIError understands both PostgREST and auth error bodies.
func parseAPIError(status int, body []byte) *APIError {
	var raw struct {
		Code             json.RawMessage `json:"code"`
		Message          string          `json:"message"`
		Details          string          `json:"details"`
		Hint             string          `json:"hint"`
		Msg              string          `json:"msg"`
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &raw); err == nil {
		apiErr.Details = raw.Details
		apiErr.Hint = raw.Hint
		var code string
		if json.Unmarshal(raw.Code, &code) == nil {
			apiErr.Code = code
		}
		switch {
		case raw.Message != "":
			apiErr.Message = raw.Message
		case raw.Msg != "":
			apiErr.Message = raw.Msg
		case raw.ErrorDescription != "":
			apiErr.Message = raw.ErrorDescription
		case raw.Error != "":
			apiErr.Message = raw.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
