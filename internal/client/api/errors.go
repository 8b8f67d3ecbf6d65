package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for the transport layer. Callers match them with errors.Is.
var (
	// ErrUnauthorized is returned for a 401 that could not be recovered by
	// a token refresh (or when no refresh was possible).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is returned when the token renewal itself failed.
	// The credential store has already been cleared by the time a caller
	// sees this error.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnavailable is returned when no response was received at all.
	ErrUnavailable = errors.New("server unavailable")

	// ErrTimeout is returned when a request exceeded the fixed deadline.
	ErrTimeout = errors.New("request timed out")
)

// Error is a structured failure response from the backend. Message carries
// the server's explicit message (or detail), Fields carries per-field
// validation messages keyed by field name.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
	err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

func (e *Error) Unwrap() error { return e.err }

// FirstFieldError returns the first field-level message, checking the given
// field names in order before falling back to the remaining fields in
// alphabetical order. Returns "" when there are no field errors.
func (e *Error) FirstFieldError(preferred ...string) string {
	for _, name := range preferred {
		if msgs := e.Fields[name]; len(msgs) > 0 {
			return msgs[0]
		}
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if msgs := e.Fields[name]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// parseErrorBody turns a non-2xx response body into an *Error. The backend
// reports failures either as {"message": ...} / {"detail": ...} or as a map
// of field name to a list of messages.
func parseErrorBody(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	if status == 401 {
		apiErr.err = ErrUnauthorized
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return apiErr
	}

	for key, value := range data {
		switch key {
		case "message", "detail", "error":
			if s, ok := value.(string); ok && apiErr.Message == "" {
				apiErr.Message = s
			}
		default:
			list, ok := value.([]any)
			if !ok {
				continue
			}
			var msgs []string
			for _, item := range list {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[key] = msgs
			}
		}
	}

	// "message" wins over "detail" when both are present
	if s, ok := data["message"].(string); ok && s != "" {
		apiErr.Message = s
	}

	return apiErr
}

// ErrorMessage extracts the most specific user-facing message from err.
// Preference order: the server's explicit message, then the first field
// error (preferred fields checked first), then the transport error text for
// timeouts and network failures, then fallback.
func ErrorMessage(err error, fallback string, preferredFields ...string) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if msg := apiErr.FirstFieldError(preferredFields...); msg != "" {
			return msg
		}
	}

	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrSessionExpired) {
		return err.Error()
	}

	return fallback
}

// FieldErrors returns the per-field messages carried by err, or nil when err
// has none. Callers use it to render validation problems next to inputs.
func FieldErrors(err error) map[string][]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
