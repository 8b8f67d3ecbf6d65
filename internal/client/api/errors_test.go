package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorBody_MessagePreferredOverDetail(t *testing.T) {
	e := parseErrorBody(400, []byte(`{"message":"explicit","detail":"secondary"}`))
	assert.Equal(t, "explicit", e.Message)
}

func TestParseErrorBody_DetailFallback(t *testing.T) {
	e := parseErrorBody(400, []byte(`{"detail":"token is invalid"}`))
	assert.Equal(t, "token is invalid", e.Message)
}

func TestParseErrorBody_FieldErrors(t *testing.T) {
	e := parseErrorBody(400, []byte(`{"email":["already exists"],"password":["too short","too common"]}`))
	assert.Empty(t, e.Message)
	assert.Equal(t, []string{"already exists"}, e.Fields["email"])
	assert.Equal(t, []string{"too short", "too common"}, e.Fields["password"])
}

func TestParseErrorBody_UnauthorizedWrapsSentinel(t *testing.T) {
	e := parseErrorBody(401, []byte(`{"detail":"no"}`))
	assert.ErrorIs(t, e, ErrUnauthorized)
}

func TestParseErrorBody_GarbageBody(t *testing.T) {
	e := parseErrorBody(500, []byte(`<html>oops</html>`))
	assert.Equal(t, 500, e.Status)
	assert.Empty(t, e.Message)
	assert.Nil(t, e.Fields)
}

func TestFirstFieldError_PreferredOrder(t *testing.T) {
	e := &Error{Fields: map[string][]string{
		"username": {"taken"},
		"email":    {"invalid"},
	}}

	assert.Equal(t, "invalid", e.FirstFieldError("email", "username"))
	assert.Equal(t, "taken", e.FirstFieldError("username", "email"))
	// no preferred match falls back to alphabetical order
	assert.Equal(t, "invalid", e.FirstFieldError("password"))
	assert.Equal(t, "invalid", e.FirstFieldError())
}

func TestErrorMessage_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server message wins",
			err:  &Error{Status: 400, Message: "Invalid email or password.", Fields: map[string][]string{"email": {"bad"}}},
			want: "Invalid email or password.",
		},
		{
			name: "field error when no message",
			err:  &Error{Status: 400, Fields: map[string][]string{"email": {"already exists"}}},
			want: "already exists",
		},
		{
			name: "transport error text",
			err:  fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable),
			want: "server unavailable: dial tcp: connection refused",
		},
		{
			name: "generic fallback",
			err:  &Error{Status: 500},
			want: "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, "Login failed", "email", "username"))
		})
	}
}

func TestErrorMessage_NilError(t *testing.T) {
	assert.Empty(t, ErrorMessage(nil, "fallback"))
}

func TestFieldErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Fields: map[string][]string{"email": {"bad"}}})
	assert.Equal(t, map[string][]string{"email": {"bad"}}, FieldErrors(err))
	assert.Nil(t, FieldErrors(fmt.Errorf("plain")))
}
