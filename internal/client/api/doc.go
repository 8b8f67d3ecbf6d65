// Package api contains the HTTP transport for the auth backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/Login/Logout, profile reads and updates, password management,
//     and a liveness probe.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     stored access token to every request, transparently renews an expired
//     token exactly once per request, replays the original request with the
//     new token, and coalesces concurrent renewals into a single in-flight
//     refresh call.
//  3. A structured error model: sentinel errors for transport conditions and
//     *Error for backend rejections, carrying the server message and
//     per-field validation messages.
//
// # Token lifecycle
//
// A 401 on any endpoint except the refresh endpoint triggers one renewal
// using the stored refresh token; the renewal call bypasses the
// authenticated pipeline so it can never trigger itself. If the renewal
// fails, the credential store is cleared, the session-expired callback
// fires, and the caller receives ErrSessionExpired.
//
// # Error Handling
//
// Match sentinel errors with errors.Is: ErrUnauthorized, ErrSessionExpired,
// ErrUnavailable, ErrTimeout. Use errors.As with *Error (or the
// ErrorMessage/FieldErrors helpers) to extract user-facing messages.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; every request is additionally
// bounded by a fixed timeout.
package api
