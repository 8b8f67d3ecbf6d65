package api

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry peeks at the stored access token's exp claim without
// verifying the signature. The value is diagnostic only: tokens stay opaque
// for every authorization decision, and the real expiry check is the
// server's 401.
func (c *HTTPClient) AccessTokenExpiry(ctx context.Context) (time.Time, error) {
	creds, err := c.creds.Get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if creds.AccessToken == "" {
		return time.Time{}, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(creds.AccessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
