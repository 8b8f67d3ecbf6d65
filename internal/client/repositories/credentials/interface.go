package credentials

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

// Repository persists the session credentials: access token, refresh token
// and the cached user profile, each under its own key so they can be read,
// replaced and cleared together.
type Repository interface {
	// Get returns the currently stored credentials. Missing keys come back
	// as zero values, never as an error.
	Get(ctx context.Context) (models.Credentials, error)

	// SetTokens stores both tokens in a single transaction.
	SetTokens(ctx context.Context, access, refresh string) error

	// SetSession stores the tokens and the user profile together, in a
	// single transaction. Used on login and registration.
	SetSession(ctx context.Context, access, refresh string, user models.UserProfile) error

	// SetUser stores the cached user profile.
	SetUser(ctx context.Context, user models.UserProfile) error

	// Clear removes tokens and the cached user together. A partial clear is
	// a defect: after Clear, Get must return a zero Credentials value.
	Clear(ctx context.Context) error
}
