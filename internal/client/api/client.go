package api

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

// Client is the transport-agnostic contract for the auth backend. The
// concrete implementation (HTTPClient) attaches bearer tokens and performs
// transparent token renewal; callers only see the final outcome.
type Client interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch models.UserProfile) (models.UserProfile, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	Health(ctx context.Context) error
	Close() error
}
