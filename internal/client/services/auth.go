// Package services contains the application services of the authkeeper
// client. This file defines the authentication service: the public verbs
// that call the API, persist credentials, and publish the outcome into the
// session store.
package services

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/authkeeper/internal/client/session"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Fallback messages used when the server supplies nothing more specific.
const (
	msgLoginFailed          = "Login failed"
	msgRegistrationFailed   = "Registration failed"
	msgProfileUpdateFailed  = "Profile update failed"
	msgPasswordChangeFailed = "Password change failed"
)

// AuthService defines the authentication operations of the client.
//
// Contract:
//   - Load: restore the persisted session on startup, without any network call.
//   - Login/Register: authenticate, persist credentials, publish the result.
//   - Logout: best-effort server-side invalidation, then always clear locally.
//   - RefreshProfile/UpdateProfile: read or patch the profile and keep the
//     cached user in sync.
//   - ChangePassword/ForgotPassword/ResetPassword: pipeline-only calls that
//     never mutate session state.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// Operations never panic on a rejected call: failures come back as errors
// that carry the server's message and field details (see api.ErrorMessage
// and api.FieldErrors).
type AuthService interface {
	Load(ctx context.Context) error
	Login(ctx context.Context, email, password string) (models.UserProfile, error)
	Register(ctx context.Context, req api.RegisterRequest) (models.UserProfile, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch models.UserProfile) (models.UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by the remote API client,
// the durable credential store, and the session store.
type authService struct {
	client api.Client
	creds  credentials.Repository
	store  *session.Store
	log    logging.Logger
}

// NewAuthService constructs an AuthService. A nil logger disables logging.
func NewAuthService(client api.Client, creds credentials.Repository, store *session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &authService{client: client, creds: creds, store: store, log: log}
}

// Load restores the persisted session. When both a cached user and an access
// token exist, the user is trusted optimistically; a stale token is only
// found out by the first real request's 401. Otherwise the session finishes
// loading unauthenticated. No network call is made either way.
func (a *authService) Load(ctx context.Context) error {
	creds, err := a.creds.Get(ctx)
	if err != nil {
		a.store.Dispatch(session.Action{Type: session.LoadUser})
		return err
	}

	if creds.AccessToken != "" && creds.User != nil {
		a.store.Dispatch(session.Action{Type: session.LoadUser, User: creds.User})
	} else {
		a.store.Dispatch(session.Action{Type: session.LoadUser})
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) (models.UserProfile, error) {
	epoch := a.store.Epoch()
	a.store.Dispatch(session.Action{Type: session.LoginStart})

	resp, err := a.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		msg := api.ErrorMessage(err, msgLoginFailed)
		a.store.DispatchIf(epoch, session.Action{Type: session.LoginFailure, Error: msg})
		return nil, err
	}

	if a.store.Epoch() != epoch {
		// a logout raced this login; discard the late result
		a.log.Warn(ctx, "login result discarded, session superseded")
		return resp.User, nil
	}

	if err := a.creds.SetSession(ctx, resp.Tokens.Access, resp.Tokens.Refresh, resp.User); err != nil {
		a.store.DispatchIf(epoch, session.Action{Type: session.LoginFailure, Error: msgLoginFailed})
		return nil, err
	}

	a.store.DispatchIf(epoch, session.Action{Type: session.LoginSuccess, User: resp.User})
	return resp.User, nil
}

func (a *authService) Register(ctx context.Context, req api.RegisterRequest) (models.UserProfile, error) {
	epoch := a.store.Epoch()
	a.store.Dispatch(session.Action{Type: session.RegisterStart})

	resp, err := a.client.Register(ctx, req)
	if err != nil {
		msg := api.ErrorMessage(err, msgRegistrationFailed, "email", "username")
		a.store.DispatchIf(epoch, session.Action{Type: session.RegisterFailure, Error: msg})
		return nil, err
	}

	if a.store.Epoch() != epoch {
		a.log.Warn(ctx, "registration result discarded, session superseded")
		return resp.User, nil
	}

	if err := a.creds.SetSession(ctx, resp.Tokens.Access, resp.Tokens.Refresh, resp.User); err != nil {
		a.store.DispatchIf(epoch, session.Action{Type: session.RegisterFailure, Error: msgRegistrationFailed})
		return nil, err
	}

	a.store.DispatchIf(epoch, session.Action{Type: session.RegisterSuccess, User: resp.User})
	return resp.User, nil
}

// Logout invalidates the refresh token server-side when it can, but local
// credentials are cleared and the logout transition published regardless of
// that call's outcome.
func (a *authService) Logout(ctx context.Context) error {
	creds, err := a.creds.Get(ctx)
	if err == nil && creds.RefreshToken != "" {
		if err := a.client.Logout(ctx, creds.RefreshToken); err != nil {
			a.log.Warn(ctx, "server-side logout failed", "error", err)
		}
	}

	clearErr := a.creds.Clear(ctx)
	a.store.Dispatch(session.Action{Type: session.Logout})
	return clearErr
}

func (a *authService) RefreshProfile(ctx context.Context) (models.UserProfile, error) {
	epoch := a.store.Epoch()

	user, err := a.client.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if a.store.Epoch() != epoch {
		return user, nil
	}

	if err := a.creds.SetUser(ctx, user); err != nil {
		return nil, err
	}

	a.store.DispatchIf(epoch, session.Action{Type: session.LoadUser, User: user})
	return user, nil
}

// UpdateProfile patches the profile on the server and merges the returned
// object into the session. Failures leave both stores untouched.
func (a *authService) UpdateProfile(ctx context.Context, patch models.UserProfile) (models.UserProfile, error) {
	epoch := a.store.Epoch()

	updated, err := a.client.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}

	if a.store.Epoch() != epoch {
		return updated, nil
	}

	if err := a.creds.SetUser(ctx, updated); err != nil {
		return nil, err
	}

	a.store.DispatchIf(epoch, session.Action{Type: session.UpdateUser, User: updated})
	return updated, nil
}

// ChangePassword does not touch session state on success: the tokens stay
// valid and no re-authentication is implied.
func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return a.client.ChangePassword(ctx, api.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	return a.client.ResetPassword(ctx, req)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
