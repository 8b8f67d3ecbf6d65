package api

import "github.com/dmitrijs2005/authkeeper/internal/client/models"

// Request and response bodies for the auth endpoints. Field names follow the
// backend's JSON contract.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordRequest struct {
	UID                string `json:"uid"`
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// AuthResponse is returned by both login and registration.
type AuthResponse struct {
	User   models.UserProfile `json:"user"`
	Tokens models.TokenPair   `json:"tokens"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshResponse may omit the refresh token; the old one stays valid then.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
