package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Whoami prints the locally cached session snapshot.
func (a *App) Whoami(ctx context.Context) error {
	st := a.store.State()
	if !st.IsAuthenticated {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Email:    %s\n", st.User.Email())
	fmt.Printf("Username: %s\n", st.User.Username())
	if role := st.User.Role(); role != "" {
		fmt.Printf("Role:     %s\n", role)
	}
	fmt.Printf("Verified: %v\n", st.IsVerified())
	return nil
}

// Profile fetches the profile from the server and refreshes the cache.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.authService.RefreshProfile(ctx)
	if err != nil {
		fmt.Println(api.ErrorMessage(err, "Could not load profile"))
		return err
	}
	fmt.Printf("Profile refreshed for %s\n", user.Email())
	return a.Whoami(ctx)
}

// UpdateProfile prompts for the editable fields; empty input leaves a field
// unchanged.
func (a *App) UpdateProfile(ctx context.Context) error {
	patch := models.UserProfile{}

	for _, f := range []struct{ key, prompt string }{
		{"first_name", "First name (empty to keep)"},
		{"last_name", "Last name (empty to keep)"},
		{"phone", "Phone (empty to keep)"},
		{"bio", "Bio (empty to keep)"},
	} {
		value, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			patch[f.key] = value
		}
	}

	if len(patch) == 0 {
		fmt.Println("Nothing to update")
		return nil
	}

	if _, err := a.authService.UpdateProfile(ctx, patch); err != nil {
		fmt.Println(api.ErrorMessage(err, "Profile update failed"))
		printFieldErrors(err)
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

// ChangePassword prompts for the old and new password. The session stays
// authenticated on success.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword(os.Stdout, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(os.Stdout, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.authService.ChangePassword(ctx, string(oldPassword), string(newPassword)); err != nil {
		fmt.Println(api.ErrorMessage(err, "Password change failed", "old_password", "new_password"))
		printFieldErrors(err)
		return err
	}

	fmt.Println("Password changed")
	return nil
}

// ForgotPassword requests a reset email. The server answers generically
// whether or not the address exists.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		fmt.Println(api.ErrorMessage(err, "Request failed"))
		return err
	}

	fmt.Println("If the address exists, a reset link has been sent")
	return nil
}

// ResetPassword completes a password reset with the uid/token pair from the
// reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	req := api.ResetPasswordRequest{}

	var err error
	if req.UID, err = getSimpleText(a.reader, "Enter uid", os.Stdout); err != nil {
		return err
	}
	if req.Token, err = getSimpleText(a.reader, "Enter token", os.Stdout); err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(os.Stdout, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	req.NewPassword = string(password)
	req.NewPasswordConfirm = string(confirm)

	if err := a.authService.ResetPassword(ctx, req); err != nil {
		fmt.Println(api.ErrorMessage(err, "Password reset failed"))
		printFieldErrors(err)
		return err
	}

	fmt.Println("Password reset, you can now log in")
	return nil
}
