package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// printFieldErrors renders server-side validation messages next to their
// field names, one per line.
func printFieldErrors(err error) {
	for field, msgs := range api.FieldErrors(err) {
		for _, msg := range msgs {
			fmt.Printf("  %s: %s\n", field, msg)
		}
	}
}

// Login prompts the user for credentials and authenticates against the
// server. The password byte slice is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println(api.ErrorMessage(err, "Login failed"))
		return err
	}

	fmt.Printf("Welcome, %s!\n", user.Email())
	return nil
}

// Register prompts for the registration fields and creates a new account.
// A successful registration logs the user in immediately.
func (a *App) Register(ctx context.Context) error {
	req := api.RegisterRequest{}

	var err error
	if req.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if req.Username, err = getSimpleText(a.reader, "Enter username", os.Stdout); err != nil {
		return err
	}
	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", os.Stdout); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", os.Stdout); err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	req.Password = string(password)
	req.PasswordConfirm = string(confirm)

	user, err := a.authService.Register(ctx, req)
	if err != nil {
		fmt.Println(api.ErrorMessage(err, "Registration failed", "email", "username"))
		printFieldErrors(err)
		return err
	}

	fmt.Printf("Account created for %s\n", user.Email())
	return nil
}

// Logout ends the session. Local credentials are gone even when the
// server-side call failed.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}
