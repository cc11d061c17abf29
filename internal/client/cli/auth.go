package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/client/client"
	"github.com/dmitrijs2005/mindcare/internal/common"
)

// getSimpleText, getMultiline and getPassword are swapped out in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

var errBadCredentials = errors.New("invalid email or password")

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// Register prompts for the account details and creates the account. The
// password is asked twice; the server checks that both match.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := a.ask("Enter your name")
	if err != nil {
		return err
	}
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	phone, err := a.ask("Enter phone (optional)")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	u, err := a.api.Register(ctx, name, email, phone, string(password), string(confirm))
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			return errors.New("an account with this email already exists")
		}
		return err
	}

	fmt.Fprintf(a.out, "Account created for %s. You can now login.\n", u.Email)
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errBadCredentials
		}
		return err
	}

	a.userName = email
	if u, err := a.api.Me(ctx); err == nil && u.Name != "" {
		a.userName = u.Name
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", a.userName)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.api.Logout(ctx)
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return err
}
