package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dataport/uplink/internal/common"
)

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.Current()
	return ok
}

func (a *App) isAdmin() bool {
	s, ok := a.auth.Current()
	return ok && s.User.Role == "admin"
}

// report prints an error for the user. A 401 additionally tears the whole
// session down: the token and everything cached under it are dropped, and
// pending uploads, which would fail with the same 401, are cancelled.
func (a *App) report(ctx context.Context, err error) {
	if errors.Is(err, common.ErrUnauthorized) && a.isLoggedIn() {
		a.auth.Expire(ctx)
		a.cancelPendingUploads()
		fmt.Fprintln(a.out, "Session expired, please log in again.")
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}

func (a *App) cancelPendingUploads() {
	if a.uploads == nil {
		return
	}
	for _, it := range a.uploads.Items() {
		if !it.State.Terminal() {
			_ = a.uploads.Cancel(it.ID)
		}
	}
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Session valid until %s\n", s.ExpiresAt.Local().Format(time.RFC1123))
	}
	if s.User.NeedsPasswordSetup {
		fmt.Fprintln(a.out, "You are using a temporary password. Run 'setpass' to choose your own.")
	}
	return nil
}

func (a *App) SetPassword(ctx context.Context) error {
	s, ok := a.auth.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	password, err := GetPassword(a.out, "New password")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	if password != confirm {
		fmt.Fprintln(a.out, "Passwords do not match.")
		return nil
	}

	if _, err := a.auth.SetPassword(ctx, s.User.Email, password); err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintln(a.out, "Password updated.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
