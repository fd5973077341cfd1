package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tripvault/internal/common"
)

// getSimpleText, getPassword and friends are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText    = GetSimpleText
	getPassword      = GetPassword
	getPassphrase    = GetPassphrase
	getNewPassphrase = GetNewPassphrase
)

// Register prompts the user for an email and password and attempts to create
// a new account via the AuthService.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.w())
	if err != nil {
		return err
	}

	password, err := getPassword(a.w())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrAlreadyExists) {
			fmt.Fprintln(a.w(), "This email is already registered")
		}
		return err
	}

	fmt.Fprintln(a.w(), "Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The method first attempts an online login. If the server is unavailable
// (errors.Is(err, client.ErrUnavailable)), it falls back to offline login.
// On success it records the user name and updates connectivity Mode:
//   - ModeOnline if online login succeeds,
//   - ModeOffline if offline login succeeds,
//   - ModeDisabled if both fail.
//
// The password is securely wiped before returning. The returned error is the
// last authentication error, nil once either login succeeded.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.w())
	if err != nil {
		return err
	}

	password, err := getPassword(a.w())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var mode Mode

	err = a.authService.OnlineLogin(ctx, userName, password)
	switch {
	case err == nil:
		log.Printf("Login successful")
		mode = ModeOnline
	case errors.Is(err, client.ErrUnavailable):
		log.Printf("Server unavailable, trying offline login...")
		err = a.authService.OfflineLogin(ctx, userName, password)
		if err != nil {
			log.Printf("Offline login unsuccessful: %s", err.Error())
			mode = ModeDisabled
		} else {
			log.Printf("Offline login successful")
			mode = ModeOffline
		}
	default:
		log.Printf("Login unsuccessful: %s", err.Error())
	}

	if err != nil {
		a.setMode(mode)
		return err
	}

	a.userName = userName
	a.setMode(mode)
	a.loadTrip(ctx)
	return nil
}

// Logout forgets the session and clears locally cached data.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.tripID = ""
	a.listed = nil
	return nil
}

func (a *App) loadTrip(ctx context.Context) {
	if a.settings == nil {
		return
	}
	v, err := a.settings.Get(ctx, metadata.KeyTrip)
	if err != nil {
		log.Printf("read current trip: %v", err)
		return
	}
	a.tripID = string(v)
}
