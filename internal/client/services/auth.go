// Package services holds the client use cases: account login (online and
// offline) and the encrypted document vault.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/documents"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tripvault/internal/common"
	"github.com/dmitrijs2005/tripvault/internal/cryptox"
	"github.com/dmitrijs2005/tripvault/internal/dbx"
)

// accountSaltSize matches the size of the salt the server hands out for
// unknown accounts, so the two cannot be told apart by length.
const accountSaltSize = 16

// offlineKeys must all be present for an offline login.
var offlineKeys = []string{metadata.KeyUsername, metadata.KeySalt, metadata.KeyVerifier}

// AuthService logs the user in and keeps the record needed to do so
// without the server. Derived key material never leaves a login call.
type AuthService interface {
	OfflineLogin(ctx context.Context, username string, password []byte) error
	OnlineLogin(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, username string, password []byte) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) settings(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// OfflineLogin checks the password against the record saved by the last
// online login. client.ErrLocalDataNotAvailable means there is no complete
// record; a wrong user or password yields client.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, username string, password []byte) error {
	saved, err := a.settings(a.db).GetMany(ctx, offlineKeys...)
	if err != nil {
		return fmt.Errorf("read offline data: %w", err)
	}
	for _, k := range offlineKeys {
		if len(saved[k]) == 0 {
			return client.ErrLocalDataNotAvailable
		}
	}

	if subtle.ConstantTimeCompare(saved[metadata.KeyUsername], []byte(username)) != 1 {
		return client.ErrUnauthorized
	}

	creds := cryptox.Derive(password, saved[metadata.KeySalt])
	defer creds.Wipe()
	if !cryptox.VerifierMatches(saved[metadata.KeyVerifier], creds.Verifier) {
		return client.ErrUnauthorized
	}
	return nil
}

// OnlineLogin fetches the account salt, proves the password with its
// verifier and, on success, refreshes the offline record.
func (a *authService) OnlineLogin(ctx context.Context, username string, password []byte) error {
	salt, err := a.client.GetSalt(ctx, username)
	if err != nil {
		return fmt.Errorf("get salt error: %w", err)
	}

	creds := cryptox.Derive(password, salt)
	defer creds.Wipe()
	if err := a.client.Login(ctx, username, creds.Verifier); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return a.settings(tx).SetMany(ctx, map[string][]byte{
			metadata.KeyUsername: []byte(username),
			metadata.KeySalt:     salt,
			metadata.KeyVerifier: creds.Verifier,
		})
	})
	if err != nil {
		return fmt.Errorf("offline data saving error: %w", err)
	}
	return nil
}

// Register sends a fresh salt and the password verifier to the server.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(accountSaltSize)
	creds := cryptox.Derive(password, salt)
	defer creds.Wipe()

	return a.client.Register(ctx, username, salt, creds.Verifier)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Logout forgets the session tokens and everything cached locally.
func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return a.ClearOfflineData(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearOfflineData drops the offline login record and the document cache
// together.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := a.settings(tx).Clear(ctx); err != nil {
			return err
		}
		return documents.NewSQLiteRepository(tx).Clear(ctx)
	})
}
