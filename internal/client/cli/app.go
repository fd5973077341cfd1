package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/tripvault/internal/client/client"
	"github.com/dmitrijs2005/tripvault/internal/client/config"
	"github.com/dmitrijs2005/tripvault/internal/client/models"
	"github.com/dmitrijs2005/tripvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tripvault/internal/client/services"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config       *config.Config
	authService  services.AuthService
	vaultService services.VaultService
	settings     metadata.Repository
	userName     string
	tripID       string
	reader       *bufio.Reader
	out          io.Writer

	// documents from the last listing, by id
	listed map[string]*models.Document

	mu   sync.Mutex
	Mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewVaultClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:       c,
		authService:  services.NewAuthService(apiClient, db),
		vaultService: services.NewVaultService(apiClient, db),
		settings:     metadata.NewSQLiteRepository(db),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func (a *App) w() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else if a.mode() == ModeOffline {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
