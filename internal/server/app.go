// Package server wires and runs the tripvault server: PostgreSQL metadata,
// S3 blob storage, the gRPC API, the metrics endpoint and background
// housekeeping.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/tripvault/internal/logging"
	"github.com/dmitrijs2005/tripvault/internal/ratelimit"
	"github.com/dmitrijs2005/tripvault/internal/server/config"
	"github.com/dmitrijs2005/tripvault/internal/server/metrics"
	"github.com/dmitrijs2005/tripvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tripvault/internal/server/services"
	"github.com/dmitrijs2005/tripvault/internal/server/storage"

	gs "github.com/dmitrijs2005/tripvault/internal/server/grpc"
)

const (
	housekeepingInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	metrics         *metrics.Metrics
	limiter         *ratelimit.Limiter
	userService     *services.UserService
	documentService *services.DocumentService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, logging.Options{Level: slog.LevelInfo})

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		Bucket:        c.S3Bucket,
		BaseEndpoint:  c.S3BaseEndpoint,
		UsePathStyle:  true,
		PresignExpiry: c.PresignExpiry,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	m := metrics.New()

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		metrics:         m,
		limiter:         ratelimit.New(c.RateLimitRPS, c.RateLimitBurst),
		userService:     services.NewUserService(db, rm, c),
		documentService: services.NewDocumentService(db, rm, blobs, m, logger.With("module", "documents")),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.documentService,
		app.limiter, app.metrics, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) startMetricsServer(ctx context.Context) {
	if app.config.MetricsAddr == "" {
		return
	}
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err)
	}
}

// housekeeping drops idle rate-limit buckets and expired refresh tokens.
func (app *App) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.limiter.Sweep(limiterIdleTTL); n > 0 {
				app.logger.Debug(ctx, "rate limiter swept", "evicted", n)
			}
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "purging refresh tokens failed", "error", err)
			} else if n > 0 {
				app.logger.Info(ctx, "purged expired refresh tokens", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx)
	}()
	go func() {
		defer wg.Done()
		app.housekeeping(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close failed", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
