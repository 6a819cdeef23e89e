package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/config"
	"github.com/GlebRadaev/bumdes/internal/handlers"
	"github.com/GlebRadaev/bumdes/internal/notify"
	"github.com/GlebRadaev/bumdes/internal/pg"
	"github.com/GlebRadaev/bumdes/internal/repo"
	"github.com/GlebRadaev/bumdes/internal/service"
	"github.com/GlebRadaev/bumdes/pkg/auth"
	"github.com/GlebRadaev/bumdes/pkg/clients"
	"github.com/GlebRadaev/bumdes/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg     *config.Config
	api     *handlers.Handlers
	srv     *service.Services
	repo    *repo.Repositories
	pool    *pgxpool.Pool
	workers notify.WorkerPoolI

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	a.cfg = config.New()
	if err := logger.InitLogger(a.cfg); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := openStore(ctx, a.cfg.Database)
	if err != nil {
		zap.L().Error("store is not available", zap.Error(err))
		return err
	}
	a.pool = pool
	a.wire()

	if a.cfg.MidtransServerKey == "" {
		zap.L().Warn("MIDTRANS_SERVER_KEY is empty, every webhook will fail signature checks")
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	a.startResourceCloser(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

// openStore connects to Postgres and brings the schema up to date.
func openStore(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("build pgx pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err = pg.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (a *Application) wire() {
	a.repo = repo.New(pg.New(a.pool), pg.NewTXManager(a.pool, a.cfg.TxMaxAttempts))
	a.workers = notify.NewWorkerPool(a.cfg.NotifyWorkers)

	jwtService := auth.NewJWTService(a.cfg.JWTSecret)
	sender := notify.NewWebPushSender(notify.VAPIDKeys{
		PublicKey:  a.cfg.VAPIDPublicKey,
		PrivateKey: a.cfg.VAPIDPrivateKey,
		Subscriber: a.cfg.VAPIDSubject,
	}, nil)

	a.srv = service.New(a.repo, service.Deps{
		Hash:      auth.NewHashService(0),
		JWT:       jwtService,
		TokenTTL:  a.cfg.TokenTTL,
		Notifier:  notify.NewDispatcher(a.repo.UserRepo, sender, a.workers),
		Snap:      clients.NewSnapClient(a.cfg.MidtransSnapURL, a.cfg.MidtransServerKey),
		ServerKey: a.cfg.MidtransServerKey,
	})
	a.api = handlers.New(a.srv, jwtService)
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("http server listening", zap.String("address", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// startResourceCloser drains pending notifications and closes the pool once
// the context is done.
func (a *Application) startResourceCloser(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		a.closeResources()
	}()
}

func (a *Application) closeResources() {
	if a.workers != nil {
		a.workers.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	zap.L().Info("resources released")
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
