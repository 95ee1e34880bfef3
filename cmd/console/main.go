// @title        MoveSwift Logistics Console API
// @version      1.0
// @description  Backend for the MoveSwift admin console: session, customers, shipments and tracking.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moveswift/logistics-console/internal/api"
	"github.com/moveswift/logistics-console/internal/core/ports"
	"github.com/moveswift/logistics-console/internal/core/service"
	"github.com/moveswift/logistics-console/internal/infrastructure/config"
	"github.com/moveswift/logistics-console/internal/infrastructure/db/memory"
	mongostore "github.com/moveswift/logistics-console/internal/infrastructure/db/mongo"
	redisstore "github.com/moveswift/logistics-console/internal/infrastructure/db/redis"
	"github.com/moveswift/logistics-console/internal/infrastructure/gateway"
	"github.com/moveswift/logistics-console/internal/infrastructure/queue"
	"github.com/moveswift/logistics-console/pkg/logger"
)

const (
	auditBuffer     = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "logistics-console",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped with error")
	}
	log.Info().Msg("console gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Session store ---
	var (
		store ports.SessionStore
		rdb   *goredis.Client
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		store = redisstore.NewSessionStore(client, cfg.Session.KeyPrefix)
	default:
		log.Warn().Msg("session store is in memory, the session will not survive a restart")
		store = memory.NewSessionStore()
	}

	// --- Backend gateway and session ---
	gw := gateway.New(gateway.Config{BaseURL: cfg.API.URL, Timeout: cfg.API.Timeout}, store, log)
	session := service.NewSessionManager(gw, store, log)
	gw.OnUnauthorized(session.Expire)

	if err := session.Restore(ctx); err != nil {
		log.Error().Err(err).Msg("failed to restore persisted session")
	}

	// --- Audit trail ---
	var (
		audit ports.AuditRepository
		mdb   *mongo.Database
	)
	if cfg.Audit.Enabled {
		client, db, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		mdb = db

		repo := mongostore.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditBuffer, repo, log)
		dispatcher.Start(context.Background())
		defer dispatcher.Close()
		audit = dispatcher
	}

	// --- Services ---
	customers := service.NewCustomerService(gw, audit, session, log)
	shipments := service.NewShipmentService(gw, audit, session,
		service.ShipmentPolicy{EnforceTransitions: cfg.Shipments.EnforceTransitions}, log)
	dashboard := service.NewDashboardService(shipments, customers)

	e := api.NewRouter(api.Deps{
		Session:   session,
		Customers: customers,
		Shipments: shipments,
		Dashboard: dashboard,
		Mongo:     mdb,
		Redis:     rdb,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", gw.BaseURL()).
			Str("session_store", cfg.Session.Store).
			Bool("audit", cfg.Audit.Enabled).
			Msg("console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
