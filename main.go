package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/estimation-lab/cliparse"
	"github.com/danielhkuo/estimation-lab/db"
	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/metrics"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/realtime"
	"github.com/danielhkuo/estimation-lab/router"
	"github.com/danielhkuo/estimation-lab/store"
)

const (
	metricsNamespace = "estimation"
	etcdPrefix       = "/estimation-lab/"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store setup failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Session store ready", "type", cfg.DatabaseType)

	metricsHandler, err := metrics.NewHandler(metricsNamespace)
	if err != nil {
		slog.Error("metrics setup failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		Store:   st,
		Engine:  engine.New(),
		Hub:     realtime.NewHub(realtime.DefaultBuffer),
		Metrics: metricsHandler,
		Config:  cfg,
	})

	// Create server
	server := &http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

func openStore(ctx context.Context, cfg cliparse.Config) (store.Store, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite:
		return store.OpenSQL(ctx, db.DialectSQLite, cfg.DatabaseURL)
	case cliparse.DatabasePostgres:
		return store.OpenSQL(ctx, db.DialectPostgres, cfg.DatabaseURL)
	case cliparse.DatabaseEtcd:
		return store.OpenEtcd(store.EtcdConfig{
			Endpoints:   cfg.EtcdEndpoints,
			DialTimeout: cfg.EtcdDialTimeout,
			Prefix:      etcdPrefix,
		})
	case cliparse.DatabaseMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
}
