package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vijay-1577/campus-registry/internal/config"
	registryhttp "github.com/vijay-1577/campus-registry/internal/http"
	"github.com/vijay-1577/campus-registry/internal/obs"
	"github.com/vijay-1577/campus-registry/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	obs.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           registryhttp.NewServer(cfg, st).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		obs.LogRequest(map[string]any{"event": "listening", "addr": cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore picks Postgres when DATABASE_URL is set, otherwise keeps
// everything in memory. The in-memory store is a full implementation,
// not a stub, so the service runs without any infrastructure.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		obs.LogRequest(map[string]any{"event": "store_selected", "backend": "memory"})
		return store.NewMemory(), nil
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	obs.LogRequest(map[string]any{"event": "store_selected", "backend": "postgres"})
	return pg, nil
}
