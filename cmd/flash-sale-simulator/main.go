// Package main boots the Flash Sale Simulator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/flash-sale-simulator/internal/config"
	httpapi "github.com/fairyhunter13/flash-sale-simulator/internal/http"
	"github.com/fairyhunter13/flash-sale-simulator/internal/inventory"
	"github.com/fairyhunter13/flash-sale-simulator/internal/obs"
	"github.com/fairyhunter13/flash-sale-simulator/internal/store"
)

func main() {
	obs.InitLogger()
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("service_starting", "redis_addr", cfg.RedisAddr(), "pool_size", cfg.RedisPoolSize)

	rdb := store.NewClient(cfg)
	inv := inventory.New(rdb, cfg.PurchaseDelay)
	app := httpapi.NewApp(cfg, inv, rdb)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	if err := rdb.Close(); err != nil {
		obs.Logger.Error("redis_close_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
