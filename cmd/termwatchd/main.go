// Command termwatchd wires the session manager, its ambient
// health/metrics surface, and an optional webhook notifier into a
// single long-running process. It deliberately does not expose the
// tool-call operation set over any RPC framing — that surface is a
// stated non-goal of this module and is left to a caller-supplied
// transport built on top of the exported *manager.Manager methods.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreway/termwatch/internal/config"
	httptransport "github.com/coreway/termwatch/internal/transport/http"
	"github.com/coreway/termwatch/internal/logging"
	"github.com/coreway/termwatch/internal/manager"
	"github.com/coreway/termwatch/internal/metrics"
	"github.com/coreway/termwatch/internal/notify"
	"github.com/coreway/termwatch/internal/permission"
	"github.com/coreway/termwatch/internal/preset"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", ":8090", "health/metrics listen address")
	webhookURL := flag.String("webhook", "", "optional webhook URL for state_change/confirm_required notifications")
	permissionURL := flag.String("permission-endpoint", "", "optional HTTP endpoint for tool-call permission checks")
	flag.Parse()

	cfg := config.LoadOrDefault(*configPath)

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	lib := preset.NewLibrary()
	if cfg.Manager.PresetDir != "" {
		if err := lib.LoadDir(context.Background(), cfg.Manager.PresetDir); err != nil {
			log.Warn("termwatchd: failed to load preset directory", zap.Error(err))
		}
	}

	var checker permission.Checker = permission.AlwaysAsk{}
	if *permissionURL != "" {
		checker = permission.NewHTTPChecker(*permissionURL, 2*time.Second)
	}

	m := manager.New(manager.Options{
		MaxSessions: cfg.Manager.MaxSessions,
		IdleTimeout: cfg.Manager.IdleTimeout,
		SweepEvery:  cfg.Manager.SweepPeriod,
		Library:     lib,
		Permission:  checker,
		Log:         log,
		Metrics:     metrics.New(),
		Webhook:     notify.New(*webhookURL, 3*time.Second, log),
	})
	defer m.Shutdown()

	router := httptransport.NewRouter(m, httptransport.DefaultCORSConfig())
	server := &http.Server{Addr: *addr, Handler: router}

	go func() {
		log.Info("termwatchd: health/metrics surface listening", zap.String("addr", *addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("termwatchd: http server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("termwatchd: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
