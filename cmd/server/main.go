package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"polymer-kinetics-api/internal/api"
	"polymer-kinetics-api/internal/config"
	"polymer-kinetics-api/internal/kinetics"
	"polymer-kinetics-api/internal/observability"
	"polymer-kinetics-api/internal/parser"
	"polymer-kinetics-api/internal/upstream"
	"polymer-kinetics-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	l := logger.NewWithLevel(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	if err := observability.Register(prometheus.DefaultRegisterer); err != nil {
		l.Errorf("register metrics: %v", err)
		os.Exit(1)
	}

	client := upstream.NewClient(cfg.UpstreamOptions())
	svc := kinetics.NewService(client, parser.New(), l)
	h := api.New(svc, l, api.Options{
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        observability.Handler(prometheus.DefaultGatherer),
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s, upstream %s", cfg.Addr, cfg.UpstreamBaseURL)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}
