package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/museum/internal/config"
	"github.com/naveenspark/museum/internal/logging"
	"github.com/naveenspark/museum/internal/metrics"
	"github.com/naveenspark/museum/internal/session"
	"github.com/naveenspark/museum/internal/store"
	"github.com/naveenspark/museum/pkg/client"
)

// env is everything a command needs, wired from configuration.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   store.Store
	api     *client.Client
	hub     *session.ActivityHub
	sess    *session.Manager
	metrics *metrics.Metrics
	closers []io.Closer
}

func openEnv(opts *options) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.API.URL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
	}

	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:     cfg,
		log:     logging.WithComponent("museum"),
		metrics: metrics.New(),
		hub:     session.NewActivityHub(),
		closers: []io.Closer{logCloser},
	}

	storeLog := logging.WithComponent("store")
	st, err := store.OpenBadger(store.BadgerConfig{
		Dir:      cfg.Storage.Dir,
		InMemory: cfg.Storage.InMemory,
		Logger:   &storeLog,
	})
	if err != nil {
		e.Close() //nolint:errcheck
		return nil, err
	}
	e.store = st
	e.closers = append([]io.Closer{st}, e.closers...)

	e.api = client.New(cfg.API.URL, "",
		client.WithTimeout(cfg.API.Timeout),
		client.WithCircuitBreaker(cfg.API.BreakerThreshold, cfg.API.BreakerCooldown),
		client.WithLogger(logging.WithComponent("client")),
	)
	e.sess = session.NewManager(e.api, e.api, st,
		session.WithTimeout(cfg.Session.Timeout),
		session.WithCheckInterval(cfg.Session.CheckInterval),
		session.WithActivitySource(e.hub),
		session.WithMetrics(e.metrics),
		session.WithLogger(logging.WithComponent("session")),
	)
	e.api.Bind(e.sess)

	e.log.Debug().
		Str("api", cfg.API.URL).
		Bool("in_memory", cfg.Storage.InMemory).
		Dur("timeout", cfg.Session.Timeout).
		Msg("environment ready")
	return e, nil
}

// serveMetrics exposes Prometheus metrics on cfg.Metrics.Addr until the
// returned stop function is called. It is a no-op when no address is set.
func (e *env) serveMetrics() (stop func()) {
	addr := e.cfg.Metrics.Addr
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
		}
	}()
	e.log.Info().Str("addr", addr).Msg("serving metrics")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx) //nolint:errcheck
	}
}

// Close releases the store and then the log file.
func (e *env) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
