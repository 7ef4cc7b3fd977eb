// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/tomtom215/doorknock/internal/api"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/render"
	"github.com/tomtom215/doorknock/internal/supervisor"
	"github.com/tomtom215/doorknock/internal/supervisor/services"
)

func serveCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "doorknock serve",
		ShortHelp:  "serve the upload form and planning API",
		FlagSet:    flag.NewFlagSet("doorknock serve", flag.ExitOnError),
		Exec:       runServe,
	}
}

func runServe(ctx context.Context, _ []string) error {
	cfg, err := setup("")
	if err != nil {
		return err
	}
	logging.Info().Str("version", version).Msg("Starting doorknock server")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	renderer, err := render.New(&cfg.Output)
	if err != nil {
		return err
	}

	runner := newRunner(cfg)
	handler := api.NewHandler(runner, renderer, &cfg.Server, readiness(runner))
	mw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	router := api.NewRouter(handler, mw)

	// WriteTimeout must cover a full plan.
	writeTimeout := cfg.Server.Timeout
	if cfg.Server.PlanTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.Server.PlanTimeout + 5*time.Second
	}
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, tree.Config().ShutdownTimeout))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Server stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openCircuits is implemented by pipeline.Runner.
type openCircuits interface {
	OpenCircuits() []string
}

// readiness reports not-ready while the last run ended with a maps circuit
// open.
func readiness(oc openCircuits) api.ReadinessCheck {
	return func(context.Context) error {
		if open := oc.OpenCircuits(); len(open) > 0 {
			return fmt.Errorf("circuit open: %s", strings.Join(open, ", "))
		}
		return nil
	}
}
