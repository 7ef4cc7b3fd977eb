// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Command doorknock plans a door-to-door walking or driving route through a
// list of street addresses.
//
// Usage:
//
//	doorknock plan addresses.txt   # one address per line, first is the start
//	doorknock serve                # upload form and JSON API
//
// All settings come from configuration: built-in defaults, then a YAML file
// (CONFIG_PATH, ./doorknock.yaml or /etc/doorknock/config.yaml), then
// environment variables. GOOGLE_MAPS_API_KEY is required.
//
// "plan" writes route.html, route.geojson and route.kml to OUTPUT_DIR and
// prints the visiting order and a navigation link. "serve" runs the HTTP
// server under a supervisor tree and stops gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/pipeline"
	"github.com/tomtom215/doorknock/internal/ratelimit"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	root := &ffcli.Command{
		ShortUsage:  "doorknock <subcommand> [args]",
		ShortHelp:   "door-to-door route planner",
		FlagSet:     flag.NewFlagSet("doorknock", flag.ExitOnError),
		Subcommands: []*ffcli.Command{planCommand(), serveCommand()},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging. format overrides the
// configured log format when non-empty.
func setup(format string) (*config.Config, error) {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = cfg.Logging.Format
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}

// newRunner builds the throttled maps client and the runner that wraps it in
// fresh breakers and lookup cache for every plan.
func newRunner(cfg *config.Config) *pipeline.Runner {
	limiter := ratelimit.NewFromConfig(cfg.RateLimit)
	client := maps.NewClient(&cfg.Maps, &cfg.Routing, limiter)
	return pipeline.NewRunner(client, cfg)
}
