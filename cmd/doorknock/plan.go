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
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/pipeline"
	"github.com/tomtom215/doorknock/internal/render"
)

// Output file names written by "plan".
const (
	htmlFile    = "route.html"
	geojsonFile = "route.geojson"
	kmlFile     = "route.kml"
)

func planCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "plan",
		ShortUsage: "doorknock plan <addresses.txt>",
		ShortHelp:  "plan a route through the addresses in a file",
		FlagSet:    flag.NewFlagSet("doorknock plan", flag.ExitOnError),
		Exec:       runPlan,
	}
}

func runPlan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("plan takes exactly one address file")
	}

	cfg, err := setup("console")
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	renderer, err := render.New(&cfg.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	plan, err := newRunner(cfg).Plan(ctx, f, progress(os.Stderr))
	if err != nil {
		return fmt.Errorf("plan %s: %w", args[0], err)
	}

	title := filepath.Base(args[0])
	paths, err := writeArtifacts(cfg.Output.Dir, renderer, plan.Map(title))
	if err != nil {
		return err
	}

	printPlan(os.Stdout, plan)
	for _, p := range paths {
		logging.Info().Str("path", p).Msg("Wrote output")
	}
	return nil
}

// progress prints one line per address outcome and stage transition.
func progress(w io.Writer) pipeline.Reporter {
	return pipeline.ReporterFunc(func(e pipeline.Event) {
		switch {
		case e.Address == "":
			fmt.Fprintf(w, "[%s] %s\n", e.Stage, e.Detail)
		case e.OK:
			fmt.Fprintf(w, "[%s] ok   %s\n", e.Stage, e.Address)
		default:
			fmt.Fprintf(w, "[%s] skip %s: %s\n", e.Stage, e.Address, e.Detail)
		}
	})
}

// writeArtifacts renders the map in every output format into dir.
func writeArtifacts(dir string, r *render.Renderer, m *render.Map) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer, *render.Map) error
	}{
		{htmlFile, r.WriteHTML},
		{geojsonFile, r.WriteGeoJSON},
		{kmlFile, r.WriteKML},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writeFile(path, m, out.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, m *render.Map, write func(io.Writer, *render.Map) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f, m); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printPlan lists the stops in visiting order, the skipped addresses and the
// navigation link.
func printPlan(w io.Writer, plan *pipeline.Plan) {
	fmt.Fprintln(w, "Route:")
	for i, stop := range plan.Ordered {
		fmt.Fprintf(w, "%3d. %s\n", i+1, stop.Address)
	}
	if len(plan.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped:")
		for _, s := range plan.Skipped {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	fmt.Fprintf(w, "Total cost: %g\n", plan.Route.Cost)
	fmt.Fprintf(w, "Navigation: %s\n", plan.NavigationURL)
}
