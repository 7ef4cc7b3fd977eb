// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package pipeline

// Stage identifies a pipeline step in progress events.
type Stage string

// Pipeline stages, in execution order.
const (
	StageParse    Stage = "parse"
	StageGeocode  Stage = "geocode"
	StageFilter   Stage = "filter"
	StageMatrix   Stage = "matrix"
	StageSequence Stage = "sequence"
	StageDone     Stage = "done"
)

// Event reports progress for one address or stage.
type Event struct {
	Stage   Stage
	Address string
	OK      bool
	Detail  string
}

// Reporter receives progress events. It is called synchronously from the
// goroutine running the plan.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}
