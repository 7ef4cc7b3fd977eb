// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package pipeline runs a planning job end to end: parse addresses, geocode
// them, drop those inside avoid zones, build the cost matrix, sequence the
// tour and assemble the navigation link.
//
// Per-address failures are recorded on the Plan and never abort a run.
// A run fails only when fewer than two stops remain, when no tour exists,
// or when its context ends.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/distance"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/proximity"
	"github.com/tomtom215/doorknock/internal/render"
	"github.com/tomtom215/doorknock/internal/route"
	"github.com/tomtom215/doorknock/internal/zone"
)

var (
	// ErrInsufficientInput means fewer than two addresses survived geocoding
	// and filtering. The matrix is never built.
	ErrInsufficientInput = errors.New("at least two valid addresses are required")

	// ErrTooManyAddresses means the input exceeds input.max_addresses.
	ErrTooManyAddresses = errors.New("too many addresses")
)

// Plan is the result of a successful run.
type Plan struct {
	ID            string                  `json:"id"`
	Stops         []models.Stop           `json:"stops"`
	Skipped       []models.SkippedAddress `json:"skipped"`
	Landmarks     []models.Landmark       `json:"landmarks"`
	Zones         []*zone.Zone            `json:"zones"`
	Matrix        distance.Matrix         `json:"-"`
	Route         route.Route             `json:"route"`
	Ordered       []models.Stop           `json:"ordered"`
	NavigationURL string                  `json:"navigation_url"`
	Stats         Stats                   `json:"stats"`
	Duration      time.Duration           `json:"duration_ns"`
}

// Map returns the view the renderers draw.
func (p *Plan) Map(title string) *render.Map {
	return &render.Map{
		Title:         title,
		Ordered:       p.Ordered,
		Skipped:       p.Skipped,
		Landmarks:     p.Landmarks,
		Zones:         p.Zones,
		NavigationURL: p.NavigationURL,
		RoundTrip:     p.Route.RoundTrip,
	}
}

// Stats counts addresses at each stage.
type Stats struct {
	Input         int            `json:"input"`
	Geocoded      int            `json:"geocoded"`
	GeocodeFailed int            `json:"geocode_failed"`
	Excluded      int            `json:"excluded"`
	Matrix        distance.Stats `json:"matrix"`
}

// Planner wires the pipeline stages together. A Planner holds no per-run
// state and may be shared by concurrent runs.
type Planner struct {
	geocoder  maps.Geocoder
	filter    *proximity.Filter
	builder   *distance.Builder
	sequencer route.Sequencer

	maxAddresses   int
	navigationBase string
}

// Option configures a Planner.
type Option func(*Planner)

// WithFilter enables the avoid-zone stage.
func WithFilter(f *proximity.Filter) Option {
	return func(p *Planner) { p.filter = f }
}

// New creates a planner. The avoid-zone stage is off unless WithFilter is given.
func New(geocoder maps.Geocoder, builder *distance.Builder, sequencer route.Sequencer, cfg *config.Config, opts ...Option) *Planner {
	p := &Planner{
		geocoder:       geocoder,
		builder:        builder,
		sequencer:      sequencer,
		maxAddresses:   cfg.Input.MaxAddresses,
		navigationBase: cfg.Output.NavigationBase,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig builds the full production planner over a maps service.
func NewFromConfig(svc maps.Service, cfg *config.Config) *Planner {
	var opts []Option
	if cfg.Proximity.Enabled {
		opts = append(opts, WithFilter(proximity.New(svc, &cfg.Proximity)))
	}
	return New(svc, distance.NewBuilder(svc), route.NewSolver(&cfg.Routing), cfg, opts...)
}

// Plan parses addresses from r and runs the pipeline.
func (p *Planner) Plan(ctx context.Context, r io.Reader, reporter Reporter) (*Plan, error) {
	addrs, err := ParseAddresses(r, p.maxAddresses)
	if err != nil {
		metrics.RecordPlanRun(outcome(err), 0)
		return nil, err
	}
	return p.run(ctx, addrs, reporter)
}

// PlanLines runs the pipeline over already-split lines.
func (p *Planner) PlanLines(ctx context.Context, lines []string, reporter Reporter) (*Plan, error) {
	addrs := fromLines(lines)
	if p.maxAddresses > 0 && len(addrs) > p.maxAddresses {
		metrics.RecordPlanRun(outcome(ErrTooManyAddresses), 0)
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyAddresses, len(addrs), p.maxAddresses)
	}
	return p.run(ctx, addrs, reporter)
}

func (p *Planner) run(ctx context.Context, addrs []Address, reporter Reporter) (*Plan, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	start := time.Now()
	plan := &Plan{ID: uuid.New().String()}
	ctx = logging.ContextWithPlanID(ctx, plan.ID)
	log := logging.Ctx(ctx)

	plan.Stats.Input = len(addrs)
	reporter.Report(Event{Stage: StageParse, OK: true, Detail: fmt.Sprintf("%d addresses", len(addrs))})
	started := log.Info().Int("addresses", len(addrs))
	if p.filter != nil {
		started = started.Strs("avoid_categories", p.filter.Categories())
	}
	started.Msg("Planning run started")

	err := p.execute(ctx, plan, addrs, reporter)
	plan.Duration = time.Since(start)
	metrics.RecordPlanRun(outcome(err), plan.Duration)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", plan.Duration).Msg("Planning run failed")
		return nil, err
	}

	reporter.Report(Event{Stage: StageDone, OK: true, Detail: plan.NavigationURL})
	log.Info().
		Int("stops", len(plan.Stops)).
		Int("skipped", len(plan.Skipped)).
		Float64("cost", plan.Route.Cost).
		Dur("elapsed", plan.Duration).
		Msg("Planning run finished")
	return plan, nil
}

func (p *Planner) execute(ctx context.Context, plan *Plan, addrs []Address, reporter Reporter) error {
	if err := p.collectStops(ctx, plan, addrs, reporter); err != nil {
		return err
	}
	if len(plan.Stops) < 2 {
		return fmt.Errorf("%w: %d of %d addresses usable", ErrInsufficientInput, len(plan.Stops), len(addrs))
	}

	coords := make([]models.Coordinate, len(plan.Stops))
	for i, s := range plan.Stops {
		coords[i] = s.Location
	}

	reporter.Report(Event{Stage: StageMatrix, Detail: fmt.Sprintf("%d stops, %d lookups", len(coords), len(coords)*(len(coords)-1))})
	matrix, stats, err := p.builder.Build(ctx, coords)
	if err != nil {
		return fmt.Errorf("failed to build distance matrix: %w", err)
	}
	plan.Matrix = matrix
	plan.Stats.Matrix = stats
	reporter.Report(Event{Stage: StageMatrix, OK: true, Detail: fmt.Sprintf("%d unreachable pairs", stats.Unreachable)})

	rt, err := p.sequencer.Sequence(ctx, matrix)
	if err != nil {
		reporter.Report(Event{Stage: StageSequence, Detail: err.Error()})
		return fmt.Errorf("failed to sequence route: %w", err)
	}
	plan.Route = rt
	reporter.Report(Event{Stage: StageSequence, OK: true, Detail: fmt.Sprintf("cost %.0f", rt.Cost)})

	plan.Ordered = make([]models.Stop, 0, len(rt.Order))
	for _, idx := range rt.Order {
		plan.Ordered = append(plan.Ordered, plan.Stops[idx])
	}
	plan.NavigationURL = render.NavigationURL(p.navigationBase, coords, rt.Order)
	return nil
}

// collectStops geocodes and filters every address in input order.
func (p *Planner) collectStops(ctx context.Context, plan *Plan, addrs []Address, reporter Reporter) error {
	log := logging.Ctx(ctx)
	landmarks := newLandmarkSet()

	for _, a := range addrs {
		if err := ctx.Err(); err != nil {
			return err
		}

		loc, err := p.geocoder.Geocode(ctx, a.Text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			plan.Stats.GeocodeFailed++
			metrics.RecordAddress(string(models.SkipGeocodeFailed))
			plan.Skipped = append(plan.Skipped, models.SkippedAddress{
				Address: a.Text,
				Line:    a.Line,
				Reason:  models.SkipGeocodeFailed,
				Detail:  geocodeDetail(err),
			})
			log.Warn().Err(err).Str("address", a.Text).Int("line", a.Line).Msg("Geocoding failed, skipping address")
			reporter.Report(Event{Stage: StageGeocode, Address: a.Text, Detail: geocodeDetail(err)})
			continue
		}
		plan.Stats.Geocoded++
		reporter.Report(Event{Stage: StageGeocode, Address: a.Text, OK: true, Detail: loc.String()})

		if p.filter != nil {
			verdict, err := p.filter.Check(ctx, loc)
			if err != nil {
				return err
			}
			landmarks.add(verdict.Landmarks)
			plan.Zones = append(plan.Zones, verdict.Zones...)
			if verdict.Excluded {
				plan.Stats.Excluded++
				metrics.RecordAddress(string(models.SkipAvoidZone))
				l := loc
				plan.Skipped = append(plan.Skipped, models.SkippedAddress{
					Address:  a.Text,
					Line:     a.Line,
					Reason:   models.SkipAvoidZone,
					Category: verdict.Category,
					Location: &l,
				})
				log.Info().Str("address", a.Text).Str("category", verdict.Category).Msg("Address inside avoid zone, skipping")
				reporter.Report(Event{Stage: StageFilter, Address: a.Text, Detail: "inside " + verdict.Category + " zone"})
				continue
			}
		}

		metrics.RecordAddress("accepted")
		plan.Stops = append(plan.Stops, models.Stop{
			Index:    len(plan.Stops),
			Address:  a.Text,
			Line:     a.Line,
			Location: loc,
		})
	}

	plan.Landmarks = landmarks.items
	return nil
}

func geocodeDetail(err error) string {
	var se *maps.StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return err.Error()
}

// outcome maps a run error to the metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientInput):
		return "insufficient_input"
	case errors.Is(err, ErrTooManyAddresses):
		return "too_many_addresses"
	case errors.Is(err, route.ErrNoSolution):
		return "no_solution"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// landmarkSet keeps the first occurrence of each landmark across stops.
type landmarkSet struct {
	seen  map[landmarkKey]struct{}
	items []models.Landmark
}

type landmarkKey struct {
	category string
	name     string
	loc      models.Coordinate
}

func newLandmarkSet() *landmarkSet {
	return &landmarkSet{seen: make(map[landmarkKey]struct{})}
}

func (s *landmarkSet) add(landmarks []models.Landmark) {
	for _, l := range landmarks {
		k := landmarkKey{l.Category, l.Name, l.Location}
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.items = append(s.items, l)
	}
}
