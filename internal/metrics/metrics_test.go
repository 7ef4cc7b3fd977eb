// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount reads the observation count of a histogram.
func histogramCount(t *testing.T, h interface{ Write(*dto.Metric) error }) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("geocode", "not_found"))

	RecordProviderRequest("geocode", "not_found", 20*time.Millisecond)
	RecordProviderRequest("geocode", "not_found", 30*time.Millisecond)

	after := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("geocode", "not_found"))
	if after-before != 2 {
		t.Errorf("provider requests delta = %v, want 2", after-before)
	}
}

func TestRecordPlanRun(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
	}{
		{"success", "ok"},
		{"too few stops", "insufficient_input"},
		{"infeasible", "no_solution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(PlanRunsTotal.WithLabelValues(tt.outcome))
			RecordPlanRun(tt.outcome, time.Second)
			after := testutil.ToFloat64(PlanRunsTotal.WithLabelValues(tt.outcome))
			if after-before != 1 {
				t.Errorf("plan runs %q delta = %v, want 1", tt.outcome, after-before)
			}
		})
	}
}

func TestRecordPlanRunObservesDuration(t *testing.T) {
	before := histogramCount(t, PlanDuration)
	RecordPlanRun("ok", 1500*time.Millisecond)
	if got := histogramCount(t, PlanDuration) - before; got != 1 {
		t.Errorf("plan duration samples delta = %d, want 1", got)
	}
}

func TestRecordAddress(t *testing.T) {
	before := testutil.ToFloat64(AddressesTotal.WithLabelValues("avoid_zone"))
	RecordAddress("avoid_zone")
	if got := testutil.ToFloat64(AddressesTotal.WithLabelValues("avoid_zone")) - before; got != 1 {
		t.Errorf("addresses delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}
