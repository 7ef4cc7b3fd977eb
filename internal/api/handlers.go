// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/pipeline"
	"github.com/tomtom215/doorknock/internal/render"
)

// Planner runs one planning job.
type Planner interface {
	Plan(ctx context.Context, r io.Reader, reporter pipeline.Reporter) (*pipeline.Plan, error)
}

// ReadinessCheck reports a reason the service should not take traffic, or nil.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the planner endpoints.
type Handler struct {
	planner        Planner
	renderer       *render.Renderer
	planTimeout    time.Duration
	maxUploadBytes int64
	ready          ReadinessCheck
	startTime      time.Time
}

// NewHandler creates a handler. ready may be nil.
func NewHandler(planner Planner, renderer *render.Renderer, cfg *config.ServerConfig, ready ReadinessCheck) *Handler {
	return &Handler{
		planner:        planner,
		renderer:       renderer,
		planTimeout:    cfg.PlanTimeout,
		maxUploadBytes: cfg.MaxUploadBytes,
		ready:          ready,
		startTime:      time.Now(),
	}
}

// PlanRequest is the validated form of a plan upload.
type PlanRequest struct {
	Format   string `validate:"oneof=json geojson kml html"`
	Title    string `validate:"max=120,printable"`
	FileSize int64  `validate:"gt=0,ltefield=MaxBytes"`
	MaxBytes int64
}

// PlanResponse is the JSON body of a successful plan.
type PlanResponse struct {
	*pipeline.Plan
	DurationMS int64 `json:"duration_ms"`
}

// formFileField is the multipart field holding the address list.
const formFileField = "file"

// CreatePlan plans a route from an uploaded address list.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Allow for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+64*1024)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, http.StatusBadRequest, CodeValidation,
				fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes), err)
			return
		}
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Expected a multipart form upload", err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(formFileField)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Missing address file in form field \"file\"", err)
		return
	}
	defer file.Close()

	req := PlanRequest{
		Format:   strings.ToLower(r.URL.Query().Get("format")),
		Title:    strings.TrimSpace(r.FormValue("title")),
		FileSize: header.Size,
		MaxBytes: h.maxUploadBytes,
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{Status: "error", Error: apiErr})
		return
	}

	ctx := r.Context()
	if h.planTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.planTimeout)
		defer cancel()
	}

	logging.Ctx(ctx).Info().
		Str("filename", sanitizeLogValue(header.Filename)).
		Int64("bytes", header.Size).
		Str("format", req.Format).
		Msg("Plan requested")

	plan, err := h.planner.Plan(ctx, file, nil)
	if err != nil {
		status, code, message := planError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	title := req.Title
	if title == "" {
		title = strings.TrimSuffix(header.Filename, ".txt")
	}
	h.writePlan(w, r, req.Format, title, plan, start)
}

func (h *Handler) writePlan(w http.ResponseWriter, r *http.Request, format, title string, plan *pipeline.Plan, start time.Time) {
	var (
		contentType string
		filename    string
		write       func(io.Writer, *render.Map) error
	)
	switch format {
	case "geojson":
		contentType, filename, write = "application/geo+json", "route.geojson", h.renderer.WriteGeoJSON
	case "kml":
		contentType, filename, write = "application/vnd.google-earth.kml+xml", "route.kml", h.renderer.WriteKML
	case "html":
		contentType, write = "text/html; charset=utf-8", h.renderer.WriteHTML
	default:
		respondJSON(w, r, http.StatusOK, &models.APIResponse{
			Status:   "success",
			Data:     PlanResponse{Plan: plan, DurationMS: plan.Duration.Milliseconds()},
			Metadata: models.Metadata{ElapsedMS: time.Since(start).Milliseconds()},
		})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Plan-ID", plan.ID)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	if err := write(w, plan.Map(title)); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("format", format).Msg("Failed to render plan")
	}
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady reports whether the service can plan routes right now.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	var reason string
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			reason = err.Error()
		}
	}

	status, code := "ready", http.StatusOK
	if reason != "" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	data := map[string]interface{}{
		"ready_to_serve": reason == "",
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if reason != "" {
		data["reason"] = reason
	}
	respondJSON(w, r, code, &models.APIResponse{Status: status, Data: data})
}
