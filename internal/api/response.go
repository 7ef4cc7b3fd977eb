// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/pipeline"
	"github.com/tomtom215/doorknock/internal/route"
	"github.com/tomtom215/doorknock/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeTooManyAddresses  = "TOO_MANY_ADDRESSES"
	CodeInsufficientInput = "INSUFFICIENT_INPUT"
	CodeNoSolution        = "NO_SOLUTION"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodePlanFailed        = "PLAN_FAILED"
)

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	if response.Metadata.Timestamp.IsZero() {
		response.Metadata.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", code).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error:  &models.APIError{Code: code, Message: message},
	})
}

// validateRequest runs struct validation and converts the result.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

// planError maps a pipeline failure to an HTTP status and error code.
func planError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, pipeline.ErrTooManyAddresses):
		return http.StatusRequestEntityTooLarge, CodeTooManyAddresses, err.Error()
	case errors.Is(err, pipeline.ErrInsufficientInput):
		return http.StatusUnprocessableEntity, CodeInsufficientInput, err.Error()
	case errors.Is(err, route.ErrNoSolution):
		return http.StatusUnprocessableEntity, CodeNoSolution, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodePlanFailed, "Planning timed out"
	default:
		return http.StatusInternalServerError, CodePlanFailed, "Planning failed"
	}
}
