// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package models

import (
	"time"
)

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "error",
//	  "error": {"code": "INSUFFICIENT_INPUT", "message": "..."},
//	  "metadata": {"timestamp": "2026-10-16T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
//
// Codes:
//   - VALIDATION_ERROR: bad upload or query parameters
//   - TOO_MANY_ADDRESSES: address list exceeds the configured maximum
//   - INSUFFICIENT_INPUT: fewer than two addresses survived geocoding and filtering
//   - NO_SOLUTION: no finite tour visits every stop
//   - PLAN_FAILED: any other failure
//   - RATE_LIMIT_EXCEEDED: too many requests from this client
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
