// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package services adapts doorknock components to suture.Service.
//
// HTTPServerService turns the blocking ListenAndServe of an *http.Server
// into a context-aware Serve, shutting the server down gracefully when the
// supervisor stops it.
package services
