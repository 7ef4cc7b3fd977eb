// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

/*
Package supervisor runs the long-lived parts of "doorknock serve" under a
suture v4 supervisor tree.

	RootSupervisor ("doorknock")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold is
exceeded. Cancelling the context passed to Serve stops every service, each
within ShutdownTimeout.

Supervisor events are logged through sutureslog, which takes a *slog.Logger.
Pass logging.NewSlogLogger() so they land in the zerolog output:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	return tree.Serve(ctx)
*/
package supervisor
