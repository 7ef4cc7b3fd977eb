// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package api

import (
	"html/template"
	"net/http"

	"github.com/tomtom215/doorknock/internal/logging"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Doorknock</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 36rem; margin: 3rem auto; padding: 0 1rem; }
  label { display: block; margin: 1rem 0 0.25rem; }
  button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
</style>
</head>
<body>
<h1>Door-to-door route planner</h1>
<p>Upload a text file with one address per line. The first address is where the route starts.</p>
<form method="post" action="/api/v1/plans?format=html" enctype="multipart/form-data">
  <label for="file">Address list (max {{.MaxKB}} KB)</label>
  <input type="file" id="file" name="file" accept=".txt,text/plain" required>
  <label for="title">Title (optional)</label>
  <input type="text" id="title" name="title" maxlength="120">
  <button type="submit">Plan route</button>
</form>
</body>
</html>
`))

// Index serves the upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ MaxKB int64 }{h.maxUploadBytes / 1024}
	if err := indexTemplate.Execute(w, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render upload form")
	}
}
