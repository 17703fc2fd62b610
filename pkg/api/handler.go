// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/condakit/condameta/pkg/conda"
	"github.com/condakit/condameta/pkg/defaults"
	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/serializer"
	"github.com/condakit/condameta/pkg/server"
	"github.com/condakit/condameta/pkg/template"
)

// Handler serves the parse and resolve endpoints.
type Handler struct {
	// Version is stamped into the header of every response document.
	Version string
	// Registry selects datafile handlers; DefaultRegistry when nil.
	Registry *conda.Registry
}

// NewHandler returns a Handler backed by the default handler registry.
func NewHandler(version string) *Handler {
	return &Handler{
		Version:  version,
		Registry: conda.DefaultRegistry(),
	}
}

// HandleParse parses the request body as a conda datafile and responds with a
// PackageData document. The datafile handler is chosen by the kind query
// parameter, or by the path parameter's base name when kind is auto.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ParseHandlerTimeout)
	defer cancel()

	if !allowPost(w, r) {
		return
	}

	q := r.URL.Query()
	format, ok := requestFormat(w, r)
	if !ok {
		return
	}

	kind, err := conda.ParseKind(q.Get("kind"))
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Invalid kind", false, map[string]any{"error": err.Error()})
		return
	}

	path := q.Get("path")
	handler, found := h.resolve(kind, path)
	if !found {
		server.WriteError(w, r, http.StatusUnsupportedMediaType, cnserrors.ErrCodeUnsupported,
			"No datafile handler for request", false, map[string]any{
				"kind": string(kind),
				"path": path,
			})
		return
	}

	data, ok := readBody(w, r)
	if !ok {
		return
	}

	slog.Debug("parsing document",
		"requestID", server.RequestIDFromContext(r.Context()),
		"datasource", handler.DatasourceID(),
		"path", path,
		"bytes", len(data),
	)

	pkgs, err := handler.Parse(data)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to parse document", map[string]any{
			"datasource": handler.DatasourceID(),
		})
		return
	}

	if ctx.Err() != nil {
		server.WriteErrorFromErr(w, r, cnserrors.Wrap(cnserrors.ErrCodeTimeout,
			"Parse request timed out", ctx.Err()), "Parse request timed out", nil)
		return
	}

	respond(w, r, format, packagedata.NewDocument(path, h.Version, pkgs))
}

// HandleResolve applies template resolution to the request body and responds
// with a ResolvedTemplate document.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	format, ok := requestFormat(w, r)
	if !ok {
		return
	}

	data, ok := readBody(w, r)
	if !ok {
		return
	}

	respond(w, r, format, template.NewDocument(r.URL.Query().Get("path"), string(data), h.Version))
}

func (h *Handler) resolve(kind conda.Kind, path string) (conda.Handler, bool) {
	registry := h.Registry
	if registry == nil {
		registry = conda.DefaultRegistry()
	}
	switch kind {
	case conda.KindMeta:
		return registry.Get(conda.DatasourceMeta)
	case conda.KindEnvironment:
		return registry.Get(conda.DatasourceEnvironment)
	default:
		if path == "" {
			return nil, false
		}
		return registry.ForPath(path)
	}
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{http.MethodPost},
		})
	return false
}

func requestFormat(w http.ResponseWriter, r *http.Request) (serializer.Format, bool) {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if value == "" {
		return serializer.FormatJSON, true
	}
	format := serializer.Format(value)
	if format.IsUnknown() {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Unsupported output format", false, map[string]any{
				"format":    value,
				"supported": serializer.SupportedFormats(),
			})
		return "", false
	}
	return format, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Request body is required", false, nil)
		return nil, false
	}
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, cnserrors.ErrCodeInvalidRequest,
				"Request body too large", false, map[string]any{"limit": tooLarge.Limit})
			return nil, false
		}
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Failed to read request body", false, map[string]any{"error": err.Error()})
		return nil, false
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Request body is required", false, nil)
		return nil, false
	}
	return data, true
}

var contentTypes = map[serializer.Format]string{
	serializer.FormatYAML:  "application/x-yaml",
	serializer.FormatCSV:   "text/csv",
	serializer.FormatTable: "text/plain; charset=utf-8",
}

func respond(w http.ResponseWriter, r *http.Request, format serializer.Format, doc any) {
	if format == serializer.FormatJSON {
		serializer.RespondJSON(w, http.StatusOK, doc)
		return
	}

	if _, tabular := doc.(serializer.Tabular); format == serializer.FormatCSV && !tabular {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"CSV output is not available for this document", false, map[string]any{
				"format": string(format),
			})
		return
	}

	body, err := serializer.Encode(format, doc)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to encode response", map[string]any{
			"format": string(format),
		})
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}
