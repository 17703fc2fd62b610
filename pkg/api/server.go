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
	"log/slog"
	"net/http"

	"github.com/condakit/condameta/pkg/logging"
	"github.com/condakit/condameta/pkg/server"
)

const name = "condametad"

// Build metadata, set with
// -ldflags "-X github.com/condakit/condameta/pkg/api.version=1.0.0".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Routes returns the API routes served by condametad.
func Routes(h *Handler) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/parse":   h.HandleParse,
		"/v1/resolve": h.HandleResolve,
	}
}

// NewServer returns a server with the API routes registered. opts run
// first, so a WithConfig still gets the API name, version and routes.
func NewServer(opts ...server.Option) *server.Server {
	return server.New(append(opts,
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(Routes(NewHandler(version))),
	)...)
}

// Serve runs condametad until SIGINT or SIGTERM.
func Serve() error {
	return ServeContext(context.Background())
}

// ServeContext runs condametad until ctx is canceled or a signal arrives.
func ServeContext(ctx context.Context) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting", "name", name, "version", version, "commit", commit, "date", date)

	if err := NewServer().Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}
