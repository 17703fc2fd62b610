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

// Package api provides the HTTP API layer for condametad.
//
// This package is a thin wrapper around pkg/server: it configures structured
// logging, registers the parse and resolve routes and delegates the server
// lifecycle to pkg/server.
//
// # Usage
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/condakit/condameta/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - POST /v1/parse   - Parse a conda datafile into PackageData records
//   - POST /v1/resolve - Resolve recipe templating and return the cleaned text
//
// System endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//   - GET /        - Route index
//
// # Query Parameters
//
//   - kind: meta, environment or auto (default auto)
//   - path: original file name; selects the handler when kind is auto
//   - format: json (default), yaml, table or csv
//
// Example:
//
//	curl -X POST "http://localhost:8080/v1/parse?kind=meta&format=yaml" \
//	  --data-binary @meta.yaml
//
// # Configuration
//
// The server is configured via environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SHUTDOWN_TIMEOUT_SECONDS: Graceful shutdown window
//   - RATE_LIMIT, RATE_LIMIT_BURST: Token bucket for API routes
//   - MAX_BODY_BYTES: Request body cap, 0 disables it
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/condakit/condameta/pkg/api.version=1.0.0'"
package api
