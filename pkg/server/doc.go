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

// Package server provides the HTTP server shared by the condameta daemon.
//
// The server owns the ambient HTTP concerns and leaves the API surface to
// handlers registered with WithHandler:
//
//   - Rate limiting with a token bucket (golang.org/x/time/rate)
//   - Request ID propagation via the X-Request-Id header
//   - API version negotiation via application/vnd.condameta.v1+json
//   - Request body size limits
//   - Panic recovery that answers with a structured 500
//   - Prometheus RED metrics, exposed on /metrics
//   - Liveness (/health) and readiness (/ready) probes
//   - Graceful shutdown on SIGINT and SIGTERM
//
// Usage:
//
//	import (
//	    "github.com/condakit/condameta/pkg/server"
//	)
//
//	s := server.New(
//	    server.WithName("condametad"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/parse": parseHandler,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Errors are written as ErrorResponse documents. WriteErrorFromErr maps a
// pkg/errors StructuredError onto its HTTP status and retryability:
//
//	{
//	  "code": "PARSE_FAILED",
//	  "message": "document is not valid YAML",
//	  "details": {"error": "yaml: line 3: mapping values are not allowed here"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T15:04:05Z",
//	  "retryable": false
//	}
//
// Configuration comes from NewConfig. PORT, SHUTDOWN_TIMEOUT_SECONDS,
// RATE_LIMIT, RATE_LIMIT_BURST and MAX_BODY_BYTES override the defaults.
package server
