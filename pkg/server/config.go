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

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/condakit/condameta/pkg/defaults"
)

// Environment variables read by NewConfig.
const (
	EnvPort            = "PORT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvRateLimit       = "RATE_LIMIT"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
	EnvMaxBodyBytes    = "MAX_BODY_BYTES"
)

const (
	defaultPort           = 8080
	defaultRateLimit      = rate.Limit(100)
	defaultRateLimitBurst = 200
)

// DefaultMaxBodySize caps request bodies accepted by API handlers.
const DefaultMaxBodySize = defaults.MaxDocumentSize

// Config holds server configuration.
type Config struct {
	// Name and Version are reported on the root route and in startup logs.
	Name    string
	Version string

	// Handlers are API routes keyed by ServeMux pattern. They run behind the
	// middleware chain; /health, /ready and /metrics do not.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	// RateLimit is requests per second across all API routes.
	RateLimit      rate.Limit
	RateLimitBurst int

	// MaxBodySize bounds request bodies. Zero or less disables the limit.
	MaxBodySize int64

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns defaults overridden by PORT, SHUTDOWN_TIMEOUT_SECONDS,
// RATE_LIMIT, RATE_LIMIT_BURST and MAX_BODY_BYTES when set.
func NewConfig() *Config {
	return parseConfig()
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func parseConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Port:              defaultPort,
		RateLimit:         defaultRateLimit,
		RateLimitBurst:    defaultRateLimitBurst,
		MaxBodySize:       DefaultMaxBodySize,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if v, ok := envInt(EnvPort); ok {
		cfg.Port = v
	}
	// match the pod's termination grace period
	if v, ok := envInt(EnvShutdownTimeout); ok && v > 0 {
		cfg.ShutdownTimeout = time.Duration(v) * time.Second
	}
	if v, ok := envInt(EnvRateLimit); ok && v > 0 {
		cfg.RateLimit = rate.Limit(v)
	}
	if v, ok := envInt(EnvRateLimitBurst); ok && v > 0 {
		cfg.RateLimitBurst = v
	}
	if v, ok := envInt(EnvMaxBodyBytes); ok {
		cfg.MaxBodySize = int64(v)
	}

	return cfg
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring invalid integer environment variable", "name", name, "value", raw)
		return 0, false
	}
	return v, true
}
