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
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteErrorFromErr(w, r, err, "read failed", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{
		WithName("condametad-test"),
		WithVersion("v0.0.0-test"),
		WithHandler(map[string]http.HandlerFunc{"/echo": echoHandler}),
	}
	return New(append(base, opts...)...)
}

func serve(s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	clearServerEnv(t)
	s := newTestServer(t)

	require.NotNil(t, s.httpServer)
	require.NotNil(t, s.rateLimiter)
	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, s.config.ReadHeaderTimeout, s.httpServer.ReadHeaderTimeout)
	assert.Contains(t, s.config.Handlers, "/echo")
	assert.Contains(t, s.config.Handlers, "/", "default root handler is installed")
	assert.False(t, s.isReady(), "server is not ready before Start")
}

func TestOptions(t *testing.T) {
	clearServerEnv(t)

	t.Run("name and version", func(t *testing.T) {
		s := New(WithName("svc"), WithVersion("1.2.3"))
		assert.Equal(t, "svc", s.config.Name)
		assert.Equal(t, "1.2.3", s.config.Version)
	})

	t.Run("defaults", func(t *testing.T) {
		s := New()
		assert.Equal(t, "server", s.config.Name)
		assert.Equal(t, "undefined", s.config.Version)
	})

	t.Run("handlers merge", func(t *testing.T) {
		s := New(
			WithHandler(map[string]http.HandlerFunc{"/a": echoHandler}),
			WithHandler(map[string]http.HandlerFunc{"/b": echoHandler}),
		)
		assert.Contains(t, s.config.Handlers, "/a")
		assert.Contains(t, s.config.Handlers, "/b")
	})

	t.Run("config replaces defaults", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Port = 9191
		cfg.Name = "from-config"
		s := New(WithConfig(cfg))
		assert.Equal(t, ":9191", s.httpServer.Addr)
		assert.Equal(t, "from-config", s.config.Name)
	})

	t.Run("nil config ignored", func(t *testing.T) {
		s := New(WithConfig(nil))
		require.NotNil(t, s.config)
		assert.Equal(t, 8080, s.config.Port)
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, statusHealthy, resp.Status)
	assert.Equal(t, "v0.0.0-test", resp.Version)
	assert.NotEmpty(t, resp.Uptime)

	w = serve(s, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, statusNotReady, resp.Status)
	assert.NotEmpty(t, resp.Reason)

	s.setReady(true)
	w = serve(s, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, statusReady, resp.Status)
}

func TestRootIndex(t *testing.T) {
	s := newTestServer(t)
	s.setReady(true)

	w := serve(s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp indexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "condametad-test", resp.Name)
	assert.Equal(t, "v0.0.0-test", resp.Version)
	assert.True(t, resp.Ready)
	assert.Equal(t, []string{"/echo", "/health", "/ready", "/metrics"}, resp.Routes)
}

func TestRootIndexErrors(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodDelete, "/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = serve(s, http.MethodGet, "/no/such/route", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "/no/such/route", resp.Details["path"])
	assert.NotEmpty(t, resp.RequestID)
}

func TestCustomRootHandlerKept(t *testing.T) {
	custom := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}
	s := New(WithHandler(map[string]http.HandlerFunc{"/": custom}))

	w := serve(s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestAPIRouteRunsMiddleware(t *testing.T) {
	s := newTestServer(t)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "/echo", "200"))

	w := serve(s, http.MethodPost, "/echo", strings.NewReader("hello"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, DefaultAPIVersion, w.Header().Get(APIVersionHeader))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodPost, "/echo", "200"))
	assert.Equal(t, before+1, after, "request counted under its route pattern")
}

func TestSystemRoutesSkipMiddleware(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/health", nil)
	assert.Empty(t, w.Header().Get(RequestIDHeader))
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRateLimiting(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := newTestServer(t, WithConfig(cfg), WithHandler(map[string]http.HandlerFunc{"/echo": echoHandler}))

	w := serve(s, http.MethodPost, "/echo", strings.NewReader("a"))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(s, http.MethodPost, "/echo", strings.NewReader("b"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Code)
	assert.True(t, resp.Retryable)
}

func TestBodyLimitThroughMux(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxBodySize = 4
	s := newTestServer(t, WithConfig(cfg), WithHandler(map[string]http.HandlerFunc{"/echo": echoHandler}))

	w := serve(s, http.MethodPost, "/echo", strings.NewReader("too long"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	require.Eventually(t, s.isReady, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	assert.False(t, s.isReady())
}

func TestStartFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	s := New(WithConfig(cfg))

	err = s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server failed")
	assert.False(t, s.isReady())
}
