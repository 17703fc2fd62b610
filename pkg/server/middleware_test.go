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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newMiddlewareServer(cfg *Config) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Server{
		config:      cfg,
		rateLimiter: rate.NewLimiter(cfg.RateLimit, cfg.RateLimitBurst),
	}
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newMiddlewareServer(nil)
	valid := "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"valid uuid kept", valid, true},
		{"invalid id replaced", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			h(w, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err, "request id is a uuid")
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

func TestVersionMiddleware(t *testing.T) {
	s := newMiddlewareServer(nil)

	var seen string
	h := s.versionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		seen = APIVersionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)
	req.Header.Set("Accept", "application/vnd.condameta.v1+json")
	w := httptest.NewRecorder()
	h(w, req)

	assert.Equal(t, "v1", seen)
	assert.Equal(t, "v1", w.Header().Get(APIVersionHeader))
}

func TestAPIVersionFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultAPIVersion, APIVersionFromContext(req.Context()))
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 2
	s := newMiddlewareServer(cfg)
	h := s.rateLimitMiddleware(okHandler)

	before := testutil.ToFloat64(rateLimitRejects)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitRejects))
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := newMiddlewareServer(nil)

	t.Run("string panic", func(t *testing.T) {
		h := s.panicRecoveryMiddleware(func(http.ResponseWriter, *http.Request) {
			panic("handler exploded")
		})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL")
	})

	t.Run("error panic", func(t *testing.T) {
		h := s.panicRecoveryMiddleware(func(http.ResponseWriter, *http.Request) {
			panic(errors.New("nil map write"))
		})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no panic", func(t *testing.T) {
		h := s.panicRecoveryMiddleware(okHandler)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestBodyLimitMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxBodySize = 8
	s := newMiddlewareServer(cfg)

	var readErr error
	h := s.bodyLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("declared oversized body rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("0123456789")))
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "Request body too large")
	})

	t.Run("undeclared oversized body capped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("0123456789"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		h(w, req)

		var maxErr *http.MaxBytesError
		require.ErrorAs(t, readErr, &maxErr)
		assert.Equal(t, int64(8), maxErr.Limit)
	})

	t.Run("small body passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("name: x")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, readErr)
	})

	t.Run("disabled limit", func(t *testing.T) {
		open := newMiddlewareServer(&Config{MaxBodySize: 0, RateLimit: 1, RateLimitBurst: 1})
		w := httptest.NewRecorder()
		open.bodyLimitMiddleware(okHandler)(w,
			httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := newStatusRecorder(w)

	assert.Equal(t, http.StatusOK, rec.Status(), "defaults to 200")

	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusTeapot)
	n, err := rec.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusAccepted, rec.Status(), "first status wins")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 5, rec.BytesWritten())
	assert.Same(t, rec, newStatusRecorder(rec), "recorders are not nested")
	assert.Equal(t, http.ResponseWriter(w), rec.Unwrap())
}

func TestMiddlewareChain(t *testing.T) {
	s := newMiddlewareServer(nil)

	var requestID, version string
	h := s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		requestID = RequestIDFromContext(r.Context())
		version = APIVersionFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("x")))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, DefaultAPIVersion, version)
	assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
	assert.Equal(t, DefaultAPIVersion, w.Header().Get(APIVersionHeader))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}
