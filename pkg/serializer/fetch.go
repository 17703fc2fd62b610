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

package serializer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/condakit/condameta/pkg/defaults"
)

// DefaultUserAgent is sent with every fetch unless overridden.
const DefaultUserAgent = "condameta/1.0"

// Fetcher downloads remote source documents over HTTP(S). Responses with
// a transient status (429, 502, 503, 504) are retried with exponential
// backoff.
type Fetcher struct {
	Client      *http.Client
	UserAgent   string
	MaxBodySize int64 // zero or less disables the cap
	Attempts    int
	Backoff     time.Duration
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

func WithUserAgent(ua string) FetchOption {
	return func(f *Fetcher) { f.UserAgent = ua }
}

func WithMaxBodySize(n int64) FetchOption {
	return func(f *Fetcher) { f.MaxBodySize = n }
}

// WithTotalTimeout sets the overall per-request timeout.
func WithTotalTimeout(d time.Duration) FetchOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.Client.Timeout = d
		}
	}
}

// WithRetry sets the number of attempts and the first backoff.
func WithRetry(attempts int, backoff time.Duration) FetchOption {
	return func(f *Fetcher) {
		f.Attempts, f.Backoff = max(attempts, 1), backoff
	}
}

// WithInsecureSkipVerify disables TLS verification on the default transport.
func WithInsecureSkipVerify(skip bool) FetchOption {
	return func(f *Fetcher) {
		if tr, ok := f.Client.Transport.(*http.Transport); ok && tr.TLSClientConfig != nil {
			tr.TLSClientConfig.InsecureSkipVerify = skip //nolint:gosec // opt-in for self-signed mirrors
		}
	}
}

// WithClient replaces the HTTP client. Options applied after it act on the
// supplied client.
func WithClient(c *http.Client) FetchOption {
	return func(f *Fetcher) {
		if c != nil {
			f.Client = c
		}
	}
}

// NewFetcher returns a Fetcher with the timeouts from pkg/defaults.
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		Client: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: defaultTransport(),
		},
		UserAgent:   DefaultUserAgent,
		MaxBodySize: defaults.MaxDocumentSize,
		Attempts:    defaults.HTTPFetchAttempts,
		Backoff:     defaults.HTTPRetryBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// errTransient marks a response worth retrying.
var errTransient = errors.New("transient response")

// Fetch returns the body of url. Non-200 responses and bodies over
// MaxBodySize are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("url is empty")
	}
	if f.Client == nil {
		return nil, errors.New("http client is nil")
	}

	wait := f.Backoff
	for attempt := 1; ; attempt++ {
		data, err := f.fetchOnce(ctx, url)
		if err == nil || !errors.Is(err, errTransient) || attempt >= f.Attempts {
			return data, err
		}

		slog.Debug("retrying fetch", "url", url, "attempt", attempt, "wait", wait, "error", err)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return readLimited(resp.Body, f.MaxBodySize)
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %s", errTransient, resp.Status)
	default:
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}
}

// readLimited reads all of body, failing when it exceeds limit bytes.
func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("document exceeds %d bytes", limit)
	}
	return data, nil
}
