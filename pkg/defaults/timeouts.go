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

package defaults

import "time"

// ParseHandlerTimeout bounds one parse or resolve, over HTTP or on the CLI.
const ParseHandlerTimeout = 15 * time.Second

// HTTP server.
const (
	ServerReadTimeout       = 10 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerShutdownTimeout   = 30 * time.Second
)

// HTTP client used for http(s):// sources.
const (
	HTTPClientTimeout         = 30 * time.Second
	HTTPConnectTimeout        = 5 * time.Second
	HTTPTLSHandshakeTimeout   = 5 * time.Second
	HTTPResponseHeaderTimeout = 10 * time.Second
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPKeepAlive             = 30 * time.Second
	HTTPExpectContinueTimeout = time.Second

	// HTTPRetryBackoff is the wait before the first retry of a fetch and
	// doubles on each further attempt.
	HTTPRetryBackoff = 500 * time.Millisecond
)

// Kubernetes ConfigMap sources and destinations.
const (
	ConfigMapReadTimeout  = 15 * time.Second
	ConfigMapWriteTimeout = 30 * time.Second
)

// OCIPushTimeout bounds copying one artifact to a registry.
const OCIPushTimeout = 2 * time.Minute
