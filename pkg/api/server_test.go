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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condakit/condameta/pkg/server"
)

func TestBuildInfoDefaults(t *testing.T) {
	assert.Equal(t, "condametad", name)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}

func TestRoutes(t *testing.T) {
	routes := Routes(NewHandler("test-version"))

	require.Len(t, routes, 2)
	for _, path := range []string{"/v1/parse", "/v1/resolve"} {
		assert.NotNil(t, routes[path], path)
	}
}

func TestNewServerAcceptsOverrides(t *testing.T) {
	cfg := server.NewConfig()
	cfg.Port = 0
	assert.NotNil(t, NewServer(server.WithConfig(cfg)))
}

func TestServeContextStopsOnCancel(t *testing.T) {
	t.Setenv(server.EnvPort, "0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, ServeContext(ctx))
}
