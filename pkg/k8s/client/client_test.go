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

package client

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: test
current-context: test
users:
- name: test
  user:
    token: abc
`

func writeKubeconfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func resetSingleton(t *testing.T) {
	t.Helper()
	reset := func() {
		clientOnce = sync.Once{}
		cachedClient, cachedConfig, clientErr = nil, nil, nil
	}
	reset()
	t.Cleanup(reset)
}

func TestResolveKubeconfig(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		assert.Equal(t, "/explicit", resolveKubeconfig("/explicit"))
	})

	t.Run("env used when no explicit path", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		assert.Equal(t, "/from/env", resolveKubeconfig(""))
	})

	t.Run("home config when present", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("KUBECONFIG", "")

		assert.Empty(t, resolveKubeconfig(""), "falls back to in-cluster")

		cfg := writeKubeconfig(t, filepath.Join(home, ".kube"), "apiVersion: v1\nkind: Config\n")
		assert.Equal(t, cfg, resolveKubeconfig(""))
	})
}

func TestBuildKubeClient(t *testing.T) {
	path := writeKubeconfig(t, t.TempDir(), testKubeconfig)

	c, config, err := BuildKubeClient(path)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "https://127.0.0.1:6443", config.Host)
	assert.Equal(t, UserAgent, config.UserAgent)
	assert.Equal(t, defaultQPS, config.QPS)
	assert.Equal(t, defaultBurst, config.Burst)
}

func TestBuildKubeClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		env      string
	}{
		{name: "explicit missing file", explicit: "/nonexistent/kubeconfig"},
		{name: "env missing file", env: "/nonexistent/env/kubeconfig"},
		{name: "explicit invalid yaml", explicit: writeKubeconfig(t, t.TempDir(), "invalid yaml content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.env)

			_, _, err := BuildKubeClient(tt.explicit)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to build kube config")
		})
	}
}

func TestGetKubeClientWithConfigIsUncached(t *testing.T) {
	path := writeKubeconfig(t, t.TempDir(), testKubeconfig)

	c1, _, err := GetKubeClientWithConfig(path)
	require.NoError(t, err)
	c2, _, err := GetKubeClientWithConfig(path)
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
}

func TestGetKubeClientSingleton(t *testing.T) {
	resetSingleton(t)
	t.Setenv("KUBECONFIG", writeKubeconfig(t, t.TempDir(), testKubeconfig))

	const callers = 10
	clients := make([]Interface, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, _, err := GetKubeClient()
			assert.NoError(t, err)
			clients[i] = c
		}()
	}
	wg.Wait()

	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}
}

func TestGetKubeClientCachesError(t *testing.T) {
	resetSingleton(t)
	t.Setenv("KUBECONFIG", "/nonexistent/kubeconfig")

	_, _, err1 := GetKubeClient()
	require.Error(t, err1)

	// a valid config appearing later does not change the cached result
	t.Setenv("KUBECONFIG", writeKubeconfig(t, t.TempDir(), testKubeconfig))
	_, _, err2 := GetKubeClient()
	assert.Same(t, err1, err2)
}
