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

package conda

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/condakit/condameta/pkg/errors"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestMetaHandlerParse(t *testing.T) {
	before := testutil.ToFloat64(documentsParsed.WithLabelValues(DatasourceMeta, "success"))

	pkgs, err := MetaHandler{}.Parse(readFixture(t, "meta.yaml"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	p := pkgs[0]
	assert.Equal(t, "conda", p.Type)
	assert.Equal(t, "cortexpy", p.Name)
	assert.Equal(t, "0.45.7", p.Version)
	assert.Equal(t, "https://pypi.io/packages/source/c/cortexpy/cortexpy-0.45.7.tar.gz", p.DownloadURL)
	assert.Equal(t, "bc7512f2eef785b037d836f4cc6faded457ac277f75c6e34eccd12da7c85258f", p.SHA256)
	assert.Equal(t, "https://github.com/winni2k/cortexpy", p.HomepageURL)
	assert.Equal(t, "https://github.com/winni2k/cortexpy", p.VcsURL)
	assert.Equal(t, "Apache-2.0", p.ExtractedLicenseStatement)
	assert.Equal(t, "cortexpy is a Python package for analyzing Mccortex graphs", p.Description)
	assert.Equal(t, DatasourceMeta, p.DatasourceID)
	assert.Equal(t, "pkg:conda/cortexpy@0.45.7", p.Purl)
	assert.False(t, p.IsPrivate)

	assert.Equal(t, []string{"mccortex", "numpy", "pandas"}, names(p.Dependencies))
	assert.Equal(t, "pkg:conda/mccortex@1.0", p.Dependencies[0].Purl)
	assert.Equal(t, "pkg:conda/conda-forge/numpy@1.15.4", p.Dependencies[1].Purl)
	assert.True(t, p.Dependencies[1].IsPinned)

	assert.Equal(t, map[string]any{
		"host": []string{"python >=3.6", "pip"},
		"run":  []string{"python >=3.6"},
	}, p.ExtraData)

	after := testutil.ToFloat64(documentsParsed.WithLabelValues(DatasourceMeta, "success"))
	assert.Equal(t, before+1, after)
}

func TestMetaHandlerParseMinimal(t *testing.T) {
	pkgs, err := MetaHandler{}.Parse([]byte("package:\n  name: bwa\n"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "bwa", pkgs[0].Name)
	assert.Empty(t, pkgs[0].Dependencies)
	assert.NotNil(t, pkgs[0].ExtraData)
}

func TestMetaHandlerParseFailure(t *testing.T) {
	_, err := MetaHandler{}.Parse([]byte("package:\n  name: [broken\n"))
	require.Error(t, err)
	assert.Equal(t, cnserrors.ErrCodeParseFailed, cnserrors.CodeOf(err))
}

func TestEnvironmentHandlerParse(t *testing.T) {
	pkgs, err := EnvironmentHandler{}.Parse(readFixture(t, "environment.yaml"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	p := pkgs[0]
	assert.Equal(t, "myenv", p.Name)
	assert.Equal(t, "Python", p.PrimaryLanguage)
	assert.True(t, p.IsPrivate)
	assert.Equal(t, DatasourceEnvironment, p.DatasourceID)
	assert.Equal(t, "pkg:conda/myenv", p.Purl)
	assert.Equal(t, map[string]any{"channels": []string{"conda-forge", "defaults"}}, p.ExtraData)

	assert.Equal(t, []string{"numpy", "pandas", "requests", "Flask_Cors"}, names(p.Dependencies))
	for _, d := range p.Dependencies {
		assert.Equal(t, EnvironmentScope, d.Scope)
		assert.True(t, d.IsRuntime)
	}
}

func TestEnvironmentHandlerParseEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty file", data: ""},
		{name: "channels only", data: "channels:\n  - defaults\n"},
		{name: "only reserved", data: "dependencies:\n  - python=3.9\n  - pip\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs, err := EnvironmentHandler{}.Parse([]byte(tt.data))
			require.NoError(t, err)
			assert.Empty(t, pkgs)
		})
	}
}

func TestEnvironmentHandlerNameOnly(t *testing.T) {
	pkgs, err := EnvironmentHandler{}.Parse([]byte("name: base\n"))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Empty(t, pkgs[0].Dependencies)
	assert.Empty(t, pkgs[0].ExtraData)
}

func TestIsDatafile(t *testing.T) {
	tests := []struct {
		path     string
		wantMeta bool
		wantEnv  bool
	}{
		{path: "recipe/meta.yaml", wantMeta: true},
		{path: "meta.yaml", wantMeta: true},
		{path: "environment.yaml", wantEnv: true},
		{path: "ci/environment-dev.yml", wantEnv: true},
		{path: "conda.yaml", wantEnv: true},
		{path: "test-env.yaml", wantEnv: true},
		{path: "setup.py"},
		{path: "environment.json"},
		{path: "environment/readme.md"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.wantMeta, MetaHandler{}.IsDatafile(tt.path))
			assert.Equal(t, tt.wantEnv, EnvironmentHandler{}.IsDatafile(tt.path))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{DatasourceEnvironment, DatasourceMeta}, r.List())

	h, ok := r.ForPath("pkg/info/recipe/meta.yaml")
	require.True(t, ok)
	assert.Equal(t, DatasourceMeta, h.DatasourceID())

	h, ok = r.ForPath("environment.yml")
	require.True(t, ok)
	assert.Equal(t, DatasourceEnvironment, h.DatasourceID())

	_, ok = r.ForPath("pyproject.toml")
	assert.False(t, ok)

	err := r.Register(MetaHandler{})
	assert.Error(t, err)
	assert.Panics(t, func() { r.MustRegister(EnvironmentHandler{}) })
}

func TestResolveHandler(t *testing.T) {
	h, ok := ResolveHandler(KindEnvironment, "meta.yaml")
	require.True(t, ok)
	assert.Equal(t, DatasourceEnvironment, h.DatasourceID())

	h, ok = ResolveHandler(KindAuto, "meta.yaml")
	require.True(t, ok)
	assert.Equal(t, DatasourceMeta, h.DatasourceID())

	_, ok = ResolveHandler("", "notes.txt")
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindAuto},
		{in: "auto", want: KindAuto},
		{in: "META", want: KindMeta},
		{in: " environment ", want: KindEnvironment},
		{in: "pyproject", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipeRoot(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "numpy-1.15.4/info/recipe.tar-extract/recipe/meta.yaml", want: "numpy-1.15.4"},
		{path: "pkgs/bwa/info/recipe/recipe/meta.yaml", want: "pkgs/bwa"},
		{path: "src/repo/conda.recipe/meta.yaml", want: "src/repo"},
		{path: "conda.recipe/meta.yaml", want: "."},
		{path: "recipes/bwa/meta.yaml", want: "recipes/bwa"},
		{path: "myconda.recipe/meta.yaml", want: "myconda.recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), RecipeRoot(filepath.FromSlash(tt.path)))
		})
	}
}
