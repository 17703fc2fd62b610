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

package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/condakit/condameta/pkg/errors"
)

func TestIsOCITarget(t *testing.T) {
	assert.True(t, IsOCITarget("oci://ghcr.io/condakit/scans"))
	assert.False(t, IsOCITarget("./scan.json"))
	assert.False(t, IsOCITarget("cm://builds/scan"))
	assert.False(t, IsOCITarget("OCI://ghcr.io/x"))
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Target
		wantRef string
	}{
		{
			name:    "registry with tag",
			in:      "oci://ghcr.io/condakit/scans:v1.2.0",
			want:    Target{Registry: "ghcr.io", Repository: "condakit/scans", Tag: "v1.2.0"},
			wantRef: "ghcr.io/condakit/scans:v1.2.0",
		},
		{
			name:    "no tag uses default in ref",
			in:      "oci://ghcr.io/condakit/scans",
			want:    Target{Registry: "ghcr.io", Repository: "condakit/scans"},
			wantRef: "ghcr.io/condakit/scans:latest",
		},
		{
			name:    "registry with port",
			in:      "oci://localhost:5000/scans:nightly",
			want:    Target{Registry: "localhost:5000", Repository: "scans", Tag: "nightly"},
			wantRef: "localhost:5000/scans:nightly",
		},
		{
			name:    "docker hub shorthand is normalized",
			in:      "oci://scans:v1",
			want:    Target{Registry: "docker.io", Repository: "library/scans", Tag: "v1"},
			wantRef: "docker.io/library/scans:v1",
		},
		{
			name:    "nested repository",
			in:      "oci://registry.example.com/team/ml/conda-scans:2026.10",
			want:    Target{Registry: "registry.example.com", Repository: "team/ml/conda-scans", Tag: "2026.10"},
			wantRef: "registry.example.com/team/ml/conda-scans:2026.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, tt.wantRef, got.Ref())
		})
	}
}

func TestParseTargetErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"local path", "./scan.json"},
		{"empty reference", "oci://"},
		{"upper case repository", "oci://ghcr.io/CondaKit/scans"},
		{"spaces", "oci://ghcr.io/conda kit/scans"},
		{"digest", "oci://ghcr.io/condakit/scans@sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(tt.in)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
		})
	}
}

func TestTargetString(t *testing.T) {
	withTag := &Target{Registry: "ghcr.io", Repository: "condakit/scans", Tag: "v1"}
	assert.Equal(t, "oci://ghcr.io/condakit/scans:v1", withTag.String())
	assert.Equal(t, "ghcr.io/condakit/scans", withTag.Name())

	bare := &Target{Registry: "ghcr.io", Repository: "condakit/scans"}
	assert.Equal(t, "oci://ghcr.io/condakit/scans", bare.String())

	// round trip
	parsed, err := ParseTarget(withTag.String())
	require.NoError(t, err)
	assert.Equal(t, withTag, parsed)
}
