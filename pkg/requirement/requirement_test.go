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

package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantOK     bool
		wantName   string
		wantSpecs  string
		wantExtras []string
		wantMarker string
		wantURL    string
	}{
		{name: "bare name", line: "numpy", wantOK: true, wantName: "numpy"},
		{name: "spaced specifier", line: "numpy >=1.0", wantOK: true, wantName: "numpy", wantSpecs: ">=1.0"},
		{name: "compact pin", line: "requests==2.31.0", wantOK: true, wantName: "requests", wantSpecs: "==2.31.0"},
		{name: "space after operator", line: "pandas >= 1.5", wantOK: true, wantName: "pandas", wantSpecs: ">=1.5"},
		{name: "sorted set", line: "numpy>=1.15,<2", wantOK: true, wantName: "numpy", wantSpecs: "<2,>=1.15"},
		{name: "parenthesized", line: "numpy (>=1.15, <2)", wantOK: true, wantName: "numpy", wantSpecs: "<2,>=1.15"},
		{name: "compatible release", line: "attrs~=23.1", wantOK: true, wantName: "attrs", wantSpecs: "~=23.1"},
		{
			name: "extras and marker", line: "requests[socks, security]==2.31.0 ; python_version > '3.7'",
			wantOK: true, wantName: "requests", wantSpecs: "==2.31.0",
			wantExtras: []string{"socks", "security"}, wantMarker: "python_version > '3.7'",
		},
		{name: "dotted name", line: "ruamel.yaml>=0.17", wantOK: true, wantName: "ruamel.yaml", wantSpecs: ">=0.17"},
		{name: "trailing comment", line: "flask==3.0.0  # web", wantOK: true, wantName: "flask", wantSpecs: "==3.0.0"},
		{name: "url form", line: "mypkg @ https://example.com/mypkg-1.0.whl", wantOK: true, wantName: "mypkg", wantURL: "https://example.com/mypkg-1.0.whl"},
		{name: "conda single equals", line: "numpy=1.15.4", wantOK: false},
		{name: "conda fuzzy version", line: "numpy 1.15.*", wantOK: false},
		{name: "empty", line: "   ", wantOK: false},
		{name: "comment", line: "# nothing", wantOK: false},
		{name: "pip option", line: "-r requirements.txt", wantOK: false},
		{name: "editable", line: "-e .", wantOK: false},
		{name: "unclosed paren", line: "numpy (>=1.0", wantOK: false},
		{name: "empty marker", line: "numpy ;", wantOK: false},
		{name: "invalid version", line: "numpy>=1.0$$", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := Parse(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, req)
				return
			}
			assert.Equal(t, tt.wantName, req.Name)
			assert.Equal(t, tt.wantSpecs, req.Specs())
			assert.Equal(t, tt.wantExtras, req.Extras)
			assert.Equal(t, tt.wantMarker, req.Marker)
			assert.Equal(t, tt.wantURL, req.URL)
		})
	}
}

func TestPinnedVersion(t *testing.T) {
	tests := []struct {
		line       string
		wantPinned bool
		wantVer    string
	}{
		{"numpy==1.15.4", true, "1.15.4"},
		{"numpy===1.15.4", true, "1.15.4"},
		{"numpy==1.15.*", false, ""},
		{"numpy>=1.15", false, ""},
		{"numpy>=1.0,==1.15", false, ""},
		{"numpy", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			req, ok := Parse(tt.line)
			require.True(t, ok)
			v, pinned := req.PinnedVersion()
			assert.Equal(t, tt.wantPinned, pinned)
			assert.Equal(t, tt.wantVer, v)
		})
	}
}
