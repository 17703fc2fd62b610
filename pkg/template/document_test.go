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

package template

import (
	"testing"

	"github.com/condakit/condameta/pkg/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument("meta.yaml", recipe, "1.0.0")
	require.NotNil(t, d)

	assert.Equal(t, header.KindResolvedTemplate, d.GetKind())
	assert.Equal(t, header.APIVersion, d.APIVersion)
	assert.Equal(t, "1.0.0", d.GetMetadata()["version"])
	assert.NotEmpty(t, d.GetMetadata()["timestamp"])

	assert.Equal(t, "meta.yaml", d.Source)
	assert.Equal(t, "cortexpy", d.Variables["name"])
	assert.Equal(t, "0.45.7", d.Variables["version"])
	assert.Equal(t, 3, d.Stats.Declarations)
	assert.Equal(t, Resolve(recipe, Extract(recipe)), d.Text)
	assert.NotContains(t, d.Text, "{{")
}

func TestNewDocumentWithoutDeclarations(t *testing.T) {
	d := NewDocument("", "name: plain\n", "")

	assert.Empty(t, d.Variables)
	assert.Equal(t, "name: plain\n", d.Text)
	_, hasVersion := d.GetMetadata()["version"]
	assert.False(t, hasVersion)
}
