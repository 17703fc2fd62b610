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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/condakit/condameta/pkg/errors"
)

func TestLoadDocument(t *testing.T) {
	t.Run("scalars stay raw text", func(t *testing.T) {
		doc, err := LoadDocument([]byte("package:\n  name: foo\n  version: 1.10\nnoarch: true\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"package", "noarch"}, doc.Keys)
		assert.Equal(t, "1.10", doc.Map("package").String("version"))
		assert.Equal(t, "true", doc.String("noarch"))
	})

	t.Run("null values", func(t *testing.T) {
		doc, err := LoadDocument([]byte("source:\nabout: ~\n"))
		require.NoError(t, err)
		assert.Nil(t, doc.Get("source"))
		assert.Nil(t, doc.Map("about"))
		assert.Equal(t, "", doc.Map("about").String("home"))
	})

	t.Run("aliases resolve", func(t *testing.T) {
		doc, err := LoadDocument([]byte("base: &b\n  - numpy\nrun: *b\n"))
		require.NoError(t, err)
		assert.Equal(t, []any{"numpy"}, doc.List("run"))
	})

	t.Run("empty document", func(t *testing.T) {
		doc, err := LoadDocument([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("comment only document", func(t *testing.T) {
		doc, err := LoadDocument([]byte("# nothing here\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Len())
	})

	tests := []struct {
		name string
		data string
	}{
		{name: "top level sequence", data: "- a\n- b\n"},
		{name: "top level scalar", data: "hello\n"},
		{name: "malformed", data: "key: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDocument([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, cnserrors.ErrCodeParseFailed, cnserrors.CodeOf(err))
		})
	}
}

func TestMapSetKeepsFirstPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, m.Keys)
	assert.Equal(t, "3", m.String("a"))
	assert.Equal(t, 2, m.Len())
}
