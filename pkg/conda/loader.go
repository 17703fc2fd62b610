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
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/condakit/condameta/pkg/defaults"
	cnserrors "github.com/condakit/condameta/pkg/errors"
)

// Map is a YAML mapping that remembers key order.
type Map struct {
	Keys   []string
	Values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{Values: make(map[string]any)}
}

// Set stores value under key. A repeated key keeps its first position and
// the last value.
func (m *Map) Set(key string, value any) {
	if _, exists := m.Values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = value
}

// Get returns the raw value for key.
func (m *Map) Get(key string) any {
	if m == nil {
		return nil
	}
	return m.Values[key]
}

// String returns the scalar value for key or "" when absent or not a scalar.
func (m *Map) String(key string) string {
	s, _ := m.Get(key).(string)
	return s
}

// Map returns the nested mapping for key or nil.
func (m *Map) Map(key string) *Map {
	nested, _ := m.Get(key).(*Map)
	return nested
}

// List returns the sequence for key or nil.
func (m *Map) List(key string) []any {
	list, _ := m.Get(key).([]any)
	return list
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// LoadDocument loads YAML text into nested *Map, []any, string and nil
// values. Scalars are kept as their source text so that versions such as
// 1.10 are not turned into numbers. An empty document yields an empty Map.
func LoadDocument(data []byte) (*Map, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMap(), nil
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeParseFailed, "failed to load YAML document", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return NewMap(), nil
		}
		node = node.Content[0]
	}

	value, err := convertNode(node, 0)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *Map:
		return v, nil
	case nil:
		return NewMap(), nil
	default:
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeParseFailed,
			"document top level is not a mapping", map[string]any{
				"kind": fmt.Sprintf("%T", value),
			})
	}
}

func convertNode(node *yaml.Node, depth int) (any, error) {
	if depth > defaults.MaxYAMLDepth {
		return nil, cnserrors.New(cnserrors.ErrCodeParseFailed, "document nesting too deep")
	}

	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, nil
		}
		return convertNode(node.Alias, depth+1)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := convertNode(child, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind == yaml.AliasNode && key.Alias != nil {
				key = key.Alias
			}
			v, err := convertNode(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			if key.Tag == "!!merge" {
				if merged, ok := v.(*Map); ok {
					for _, k := range merged.Keys {
						if _, exists := m.Values[k]; !exists {
							m.Set(k, merged.Values[k])
						}
					}
				}
				continue
			}
			m.Set(key.Value, v)
		}
		return m, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertNode(node.Content[0], depth+1)
	default:
		return nil, nil
	}
}
