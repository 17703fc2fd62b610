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
	"github.com/condakit/condameta/pkg/header"
)

// Document is a resolved recipe together with the variables that drove it.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	Variables Variables `json:"variables" yaml:"variables"`
	Stats     Stats     `json:"stats" yaml:"stats"`
	Text      string    `json:"text" yaml:"text"`
}

// NewDocument extracts variables from text, resolves it and wraps the
// outcome in a ResolvedTemplate document.
func NewDocument(source, text, version string) *Document {
	vars := Extract(text)
	resolved, stats := ResolveWithStats(text, vars)

	d := &Document{
		Source:    source,
		Variables: vars,
		Stats:     stats,
		Text:      resolved,
	}
	d.Init(header.KindResolvedTemplate, header.APIVersion, version)
	return d
}
