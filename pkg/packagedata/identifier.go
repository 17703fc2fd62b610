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

package packagedata

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

// Package types produced by the conda handlers.
const (
	TypeConda = "conda"
	TypePyPI  = "pypi"
)

// Identifier names a package by type, optional namespace, name and optional version.
type Identifier struct {
	Type      string `json:"type" yaml:"type"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// String returns the canonical package URL.
func (id Identifier) String() string {
	name := id.Name
	if id.Type == TypePyPI {
		name = NormalizePyPIName(name)
	}
	return packageurl.NewPackageURL(id.Type, id.Namespace, name, id.Version, nil, "").ToString()
}

// NormalizePyPIName lower-cases a PyPI project name and folds underscores to
// dashes, the form package URLs use for the pypi type.
func NormalizePyPIName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
