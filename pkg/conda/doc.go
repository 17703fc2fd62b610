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

// Package conda extracts package metadata from conda environment files
// (environment.yaml) and conda-build recipes (meta.yaml).
//
// Recipes go through a crude template pass first (see package template),
// then both forms are loaded as YAML and projected onto
// packagedata.PackageData. Dependency tokens are parsed by a small grammar
// that understands channel prefixes ("conda-forge::numpy"), conda "=" pins,
// PyPI-style specifier sets and embedded pip sub-lists.
//
// Parsing one document:
//
//	h, _ := conda.HandlerForKind(conda.KindMeta)
//	pkgs, err := h.Parse(data)
//
// Matching a path during a scan:
//
//	if h, ok := conda.HandlerForPath("recipe/meta.yaml"); ok {
//	    root := conda.RecipeRoot("recipe/meta.yaml")
//	}
//
// Reserved names ("pip" and "python") never become dependencies. Environment
// files drop them; recipes keep the raw tokens under extra_data keyed by scope.
package conda
