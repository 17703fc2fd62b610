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

// Package template performs the line-oriented variable resolution applied to
// conda recipes before they are loaded as YAML.
//
// It is not a template engine. Extract collects `{% set name = "value" %}`
// declarations into a Variables table, and Resolve substitutes
// `{{ name }}` and `{{ name|lower }}` references from that table. Every line
// that still carries template syntax after substitution is dropped, so the
// output is always free of `{{` even when the recipe used conditionals,
// loops, other filters or undeclared variables.
//
//	vars := template.Extract(text)
//	cleaned := template.Resolve(text, vars)
//
// Both functions are pure and never fail.
package template
