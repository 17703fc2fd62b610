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

// Package packagedata defines the normalized records produced by the conda
// datafile handlers: package identifiers, dependent packages, package data
// and whole-scan results.
//
// Identifiers render as package URLs through github.com/package-url/packageurl-go:
//
//	id := packagedata.Identifier{Type: "conda", Namespace: "conda-forge", Name: "numpy", Version: "1.15.4"}
//	id.String() // pkg:conda/conda-forge/numpy@1.15.4
//
// Every record is built fresh for one document; nothing here is shared or
// cached across parses.
package packagedata
