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

// Package cli implements the condameta command-line interface.
//
// # Overview
//
// condameta turns conda build recipes (meta.yaml) and conda environment
// files (environment.yaml) into normalized package records: name, version,
// purl, license, URLs and dependencies with their scopes.
//
// # Commands
//
// parse - Parse a single datafile:
//
//	condameta parse meta.yaml [--kind meta|environment|auto] [--format json|yaml|table|csv]
//
// scan - Walk paths and parse every recognized datafile concurrently:
//
//	condameta scan ./recipes [--parallel 8] [--output scan.json]
//
// resolve - Print a recipe after template variable substitution:
//
//	condameta resolve meta.yaml [--raw]
//
// convert - Re-render a saved scan result:
//
//	condameta convert --input scan.json --format csv
//
// # Sources and Destinations
//
// Inputs may be file paths, HTTP/HTTPS URLs or ConfigMap URIs
// (cm://namespace/name[/key]). Outputs go to stdout by default, or to a file,
// a ConfigMap (cm://namespace/name) or an OCI registry
// (oci://registry/repository:tag) via --output.
//
// # Environment
//
//   - CONDAMETA_LOG_LEVEL: log level (debug, info, warn, error)
//   - CONDAMETA_OUTPUT: default --output
//   - CONDAMETA_FORMAT: default --format
//   - CONDAMETA_PARALLEL: default scan parallelism
//   - KUBECONFIG: kubeconfig for ConfigMap sources and destinations
package cli
