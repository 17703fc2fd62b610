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

package defaults

// Limits applied while reading and parsing source documents.
const (
	// MaxDocumentSize is the largest recipe, environment file or request
	// body accepted for parsing.
	MaxDocumentSize int64 = 4 << 20

	// MaxYAMLDepth bounds mapping and sequence nesting in a loaded
	// document. Real recipes stay well under ten levels.
	MaxYAMLDepth = 64

	// ScanParallelism is the default number of files parsed at once
	// during a directory scan.
	ScanParallelism = 8

	// HTTPFetchAttempts bounds tries for a remote source answering with a
	// transient status.
	HTTPFetchAttempts = 3
)
