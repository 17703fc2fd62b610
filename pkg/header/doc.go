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

// Package header provides the common header carried by every document
// condameta emits: package data, scan results and resolved templates.
//
// The header follows Kubernetes resource conventions: Kind, APIVersion and a
// flat Metadata map. ParseKind validates kinds read back from storage.
//
// # Usage
//
//	var h header.Header
//	h.Init(header.KindScanResult, header.APIVersion, version)
//	h.SetMetadata("files_count", "12")
//
// Readers use Version and Timestamp rather than indexing Metadata.
//
// # Serialization
//
//	{
//	  "kind": "ScanResult",
//	  "apiVersion": "condameta.dev/v1",
//	  "metadata": {
//	    "timestamp": "2025-12-30T10:30:00Z",
//	    "version": "v0.3.0"
//	  }
//	}
//
// Timestamps use RFC3339 in UTC.
package header
