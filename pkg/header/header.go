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

package header

import (
	"fmt"
	"time"
)

// APIVersion is the schema version stamped on every emitted document.
const APIVersion = "condameta.dev/v1"

// Well-known metadata keys.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
)

// Kind names the type of an emitted document.
type Kind string

const (
	KindPackageData      Kind = "PackageData"
	KindScanResult       Kind = "ScanResult"
	KindResolvedTemplate Kind = "ResolvedTemplate"
)

var kinds = []Kind{KindPackageData, KindScanResult, KindResolvedTemplate}

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a document kind condameta emits.
func (k Kind) IsValid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown document kind %q (want one of %v)", s, kinds)
	}
	return k, nil
}

// Header is embedded inline at the top of every emitted document.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init resets h for a new document of the given kind. The generation
// time is recorded in UTC and version is omitted when empty.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	*h = Header{
		Kind:       kind,
		APIVersion: apiVersion,
		Metadata: map[string]string{
			MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
}

// SetMetadata sets a single metadata key, allocating the map on first use.
func (h *Header) SetMetadata(key, value string) {
	if h.Metadata == nil {
		h.Metadata = map[string]string{}
	}
	h.Metadata[key] = value
}

func (h *Header) GetKind() Kind {
	return h.Kind
}

func (h *Header) GetMetadata() map[string]string {
	return h.Metadata
}

// Version returns the generator version, or "" when not recorded.
func (h *Header) Version() string {
	return h.Metadata[MetadataVersion]
}

// Timestamp returns the parsed generation time. ok is false when the
// document carries no timestamp or it is not RFC3339.
func (h *Header) Timestamp() (t time.Time, ok bool) {
	raw, found := h.Metadata[MetadataTimestamp]
	if !found {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
