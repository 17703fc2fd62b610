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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/condakit/condameta/pkg/errors"
)

// URIScheme marks an output target as an OCI registry reference.
const URIScheme = "oci://"

// DefaultTag is pushed when a target carries no tag.
const DefaultTag = "latest"

// Target is a registry destination parsed from an oci:// output value.
type Target struct {
	Registry   string // e.g. ghcr.io, localhost:5000
	Repository string // e.g. condakit/scans
	Tag        string // empty when the reference had none
}

// IsOCITarget reports whether s uses the oci:// scheme.
func IsOCITarget(s string) bool {
	return strings.HasPrefix(s, URIScheme)
}

// ParseTarget parses oci://registry/repository[:tag]. Names are normalized
// the way docker does, so a bare "scans" becomes docker.io/library/scans.
// Digest references are rejected since a push needs a tag.
func ParseTarget(s string) (*Target, error) {
	if !IsOCITarget(s) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"OCI output requires an oci:// reference", map[string]any{"target": s})
	}

	named, err := reference.ParseNormalizedNamed(strings.TrimPrefix(s, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err).
			With("target", s)
	}
	if _, ok := named.(reference.Digested); ok {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"OCI output cannot be a digest reference", map[string]any{"target": s})
	}

	t := &Target{
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
	}
	if tagged, ok := named.(reference.Tagged); ok {
		t.Tag = tagged.Tag()
	}
	return t, nil
}

// Name returns registry/repository.
func (t *Target) Name() string {
	return t.Registry + "/" + t.Repository
}

// Ref returns registry/repository:tag with DefaultTag filled in.
func (t *Target) Ref() string {
	return fmt.Sprintf("%s:%s", t.Name(), t.tagOrDefault())
}

func (t *Target) String() string {
	if t.Tag == "" {
		return URIScheme + t.Name()
	}
	return URIScheme + t.Name() + ":" + t.Tag
}

func (t *Target) tagOrDefault() string {
	if t.Tag == "" {
		return DefaultTag
	}
	return t.Tag
}
