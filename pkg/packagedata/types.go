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
	"github.com/condakit/condameta/pkg/header"
)

// DependentPackage is one direct dependency declared by a datafile.
type DependentPackage struct {
	// Purl is the rendered package URL of Identifier.
	Purl       string     `json:"purl" yaml:"purl"`
	Identifier Identifier `json:"identifier" yaml:"identifier"`

	// ExtractedRequirement is the version constraint text as found in the
	// source. Recipe and PyPI lines without a constraint carry an empty
	// string; a conda environment token without one carries nil.
	ExtractedRequirement *string `json:"extracted_requirement" yaml:"extracted_requirement"`

	Scope      string `json:"scope" yaml:"scope"`
	IsRuntime  bool   `json:"is_runtime" yaml:"is_runtime"`
	IsOptional bool   `json:"is_optional" yaml:"is_optional"`
	IsPinned   bool   `json:"is_pinned" yaml:"is_pinned"`
	IsDirect   bool   `json:"is_direct" yaml:"is_direct"`
}

// NewDependentPackage returns a direct dependency on id with its Purl filled in.
func NewDependentPackage(id Identifier, requirement *string, scope string) DependentPackage {
	return DependentPackage{
		Purl:                 id.String(),
		Identifier:           id,
		ExtractedRequirement: requirement,
		Scope:                scope,
		IsDirect:             true,
	}
}

// PackageData is the normalized record assembled from one datafile.
type PackageData struct {
	Type            string `json:"type" yaml:"type"`
	Namespace       string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Version         string `json:"version,omitempty" yaml:"version,omitempty"`
	PrimaryLanguage string `json:"primary_language,omitempty" yaml:"primary_language,omitempty"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`

	// DownloadURL holds recipe source.url, which is where the upstream
	// sources live rather than a binary download.
	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`
	HomepageURL string `json:"homepage_url,omitempty" yaml:"homepage_url,omitempty"`
	VcsURL      string `json:"vcs_url,omitempty" yaml:"vcs_url,omitempty"`
	SHA256      string `json:"sha256,omitempty" yaml:"sha256,omitempty"`

	ExtractedLicenseStatement string `json:"extracted_license_statement,omitempty" yaml:"extracted_license_statement,omitempty"`

	IsPrivate    bool               `json:"is_private" yaml:"is_private"`
	DatasourceID string             `json:"datasource_id" yaml:"datasource_id"`
	Purl         string             `json:"purl,omitempty" yaml:"purl,omitempty"`
	Dependencies []DependentPackage `json:"dependencies" yaml:"dependencies"`
	ExtraData    map[string]any     `json:"extra_data" yaml:"extra_data"`
}

// Identifier returns the package's own identifier.
func (p *PackageData) Identifier() Identifier {
	return Identifier{
		Type:      p.Type,
		Namespace: p.Namespace,
		Name:      p.Name,
		Version:   p.Version,
	}
}

// SetPurl renders Purl from the identifier fields when the package has a name.
func (p *PackageData) SetPurl() {
	if p.Name == "" {
		p.Purl = ""
		return
	}
	p.Purl = p.Identifier().String()
}

// Document wraps package data parsed from a single source for output.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Source      string        `json:"source,omitempty" yaml:"source,omitempty"`
	PackageData []PackageData `json:"package_data" yaml:"package_data"`
}

// FileResult is the outcome of parsing one file during a scan.
type FileResult struct {
	Path          string        `json:"path" yaml:"path"`
	Type          string        `json:"type" yaml:"type"`
	DatasourceIDs []string      `json:"datasource_ids,omitempty" yaml:"datasource_ids,omitempty"`
	Root          string        `json:"root,omitempty" yaml:"root,omitempty"`
	PackageData   []PackageData `json:"package_data" yaml:"package_data"`
	ScanErrors    []string      `json:"scan_errors" yaml:"scan_errors"`
}

// ScanResult is the outcome of scanning a set of paths.
type ScanResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Files []FileResult `json:"files" yaml:"files"`
}

// PackageCount returns the number of packages across all files.
func (r *ScanResult) PackageCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.PackageData)
	}
	return n
}

// ErrorCount returns the number of files that recorded scan errors.
func (r *ScanResult) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		if len(f.ScanErrors) > 0 {
			n++
		}
	}
	return n
}

// NewDocument wraps pkgs parsed from source in a PackageData document.
func NewDocument(source, version string, pkgs []PackageData) *Document {
	if pkgs == nil {
		pkgs = []PackageData{}
	}
	d := &Document{
		Source:      source,
		PackageData: pkgs,
	}
	d.Init(header.KindPackageData, header.APIVersion, version)
	return d
}
