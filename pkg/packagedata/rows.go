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
	"strconv"
	"strings"
)

var (
	fileColumns = []string{
		"path", "type", "datasource_ids", "root", "scan_errors",
	}
	packageColumns = []string{
		"package__purl", "package__type", "package__name", "package__version",
		"package__download_url", "package__homepage_url", "package__vcs_url",
		"package__sha256", "package__extracted_license_statement", "package__description",
	}
	dependencyColumns = []string{
		"dependency__purl", "dependency__extracted_requirement", "dependency__scope",
		"dependency__is_runtime", "dependency__is_optional", "dependency__is_pinned",
		"dependency__is_direct",
	}
)

// Columns returns the flattened column names used by Rows.
func Columns() []string {
	cols := make([]string, 0, len(fileColumns)+len(packageColumns)+len(dependencyColumns))
	cols = append(cols, fileColumns...)
	cols = append(cols, packageColumns...)
	return append(cols, dependencyColumns...)
}

// Rows flattens the scan into one row per file, one per package and one per
// dependency, every row keyed by path.
func (r *ScanResult) Rows() ([]string, [][]string) {
	var rows [][]string
	for _, f := range r.Files {
		row := make([]string, len(Columns()))
		copy(row, []string{
			f.Path, f.Type, strings.Join(f.DatasourceIDs, "\n"), f.Root, strings.Join(f.ScanErrors, "\n"),
		})
		rows = append(rows, row)
		rows = append(rows, packageRows(f.Path, f.PackageData)...)
	}
	return Columns(), rows
}

// Rows flattens a single parsed document the same way ScanResult does.
func (d *Document) Rows() ([]string, [][]string) {
	return Columns(), packageRows(d.Source, d.PackageData)
}

func packageRows(path string, pkgs []PackageData) [][]string {
	var rows [][]string
	offset := len(fileColumns)
	depOffset := offset + len(packageColumns)

	for _, p := range pkgs {
		row := make([]string, len(Columns()))
		row[0] = path
		copy(row[offset:], []string{
			p.Purl, p.Type, p.Name, p.Version,
			p.DownloadURL, p.HomepageURL, p.VcsURL,
			p.SHA256, p.ExtractedLicenseStatement, p.Description,
		})
		rows = append(rows, row)

		for _, d := range p.Dependencies {
			dep := make([]string, len(Columns()))
			dep[0] = path
			dep[offset] = p.Purl
			req := ""
			if d.ExtractedRequirement != nil {
				req = *d.ExtractedRequirement
			}
			copy(dep[depOffset:], []string{
				d.Purl, req, d.Scope,
				strconv.FormatBool(d.IsRuntime), strconv.FormatBool(d.IsOptional),
				strconv.FormatBool(d.IsPinned), strconv.FormatBool(d.IsDirect),
			})
			rows = append(rows, dep)
		}
	}
	return rows
}
