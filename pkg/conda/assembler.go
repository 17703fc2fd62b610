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

package conda

import (
	"github.com/condakit/condameta/pkg/packagedata"
)

const (
	// DatasourceEnvironment identifies records read from environment files.
	DatasourceEnvironment = "conda_yaml"

	// DatasourceMeta identifies records read from recipe meta.yaml files.
	DatasourceMeta = "conda_meta_yaml"

	primaryLanguage = "Python"
	channelsKey     = "channels"
)

// AssembleRecipe projects a loaded recipe onto a package record.
func AssembleRecipe(doc *Map) packagedata.PackageData {
	pkg := doc.Map("package")
	source := doc.Map("source")
	about := doc.Map("about")

	deps, reserved := ParseRecipeRequirements(doc.Map("requirements"))

	extra := make(map[string]any, len(reserved))
	for scope, tokens := range reserved {
		extra[scope] = tokens
	}

	p := packagedata.PackageData{
		Type:                      packagedata.TypeConda,
		Name:                      pkg.String("name"),
		Version:                   pkg.String("version"),
		DownloadURL:               source.String("url"),
		SHA256:                    source.String("sha256"),
		HomepageURL:               about.String("home"),
		ExtractedLicenseStatement: about.String("license"),
		Description:               about.String("summary"),
		VcsURL:                    about.String("dev_url"),
		DatasourceID:              DatasourceMeta,
		Dependencies:              deps,
		ExtraData:                 extra,
	}
	p.SetPurl()
	return p
}

// AssembleEnvironment projects a loaded environment file onto a package
// record. ok is false when the file has neither a name nor any dependency.
func AssembleEnvironment(doc *Map) (packagedata.PackageData, bool) {
	deps := ParseEnvironmentDependencies(doc.List("dependencies"))
	name := doc.String("name")
	if name == "" && len(deps) == 0 {
		return packagedata.PackageData{}, false
	}

	extra := make(map[string]any)
	if channels := stringList(doc.List(channelsKey)); len(channels) > 0 {
		extra[channelsKey] = channels
	}

	p := packagedata.PackageData{
		Type:            packagedata.TypeConda,
		Name:            name,
		PrimaryLanguage: primaryLanguage,
		IsPrivate:       true,
		DatasourceID:    DatasourceEnvironment,
		Dependencies:    deps,
		ExtraData:       extra,
	}
	p.SetPurl()
	return p, true
}

func stringList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
