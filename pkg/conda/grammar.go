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
	"log/slog"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/requirement"
)

const (
	// EnvironmentScope is the scope of every environment file dependency.
	EnvironmentScope = "dependencies"

	namespaceSeparator = "::"
	pinSeparator       = "="
	operatorChars      = "<>!~="
	pipKey             = "pip"
)

var reservedNames = map[string]struct{}{
	"pip":    {},
	"python": {},
}

// IsReserved reports whether name is a tool or interpreter that is never
// recorded as an ordinary dependency.
func IsReserved(name string) bool {
	_, ok := reservedNames[strings.ToLower(name)]
	return ok
}

// Dependency is one item of an environment dependency list: either a
// StringDependency or a PipListDependency.
type Dependency interface {
	isDependency()
}

// StringDependency is a single token such as "conda-forge::numpy=1.15.4".
type StringDependency string

// PipListDependency holds the requirement lines of a {pip: [...]} item.
type PipListDependency []string

func (StringDependency) isDependency()  {}
func (PipListDependency) isDependency() {}

// ClassifyDependency turns a loaded list item into its Dependency variant.
// Items that are neither a string nor a mapping with a pip list are not
// dependencies.
func ClassifyDependency(item any) (Dependency, bool) {
	switch v := item.(type) {
	case string:
		return StringDependency(v), true
	case *Map:
		raw := v.List(pipKey)
		if raw == nil {
			return nil, false
		}
		lines := make(PipListDependency, 0, len(raw))
		for _, l := range raw {
			s, ok := l.(string)
			if !ok {
				slog.Debug("skipping non-string pip requirement", "value", l)
				continue
			}
			lines = append(lines, s)
		}
		return lines, true
	default:
		return nil, false
	}
}

// ParseEnvironmentDependencies parses the flat dependency list of an
// environment file. Output order follows source order. Reserved names are
// dropped.
func ParseEnvironmentDependencies(items []any) []packagedata.DependentPackage {
	deps := make([]packagedata.DependentPackage, 0, len(items))

	for _, item := range items {
		dep, ok := ClassifyDependency(item)
		if !ok {
			slog.Debug("skipping unrecognized dependency item", "value", item)
			continue
		}

		switch d := dep.(type) {
		case StringDependency:
			rec := parseStringDependency(string(d))
			if rec.Identifier.Name == "" {
				slog.Debug("skipping empty dependency", "value", string(d))
				continue
			}
			deps = appendUnreserved(deps, rec)
		case PipListDependency:
			for _, line := range d {
				if rec, ok := parsePipRequirement(line); ok {
					deps = appendUnreserved(deps, rec)
				}
			}
		}
	}

	return deps
}

func appendUnreserved(deps []packagedata.DependentPackage, rec packagedata.DependentPackage) []packagedata.DependentPackage {
	if IsReserved(rec.Identifier.Name) {
		return deps
	}
	return append(deps, rec)
}

// parseStringDependency tries the PyPI requirement grammar first and falls
// back to the conda "name=version" notation.
func parseStringDependency(token string) packagedata.DependentPackage {
	namespace, rest := splitNamespace(strings.TrimSpace(token))
	if strings.ContainsAny(namespace, "/:") {
		namespace = ""
	}

	if rec, ok := parsePipRequirement(rest); ok {
		return rec
	}

	namePart, expression := splitToken(rest)
	name, version, constraint, pinned := splitConstraint(namePart)
	id := packagedata.Identifier{
		Type:      packagedata.TypeConda,
		Namespace: namespace,
		Name:      name,
	}

	var extracted *string
	if pinned {
		id.Version = version
		extracted = ptr.To(constraint)
	} else if e := joinExpressions(constraint, expression); e != "" {
		extracted = ptr.To(e)
	}

	return newRuntimeDependency(id, extracted, pinned)
}

// parsePipRequirement parses a line only through the PyPI grammar.
func parsePipRequirement(line string) (packagedata.DependentPackage, bool) {
	req, ok := requirement.Parse(line)
	if !ok {
		slog.Debug("not a requirement line", "line", line)
		return packagedata.DependentPackage{}, false
	}

	id := packagedata.Identifier{
		Type: packagedata.TypePyPI,
		Name: req.Name,
	}
	version, pinned := req.PinnedVersion()
	if pinned {
		id.Version = version
	}

	return newRuntimeDependency(id, ptr.To(req.Specs()), pinned), true
}

func newRuntimeDependency(id packagedata.Identifier, extracted *string, pinned bool) packagedata.DependentPackage {
	dep := packagedata.NewDependentPackage(id, extracted, EnvironmentScope)
	dep.IsRuntime = true
	dep.IsOptional = false
	dep.IsPinned = pinned
	return dep
}

// ParseRecipeRequirements parses a recipe requirements mapping of scope name
// to token list. Scopes are visited in source order. Reserved names are
// returned per scope as their raw tokens instead of becoming dependencies.
func ParseRecipeRequirements(requirements *Map) ([]packagedata.DependentPackage, map[string][]string) {
	deps := make([]packagedata.DependentPackage, 0)
	reserved := make(map[string][]string)

	if requirements == nil {
		return deps, reserved
	}

	for _, scope := range requirements.Keys {
		for _, item := range requirements.List(scope) {
			token, ok := item.(string)
			if !ok {
				slog.Debug("skipping non-string requirement", "scope", scope, "value", item)
				continue
			}

			dep, name := parseScopedToken(token, scope)
			if name == "" {
				slog.Debug("skipping empty requirement", "scope", scope, "value", token)
				continue
			}
			if IsReserved(name) {
				reserved[scope] = append(reserved[scope], token)
				continue
			}
			deps = append(deps, dep)
		}
	}

	return deps, reserved
}

// parseScopedToken parses "name [expression]" where name may carry a channel
// prefix and a constraint such as "=1.0" or ">=3.6". A pin in the name wins
// over the expression.
func parseScopedToken(token, scope string) (packagedata.DependentPackage, string) {
	namePart, expression := splitToken(strings.TrimSpace(token))
	namespace, namePart := splitNamespace(namePart)
	name, version, constraint, pinned := splitConstraint(namePart)

	id := packagedata.Identifier{
		Type:      packagedata.TypeConda,
		Namespace: namespace,
		Name:      name,
	}

	if pinned {
		id.Version = version
		expression = constraint
	} else {
		expression = joinExpressions(constraint, expression)
		if v, found := strings.CutPrefix(expression, "=="); found {
			id.Version = firstClause(v)
		}
	}

	dep := packagedata.NewDependentPackage(id, ptr.To(expression), scope)
	dep.IsRuntime = strings.Contains(scope, "run")
	dep.IsOptional = !dep.IsRuntime
	dep.IsPinned = pinned
	return dep, id.Name
}

// splitNamespace splits once on "::". The namespace is empty when absent.
func splitNamespace(token string) (string, string) {
	namespace, rest, found := strings.Cut(token, namespaceSeparator)
	if !found {
		return "", token
	}
	return namespace, rest
}

// splitToken splits on the first run of whitespace.
func splitToken(token string) (string, string) {
	i := strings.IndexAny(token, " \t")
	if i < 0 {
		return token, ""
	}
	return token[:i], strings.TrimSpace(token[i:])
}

// splitConstraint splits a name part at its first operator character.
// Only "=" and "==" pin: "numpy=1.15.4=build" gives version 1.15.4 and
// constraint "=1.15.4", the build string is ignored. Any other operator, as
// in "python>=3.6", keeps the name and returns the operator and value as the
// constraint. A token without an operator, or with nothing around it, is
// returned whole as the name.
func splitConstraint(token string) (name, version, constraint string, pinned bool) {
	i := strings.IndexAny(token, operatorChars)
	if i <= 0 {
		return token, "", "", false
	}
	name, rest := token[:i], token[i:]

	j := 0
	for j < len(rest) && strings.IndexByte(operatorChars, rest[j]) >= 0 {
		j++
	}
	op, value := rest[:j], rest[j:]
	if value == "" {
		return token, "", "", false
	}

	switch op {
	case pinSeparator, pinSeparator + pinSeparator:
		version, _, _ = strings.Cut(value, pinSeparator)
		if version == "" {
			return token, "", "", false
		}
		return name, version, pinSeparator + version, true
	default:
		return name, "", rest, false
	}
}

// joinExpressions comma-joins the non-empty constraint clauses.
func joinExpressions(clauses ...string) string {
	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, ",")
}

func firstClause(expression string) string {
	v, _, _ := strings.Cut(expression, ",")
	return strings.TrimSpace(v)
}
