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

// Package requirement parses PyPI-style requirement lines such as
// "numpy >=1.15,<2", "requests[socks]==2.31.0 ; python_version>'3.7'" or
// "pkg @ https://host/pkg.whl" into a name and a specifier set.
//
// Lines that are not requirements (blank, comments, pip options) or that do
// not follow the grammar are reported as not matching instead of failing.
package requirement

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

var (
	namePattern      = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)`)
	extrasPattern    = regexp.MustCompile(`^\[([^\]]*)\]`)
	specifierPattern = regexp.MustCompile(`^(~=|===|==|!=|<=|>=|<|>)\s*([^\s,;()]+)$`)
)

// Specifier is one version clause, e.g. ">=1.15".
type Specifier struct {
	Operator string `json:"operator" yaml:"operator"`
	Version  string `json:"version" yaml:"version"`
}

// String renders the clause without whitespace.
func (s Specifier) String() string {
	return s.Operator + s.Version
}

// Requirement is a parsed requirement line.
type Requirement struct {
	Name       string      `json:"name" yaml:"name"`
	Extras     []string    `json:"extras,omitempty" yaml:"extras,omitempty"`
	Specifiers []Specifier `json:"specifiers,omitempty" yaml:"specifiers,omitempty"`
	Marker     string      `json:"marker,omitempty" yaml:"marker,omitempty"`
	URL        string      `json:"url,omitempty" yaml:"url,omitempty"`
}

// Specs renders the specifier set as a comma-joined string with clauses in
// sorted order. It is empty when the requirement carries no constraint.
func (r *Requirement) Specs() string {
	parts := make([]string, 0, len(r.Specifiers))
	for _, s := range r.Specifiers {
		parts = append(parts, s.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// PinnedVersion returns the version when the specifier set is a single exact
// pin ("==1.2.3" or "===1.2.3"). Wildcard pins are not exact.
func (r *Requirement) PinnedVersion() (string, bool) {
	if len(r.Specifiers) != 1 {
		return "", false
	}
	s := r.Specifiers[0]
	if (s.Operator != "==" && s.Operator != "===") || strings.Contains(s.Version, "*") {
		return "", false
	}
	return s.Version, true
}

// Parse parses a single requirement line. The boolean is false when the line
// is not a requirement.
func Parse(line string) (*Requirement, bool) {
	text := stripComment(line)
	if text == "" || strings.HasPrefix(text, "-") {
		return nil, false
	}

	req := &Requirement{}

	if head, marker, found := strings.Cut(text, ";"); found {
		req.Marker = strings.TrimSpace(marker)
		if req.Marker == "" {
			return nil, false
		}
		text = strings.TrimSpace(head)
	}

	m := namePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	req.Name = m[1]
	rest := strings.TrimSpace(text[len(m[0]):])

	if em := extrasPattern.FindStringSubmatch(rest); em != nil {
		for _, e := range strings.Split(em[1], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		rest = strings.TrimSpace(rest[len(em[0]):])
	}

	if url, found := strings.CutPrefix(rest, "@"); found {
		req.URL = strings.TrimSpace(url)
		if req.URL == "" || strings.ContainsAny(req.URL, " \t") {
			return nil, false
		}
		return req, true
	}

	specs, ok := parseSpecifiers(rest)
	if !ok {
		return nil, false
	}
	req.Specifiers = specs
	return req, true
}

// parseSpecifiers parses "(>=1.0, <2)" or ">=1.0,<2". Empty input is an
// empty, valid set.
func parseSpecifiers(text string) ([]Specifier, bool) {
	if strings.HasPrefix(text, "(") {
		if !strings.HasSuffix(text, ")") {
			return nil, false
		}
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if text == "" {
		return nil, true
	}

	var specs []Specifier
	for _, clause := range strings.Split(text, ",") {
		m := specifierPattern.FindStringSubmatch(strings.TrimSpace(clause))
		if m == nil {
			return nil, false
		}
		s := Specifier{Operator: m[1], Version: m[2]}
		if _, err := pep440.NewSpecifiers(s.String()); err != nil {
			slog.Debug("invalid version specifier", "specifier", s.String(), "error", err)
			return nil, false
		}
		specs = append(specs, s)
	}
	return specs, true
}

func stripComment(line string) string {
	text := strings.TrimSpace(line)
	if strings.HasPrefix(text, "#") {
		return ""
	}
	if i := strings.Index(text, " #"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
