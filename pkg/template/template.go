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

package template

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	statementOpen  = "{%"
	statementClose = "%}"
	referenceOpen  = "{{"
	assignOp       = "="
	setKeyword     = "set"
	quoteChars     = `"'`
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// {{ name }} or {{ name|lower }}, whitespace tolerant
	referencePattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*(\|\s*lower\s*)?\}\}`)
)

// Variables maps declared variable names to their literal values.
type Variables map[string]string

// Stats describes what a Resolve pass did to a document.
type Stats struct {
	Declarations  int `json:"declarations" yaml:"declarations"`
	Substitutions int `json:"substitutions" yaml:"substitutions"`
	Dropped       int `json:"dropped" yaml:"dropped"`
}

// IsDeclaration reports whether line is a variable-declaration statement:
// once trimmed it opens with {% and closes with %} and contains an
// assignment operator.
func IsDeclaration(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, statementOpen) &&
		strings.HasSuffix(trimmed, statementClose) &&
		strings.Contains(trimmed, assignOp)
}

// Extract scans text for declaration lines and returns the declared
// variables. A later declaration of the same name overwrites an earlier one.
// Values are taken literally; one variable is never expanded into another.
func Extract(text string) Variables {
	vars := make(Variables)
	for _, line := range strings.Split(text, "\n") {
		if !IsDeclaration(line) {
			continue
		}
		name, value, ok := parseDeclaration(line)
		if !ok {
			slog.Debug("skipping unparsable declaration", "line", strings.TrimSpace(line))
			continue
		}
		vars[name] = value
	}
	return vars
}

// parseDeclaration splits `{% set name = "value" %}` into name and value.
func parseDeclaration(line string) (string, string, bool) {
	body := strings.TrimSpace(line)
	body = strings.TrimPrefix(body, statementOpen)
	body = strings.TrimSuffix(body, statementClose)
	// whitespace control markers: {%- ... -%}
	body = strings.TrimSpace(strings.Trim(body, "-"))

	if rest, found := strings.CutPrefix(body, setKeyword); found {
		if rest == "" || !isSpace(rest[0]) {
			// an identifier that merely starts with "set"
			rest = body
		}
		body = strings.TrimSpace(rest)
	}

	name, value, found := strings.Cut(body, assignOp)
	if !found {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if !identifierPattern.MatchString(name) {
		return "", "", false
	}
	return name, strings.Trim(strings.TrimSpace(value), quoteChars), true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// Resolve returns text with declaration lines removed, known references
// substituted and every line still holding a reference or statement marker
// dropped. Surviving lines keep their relative order.
func Resolve(text string, vars Variables) string {
	out, _ := ResolveWithStats(text, vars)
	return out
}

// ResolveWithStats is Resolve that also reports what was consumed,
// substituted and dropped.
func ResolveWithStats(text string, vars Variables) (string, Stats) {
	var stats Stats
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if IsDeclaration(line) {
			stats.Declarations++
			continue
		}

		resolved, n := substitute(line, vars)
		stats.Substitutions += n

		if strings.Contains(resolved, referenceOpen) || strings.Contains(resolved, statementOpen) {
			slog.Debug("dropping unresolved template line", "line", strings.TrimSpace(line))
			stats.Dropped++
			continue
		}
		kept = append(kept, resolved)
	}

	return strings.Join(kept, "\n"), stats
}

// substitute replaces references to known variables in a single line and
// returns the number of replacements made. Unknown names are left in place.
func substitute(line string, vars Variables) (string, int) {
	if !strings.Contains(line, referenceOpen) || len(vars) == 0 {
		return line, 0
	}

	count := 0
	out := referencePattern.ReplaceAllStringFunc(line, func(ref string) string {
		m := referencePattern.FindStringSubmatch(ref)
		value, ok := vars[m[1]]
		if !ok {
			return ref
		}
		count++
		if m[2] != "" {
			return lower(value)
		}
		return value
	})
	return out, count
}

// lower applies the |lower filter. A Caser is stateful, so one is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
