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

package serializer

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatTable renders flattened field/value pairs.
	FormatTable Format = "table"
	// FormatCSV renders one row per record of a Tabular document.
	FormatCSV Format = "csv"
)

var formats = []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV}

var formatByExt = map[string]Format{
	".json":  FormatJSON,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
	".csv":   FormatCSV,
	".txt":   FormatTable,
	".table": FormatTable,
}

func (f Format) IsUnknown() bool {
	for _, known := range formats {
		if f == known {
			return false
		}
	}
	return true
}

// Readable reports whether documents in this format can be decoded again.
// Table and CSV output is lossy.
func (f Format) Readable() bool {
	return f == FormatJSON || f == FormatYAML
}

// Extension returns the file extension used when storing this format.
func (f Format) Extension() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

// SupportedFormats lists the --format values in display order.
func SupportedFormats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// FormatFromPath picks a format from the file extension of p, ignoring
// case. Unknown extensions are read as JSON.
func FormatFromPath(p string) Format {
	if f, ok := formatByExt[strings.ToLower(filepath.Ext(p))]; ok {
		return f
	}
	slog.Debug("unknown file extension, assuming JSON", "path", p)
	return FormatJSON
}

func knownOrJSON(f Format) Format {
	if f.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", f)
		return FormatJSON
	}
	return f
}
