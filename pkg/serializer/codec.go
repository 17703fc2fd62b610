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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode renders doc in the given format.
func Encode(format Format, doc any) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatTable:
		err = writeTable(&buf, doc)
	case FormatCSV:
		err = writeCSV(&buf, doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Decode parses data in the given format into v.
func Decode(format Format, data []byte, v any) error {
	if !format.Readable() {
		return fmt.Errorf("%s format does not support deserialization", format)
	}

	var err error
	if format == FormatJSON {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return nil
}

func writeCSV(buf *bytes.Buffer, doc any) error {
	tab, ok := doc.(Tabular)
	if !ok {
		return fmt.Errorf("csv output is not supported for %T", doc)
	}

	columns, rows := tab.Rows()
	cw := csv.NewWriter(buf)
	if err := cw.Write(columns); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}
