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
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"text/tabwriter"
)

// writeTable prints every leaf of doc as a FIELD/VALUE row, keyed by the
// dotted path of json field names and sorted by key.
func writeTable(w io.Writer, doc any) error {
	leaves := map[string]any{}
	flatten(leaves, reflect.ValueOf(doc), "")
	if len(leaves) == 0 {
		_, err := io.WriteString(w, "<empty>\n")
		return err
	}

	keys := make([]string, 0, len(leaves))
	for k := range leaves {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, leaves[k])
	}
	return tw.Flush()
}

// flatten records leaf values of v under dotted keys. Embedded structs
// flatten into their parent and nil pointers become nil leaves.
func flatten(out map[string]any, v reflect.Value, key string) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			if key != "" {
				out[key] = nil
			}
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return
	}

	//nolint:exhaustive // scalars fall through to default
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			name := jsonName(f)
			if !f.IsExported() || name == "-" {
				continue
			}
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				flatten(out, v.Field(i), key)
				continue
			}
			flatten(out, v.Field(i), dotted(key, name))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			flatten(out, iter.Value(), dotted(key, fmt.Sprint(iter.Key().Interface())))
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			flatten(out, v.Index(i), dotted(key, fmt.Sprintf("[%d]", i)))
		}
	default:
		if key == "" {
			key = "value"
		}
		out[key] = v.Interface()
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func dotted(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	default:
		return prefix + "." + name
	}
}
