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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Writer serializes documents to an io.Writer. Writers returned by
// NewFileWriterOrStdout own their file and must be closed.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter returns a Writer on output, or stdout when output is nil. An
// unknown format falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: knownOrJSON(format), output: output}
}

func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout picks a destination for path: stdout when empty, a
// ConfigMap for cm://namespace/name, otherwise a file. A file that cannot be
// created or an invalid ConfigMap URI falls back to stdout.
func NewFileWriterOrStdout(format Format, path string) Serializer {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return NewStdoutWriter(format)
	case strings.HasPrefix(path, ConfigMapURIScheme):
		ref, err := ParseConfigMapURI(path)
		if err != nil {
			slog.Error("invalid ConfigMap URI, writing to stdout", "error", err, "uri", path)
			return NewStdoutWriter(format)
		}
		return NewConfigMapWriter(ref.Namespace, ref.Name, format)
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create output file, writing to stdout", "error", err, "path", path)
		return NewStdoutWriter(format)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w
}

// Close releases the output file, if any. Safe to call more than once.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Serialize writes doc in the configured format.
func (w *Writer) Serialize(_ context.Context, doc any) error {
	content, err := Encode(w.format, doc)
	if err != nil {
		return err
	}
	if _, err := w.output.Write(content); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteToFile writes data to path with 0644 permissions.
func WriteToFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output files are meant to be readable
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
