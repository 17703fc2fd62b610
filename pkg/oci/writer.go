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

package oci

import (
	"context"
	"fmt"

	apperrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/serializer"
)

var mediaTypes = map[serializer.Format]string{
	serializer.FormatJSON:  "application/json",
	serializer.FormatYAML:  "application/yaml",
	serializer.FormatCSV:   "text/csv",
	serializer.FormatTable: "text/plain",
}

// MediaTypeFor returns the layer media type for a serializer format.
func MediaTypeFor(format serializer.Format) string {
	if mt, ok := mediaTypes[format]; ok {
		return mt
	}
	return "application/octet-stream"
}

type publishFunc func(context.Context, *Target, Artifact, PublishOptions) (*Result, error)

// Writer is a serializer.Serializer that encodes a document and publishes
// it to a registry in one call.
type Writer struct {
	target   *Target
	format   serializer.Format
	version  string
	baseName string
	opts     PublishOptions
	publish  publishFunc

	// Result holds the outcome of the last successful push.
	Result *Result
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

func WithPlainHTTP(plain bool) WriterOption {
	return func(w *Writer) { w.opts.PlainHTTP = plain }
}

func WithInsecureTLS(insecure bool) WriterOption {
	return func(w *Writer) { w.opts.InsecureTLS = insecure }
}

// WithLayoutDir keeps a local OCI Image Layout copy of each push.
func WithLayoutDir(dir string) WriterOption {
	return func(w *Writer) { w.opts.LayoutDir = dir }
}

// WithBaseName sets the layer file name without extension.
func WithBaseName(name string) WriterOption {
	return func(w *Writer) {
		if name != "" {
			w.baseName = name
		}
	}
}

// NewWriter returns a Writer pushing to target, an oci:// reference. An
// unknown format falls back to JSON.
func NewWriter(target string, format serializer.Format, version string, opts ...WriterOption) (*Writer, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}
	if format.IsUnknown() {
		format = serializer.FormatJSON
	}

	w := &Writer{
		target:   t,
		format:   format,
		version:  version,
		baseName: "result",
		publish:  Publish,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Target returns the parsed destination.
func (w *Writer) Target() *Target {
	return w.target
}

// Serialize encodes doc and pushes it as a single-layer artifact.
func (w *Writer) Serialize(ctx context.Context, doc any) error {
	data, err := serializer.Encode(w.format, doc)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to encode document as %s", w.format), err)
	}

	res, err := w.publish(ctx, w.target, Artifact{
		Data:        data,
		FileName:    w.baseName + "." + w.format.Extension(),
		MediaType:   MediaTypeFor(w.format),
		Annotations: DefaultAnnotations(w.version),
	}, w.opts)
	if err != nil {
		return err
	}

	w.Result = res
	return nil
}

// Close is a no-op; each Serialize call is a complete push.
func (w *Writer) Close() error {
	return nil
}
