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
	"log/slog"
)

// FromFile loads a document of type T from a file path, HTTP(S) URL or
// ConfigMap URI. The format follows the path or ConfigMap key extension.
//
//	res, err := FromFile[packagedata.ScanResult]("cm://condameta/scan")
func FromFile[T any](path string) (*T, error) {
	return FromFileWithKubeconfig[T](context.Background(), path, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig for
// ConfigMap URIs. An empty kubeconfig uses default discovery.
func FromFileWithKubeconfig[T any](ctx context.Context, path, kubeconfig string) (*T, error) {
	src, err := readSource(ctx, path, kubeconfig)
	if err != nil {
		return nil, err
	}

	format := FormatFromPath(src.Name)
	slog.Debug("loading document", "path", path, "format", format)

	var v T
	if err := Decode(format, src.Data, &v); err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	return &v, nil
}
