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
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/condakit/condameta/pkg/defaults"
	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/k8s/client"
)

// Source is a raw document and the name used to pick a handler or format
// for it: the file path, the URL path, or the ConfigMap key.
type Source struct {
	Name string
	Data []byte
}

// newKubeClient is replaced in tests.
var newKubeClient = kubeClient

// kubeClient returns the shared client or one built from kubeconfig.
func kubeClient(kubeconfig string) (client.Interface, error) {
	if kubeconfig == "" {
		c, _, err := client.GetKubeClient()
		return c, err
	}
	c, _, err := client.GetKubeClientWithConfig(kubeconfig)
	return c, err
}

// ReadSource reads a raw document from a file path, an http(s) URL or a
// cm://namespace/name[/key] URI. Documents larger than
// defaults.MaxDocumentSize are rejected.
func ReadSource(ctx context.Context, source string) (*Source, error) {
	return readSource(ctx, source, "")
}

// ReadSourceWithKubeconfig is ReadSource with an explicit kubeconfig.
func ReadSourceWithKubeconfig(ctx context.Context, source, kubeconfig string) (*Source, error) {
	return readSource(ctx, source, kubeconfig)
}

func readSource(ctx context.Context, source, kubeconfig string) (*Source, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "source is empty")
	}

	switch {
	case strings.HasPrefix(source, ConfigMapURIScheme):
		return readConfigMapSource(ctx, source, kubeconfig)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return readHTTPSource(ctx, source)
	default:
		return readFileSource(source)
	}
}

func readFileSource(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "source file not found", err,
				map[string]any{"path": path})
		}
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to stat source file", err,
			map[string]any{"path": path})
	}
	if info.IsDir() {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "source is a directory",
			map[string]any{"path": path})
	}
	if info.Size() > defaults.MaxDocumentSize {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "source file too large",
			map[string]any{"path": path, "size": info.Size(), "limit": defaults.MaxDocumentSize})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to read source file", err,
			map[string]any{"path": path})
	}
	return &Source{Name: path, Data: data}, nil
}

func readHTTPSource(ctx context.Context, rawURL string) (*Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid source URL", err)
	}

	data, err := NewFetcher().Fetch(ctx, rawURL)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to fetch source", err,
			map[string]any{"url": rawURL})
	}
	return &Source{Name: u.Path, Data: data}, nil
}

func readConfigMapSource(ctx context.Context, uri, kubeconfig string) (*Source, error) {
	ref, err := ParseConfigMapURI(uri)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid ConfigMap URI", err)
	}

	var k8sClient client.Interface
	if k8sClient, err = newKubeClient(kubeconfig); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "kubernetes unavailable", err)
	}

	key, content, err := readConfigMap(ctx, k8sClient, ref)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound, "failed to read ConfigMap source", err,
			map[string]any{"uri": uri})
	}
	if int64(len(content)) > defaults.MaxDocumentSize {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "ConfigMap document too large",
			map[string]any{"uri": uri})
	}
	return &Source{Name: key, Data: []byte(content)}, nil
}
