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

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/condakit/condameta/pkg/conda"
	"github.com/condakit/condameta/pkg/defaults"
	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/header"
	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/serializer"
)

const fileType = "file"

// Scanner parses every conda datafile found under a set of paths.
type Scanner struct {
	// Version is recorded in the result header.
	Version string

	// Registry selects handlers by path. If nil, conda.DefaultRegistry is used.
	Registry *conda.Registry

	// Parallelism bounds concurrent file parsing. Zero uses defaults.ScanParallelism.
	Parallelism int

	// Serializer receives the result in Run. If nil, JSON is written to stdout.
	Serializer serializer.Serializer
}

// Run scans paths and serializes the result.
func (s *Scanner) Run(ctx context.Context, paths []string) error {
	res, err := s.Scan(ctx, paths)
	if err != nil {
		return err
	}

	ser := s.Serializer
	if ser == nil {
		ser = serializer.NewStdoutWriter(serializer.FormatJSON)
	}
	if err := ser.Serialize(ctx, res); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize scan result", err)
	}
	return nil
}

// Scan walks paths and parses the datafiles it finds.
func (s *Scanner) Scan(ctx context.Context, paths []string) (*packagedata.ScanResult, error) {
	if len(paths) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "at least one path is required")
	}

	registry := s.Registry
	if registry == nil {
		registry = conda.DefaultRegistry()
	}

	start := time.Now()
	defer func() {
		scanDuration.Observe(time.Since(start).Seconds())
	}()

	files, err := collect(paths, registry)
	if err != nil {
		return nil, err
	}

	slog.Debug("scanning files", "count", len(files), "paths", len(paths))

	limit := s.Parallelism
	if limit <= 0 {
		limit = defaults.ScanParallelism
	}

	results := make([]packagedata.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(gctx, registry, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeTimeout, "scan timed out", err)
		}
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "scan aborted", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	res := &packagedata.ScanResult{Files: results}
	res.Init(header.KindScanResult, header.APIVersion, s.Version)
	res.SetMetadata("files_count", strconv.Itoa(len(results)))
	res.SetMetadata("scan_id", uuid.NewString())

	slog.Debug("scan complete",
		"files", len(results),
		"packages", res.PackageCount(),
		"errors", res.ErrorCount())

	return res, nil
}

// collect expands paths into the sorted, de-duplicated list of files to
// parse.
func collect(paths []string, registry *conda.Registry) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(p string) {
		clean := filepath.Clean(p)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, cnserrors.Wrap(cnserrors.ErrCodeNotFound, "path not found", err).With("path", root)
			}
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to stat path", err).With("path", root)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				slog.Warn("skipping unreadable path", "path", p, "error", walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if _, ok := registry.ForPath(p); ok && d.Type().IsRegular() {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to walk directory", err,
				map[string]any{"path": root})
		}
	}

	sort.Strings(files)
	return files, nil
}

// scanFile parses one file. Errors are recorded on the result.
func scanFile(ctx context.Context, registry *conda.Registry, path string) packagedata.FileResult {
	res := packagedata.FileResult{
		Path:        filepath.ToSlash(path),
		Type:        fileType,
		PackageData: []packagedata.PackageData{},
		ScanErrors:  []string{},
	}

	h, ok := registry.ForPath(path)
	if !ok {
		scanFilesTotal.WithLabelValues("unsupported").Inc()
		res.ScanErrors = append(res.ScanErrors,
			cnserrors.New(cnserrors.ErrCodeUnsupported, "no datafile handler recognizes this file").Error())
		return res
	}

	res.DatasourceIDs = []string{h.DatasourceID()}
	if h.DatasourceID() == conda.DatasourceMeta {
		res.Root = filepath.ToSlash(conda.RecipeRoot(path))
	} else {
		res.Root = filepath.ToSlash(filepath.Dir(path))
	}

	src, err := serializer.ReadSource(ctx, path)
	if err != nil {
		scanFilesTotal.WithLabelValues("error").Inc()
		res.ScanErrors = append(res.ScanErrors, err.Error())
		return res
	}

	pkgs, err := h.Parse(src.Data)
	if err != nil {
		scanFilesTotal.WithLabelValues("error").Inc()
		slog.Debug("failed to parse datafile", "path", path, "error", err)
		res.ScanErrors = append(res.ScanErrors, fmt.Sprintf("%s: %v", h.DatasourceID(), err))
		return res
	}

	scanFilesTotal.WithLabelValues("parsed").Inc()
	res.PackageData = pkgs
	return res
}
