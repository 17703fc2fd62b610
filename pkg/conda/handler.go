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

package conda

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/template"
)

// Kind selects a handler by document form rather than by path.
type Kind string

const (
	KindMeta        Kind = "meta"
	KindEnvironment Kind = "environment"
	KindAuto        Kind = "auto"
)

const documentationURL = "https://docs.conda.io/"

// Handler parses one kind of conda datafile.
type Handler interface {
	DatasourceID() string
	Description() string
	DocumentationURL() string
	PathPatterns() []string
	IsDatafile(p string) bool
	Parse(data []byte) ([]packagedata.PackageData, error)
}

// EnvironmentHandler parses environment.yaml style files.
type EnvironmentHandler struct{}

func (EnvironmentHandler) DatasourceID() string     { return DatasourceEnvironment }
func (EnvironmentHandler) Description() string      { return "Conda yaml manifest" }
func (EnvironmentHandler) DocumentationURL() string { return documentationURL }

func (EnvironmentHandler) PathPatterns() []string {
	return []string{
		"*conda*.yaml", "*env*.yaml", "*environment*.yaml",
		"*conda*.yml", "*env*.yml", "*environment*.yml",
	}
}

func (h EnvironmentHandler) IsDatafile(p string) bool {
	return matchBase(p, h.PathPatterns())
}

// Parse loads the file as-is; environment files carry no templating.
func (h EnvironmentHandler) Parse(data []byte) ([]packagedata.PackageData, error) {
	doc, err := LoadDocument(data)
	if err != nil {
		documentsParsed.WithLabelValues(DatasourceEnvironment, "error").Inc()
		return nil, err
	}

	p, ok := AssembleEnvironment(doc)
	documentsParsed.WithLabelValues(DatasourceEnvironment, "success").Inc()
	if !ok {
		return []packagedata.PackageData{}, nil
	}
	dependenciesExtracted.WithLabelValues(DatasourceEnvironment).Add(float64(len(p.Dependencies)))
	return []packagedata.PackageData{p}, nil
}

// MetaHandler parses conda-build recipe meta.yaml files.
type MetaHandler struct{}

func (MetaHandler) DatasourceID() string     { return DatasourceMeta }
func (MetaHandler) Description() string      { return "Conda meta.yml manifest" }
func (MetaHandler) DocumentationURL() string { return documentationURL }
func (MetaHandler) PathPatterns() []string   { return []string{"meta.yaml"} }

func (h MetaHandler) IsDatafile(p string) bool {
	return matchBase(p, h.PathPatterns())
}

// Parse resolves recipe templating before loading.
func (h MetaHandler) Parse(data []byte) ([]packagedata.PackageData, error) {
	text := string(data)
	resolved, stats := template.ResolveWithStats(text, template.Extract(text))
	templateLinesDropped.Add(float64(stats.Dropped))

	doc, err := LoadDocument([]byte(resolved))
	if err != nil {
		documentsParsed.WithLabelValues(DatasourceMeta, "error").Inc()
		return nil, err
	}

	p := AssembleRecipe(doc)
	documentsParsed.WithLabelValues(DatasourceMeta, "success").Inc()
	dependenciesExtracted.WithLabelValues(DatasourceMeta).Add(float64(len(p.Dependencies)))

	slog.Debug("parsed recipe",
		"name", p.Name,
		"dependencies", len(p.Dependencies),
		"template_declarations", stats.Declarations,
		"template_dropped", stats.Dropped)

	return []packagedata.PackageData{p}, nil
}

func matchBase(p string, patterns []string) bool {
	base := path.Base(filepath.ToSlash(p))
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Registry holds handlers keyed by datasource id. Lookup by path tries
// handlers in registration order.
type Registry struct {
	handlers map[string]Handler
	order    []string
	mu       sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// DefaultRegistry returns a Registry with the recipe and environment
// handlers. The recipe handler is tried first.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(MetaHandler{})
	r.MustRegister(EnvironmentHandler{})
	return r
}

// Register adds h. It fails when the datasource id is already taken.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := h.DatasourceID()
	if _, exists := r.handlers[id]; exists {
		return fmt.Errorf("handler %s already registered", id)
	}
	r.handlers[id] = h
	r.order = append(r.order, id)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(h Handler) {
	if err := r.Register(h); err != nil {
		panic(err)
	}
}

// Get returns the handler for a datasource id.
func (r *Registry) Get(datasourceID string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[datasourceID]
	return h, ok
}

// ForPath returns the first handler that recognizes p.
func (r *Registry) ForPath(p string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if h := r.handlers[id]; h.IsDatafile(p) {
			return h, true
		}
	}
	return nil, false
}

// List returns the registered datasource ids, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

var defaultRegistry = DefaultRegistry()

// HandlerForPath looks p up in the default registry.
func HandlerForPath(p string) (Handler, bool) {
	return defaultRegistry.ForPath(p)
}

// HandlerForKind returns the handler for an explicit document kind.
// KindAuto has no handler of its own.
func HandlerForKind(kind Kind) (Handler, bool) {
	switch kind {
	case KindMeta:
		return defaultRegistry.Get(DatasourceMeta)
	case KindEnvironment:
		return defaultRegistry.Get(DatasourceEnvironment)
	default:
		return nil, false
	}
}

// ResolveHandler picks a handler by kind, falling back to the path when kind
// is empty or auto.
func ResolveHandler(kind Kind, p string) (Handler, bool) {
	if kind == "" || kind == KindAuto {
		return HandlerForPath(p)
	}
	return HandlerForKind(kind)
}

// ParseKind validates a kind flag value.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindAuto:
		return KindAuto, nil
	case KindMeta, KindEnvironment:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported kind %q, expected one of %s, %s, %s", s, KindMeta, KindEnvironment, KindAuto)
	}
}

var recipeLayouts = []string{
	"info/recipe.tar-extract/recipe/meta.yaml",
	"info/recipe/recipe/meta.yaml",
	"conda.recipe/meta.yaml",
}

// RecipeRoot returns the package root for a meta.yaml path. Recipes stored
// under an extracted package's info/ directory or a source repository's
// conda.recipe/ directory belong to the directory above that layout;
// anything else belongs to its parent directory.
func RecipeRoot(p string) string {
	slashed := filepath.ToSlash(p)
	for _, layout := range recipeLayouts {
		if slashed != layout && !strings.HasSuffix(slashed, "/"+layout) {
			continue
		}
		root := p
		for range strings.Split(layout, "/") {
			root = filepath.Dir(root)
		}
		return root
	}
	return filepath.Dir(p)
}
