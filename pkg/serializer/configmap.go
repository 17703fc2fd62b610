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
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/condakit/condameta/pkg/defaults"
	"github.com/condakit/condameta/pkg/header"
	"github.com/condakit/condameta/pkg/k8s/client"
)

const (
	// configMapDataPrefix names the data entry holding a serialized document,
	// e.g. result.yaml.
	configMapDataPrefix = "result"
	fieldManager        = "condameta"
)

// ConfigMapRef identifies a ConfigMap and optionally one of its data keys.
type ConfigMapRef struct {
	Namespace string
	Name      string
	Key       string
}

// ParseConfigMapURI parses cm://namespace/name or cm://namespace/name/key.
func ParseConfigMapURI(uri string) (ConfigMapRef, error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 3)
	if len(parts) < 2 {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	ref := ConfigMapRef{
		Namespace: strings.TrimSpace(parts[0]),
		Name:      strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		ref.Key = strings.TrimSpace(parts[2])
		if ref.Key == "" {
			return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: key cannot be empty")
		}
	}

	if ref.Namespace == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if ref.Name == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}

	return ref, nil
}

// ConfigMapWriter writes serialized data to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    client.Interface
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
	}
}

// WithClient sets the Kubernetes client instead of the shared default.
func (w *ConfigMapWriter) WithClient(c client.Interface) *ConfigMapWriter {
	w.client = c
	return w
}

// Serialize writes doc to the ConfigMap. The ConfigMap will have:
//   - data.result.{json|yaml|txt|csv}: the serialized document
//   - data.format: the format used
//   - data.timestamp: when the document was produced
func (w *ConfigMapWriter) Serialize(ctx context.Context, doc any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	k8sClient := w.client
	if k8sClient == nil {
		c, _, err := client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		k8sClient = c
	}

	content, err := Encode(w.format, doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	kind := header.KindScanResult.String()
	version := "unknown"
	timestamp := time.Now().UTC().Format(time.RFC3339)

	if h, ok := doc.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		metadata := h.GetMetadata()
		if v := metadata[header.MetadataVersion]; v != "" {
			version = v
		}
		if ts := metadata[header.MetadataTimestamp]; ts != "" {
			timestamp = ts
		}
	}

	data := map[string]string{
		fmt.Sprintf("%s.%s", configMapDataPrefix, w.format.Extension()): string(content),
		"format":    string(w.format),
		"timestamp": timestamp,
	}

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "condameta",
			"app.kubernetes.io/component": strings.ToLower(kind),
			"app.kubernetes.io/version":   version,
		}).
		WithData(data)

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format)

	_, err = k8sClient.CoreV1().ConfigMaps(w.namespace).Apply(
		writeCtx,
		configMap,
		metav1.ApplyOptions{
			FieldManager: fieldManager,
			Force:        true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}

	return nil
}

// Close is a no-op for ConfigMapWriter as there are no resources to release.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// readConfigMap returns the data entry named by ref.Key. Without a key the
// ConfigMap must hold exactly one entry other than format and timestamp, or
// a result.* entry.
func readConfigMap(ctx context.Context, k8sClient client.Interface, ref ConfigMapRef) (string, string, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	cm, err := k8sClient.CoreV1().ConfigMaps(ref.Namespace).Get(readCtx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return "", "", fmt.Errorf("failed to get ConfigMap %s/%s: %w", ref.Namespace, ref.Name, err)
	}

	if ref.Key != "" {
		content, ok := cm.Data[ref.Key]
		if !ok {
			return "", "", fmt.Errorf("ConfigMap %s/%s has no key %q", ref.Namespace, ref.Name, ref.Key)
		}
		return ref.Key, content, nil
	}

	if f, ok := cm.Data["format"]; ok {
		key := fmt.Sprintf("%s.%s", configMapDataPrefix, Format(f).Extension())
		if content, ok := cm.Data[key]; ok {
			return key, content, nil
		}
	}

	var keys []string
	for k := range cm.Data {
		if k != "format" && k != "timestamp" {
			keys = append(keys, k)
		}
	}
	if len(keys) != 1 {
		return "", "", fmt.Errorf("ConfigMap %s/%s has %d data entries, name one with %s%s/%s/<key>",
			ref.Namespace, ref.Name, len(keys), ConfigMapURIScheme, ref.Namespace, ref.Name)
	}
	return keys[0], cm.Data[keys[0]], nil
}
