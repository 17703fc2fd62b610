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

// Package serializer writes documents in JSON, YAML, table or CSV form and
// reads documents back from files, HTTP(S) URLs and Kubernetes ConfigMaps.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "result.yaml")
//	defer w.(serializer.Closer).Close()
//	if err := w.Serialize(ctx, result); err != nil {
//		return err
//	}
//
// The output path may also be a ConfigMap URI (cm://namespace/name), in which
// case the document is applied with Server-Side Apply.
//
// CSV output requires a value implementing Tabular; packagedata.ScanResult
// and packagedata.Document both do.
//
// Reading a saved document:
//
//	res, err := serializer.FromFile[packagedata.ScanResult]("result.json")
//
// Reading a raw source document for parsing:
//
//	src, err := serializer.ReadSource(ctx, "https://host/recipe/meta.yaml")
//
// Remote sources go through a Fetcher, which caps the body at
// defaults.MaxDocumentSize and retries 429 and 5xx gateway responses.
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
