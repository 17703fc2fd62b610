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

// Package oci publishes condameta documents to OCI-compliant registries.
//
// A serialized document (typically a scan result) is stored as a single-layer
// OCI 1.1 artifact using ORAS (OCI Registry As Storage). Any registry that
// accepts artifacts works: GHCR, ECR, Harbor, a local registry:2, and so on.
//
// # Overview
//
//   - ParseTarget: validates an oci://registry/repository[:tag] output value
//   - Publish: packs an Artifact in memory and copies it to the registry,
//     optionally keeping an OCI Image Layout copy on disk
//   - Writer: a serializer.Serializer that encodes and publishes in one call
//
// # Usage
//
//	w, err := oci.NewWriter("oci://ghcr.io/condakit/scans:nightly", serializer.FormatJSON, version)
//	if err != nil {
//	    return err
//	}
//	if err := w.Serialize(ctx, result); err != nil {
//	    return err
//	}
//
// A target without a tag is pushed as DefaultTag.
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) using the ORAS credentials package.
//
// # Artifact Type
//
// Artifacts carry the artifact type "application/vnd.condameta.document.v1".
// The layer media type follows the output format (application/json,
// application/yaml, text/csv or text/plain) and the layer title annotation
// holds the file name, so `oras pull` restores e.g. result.json.
package oci
