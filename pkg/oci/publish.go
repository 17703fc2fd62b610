/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/memory"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/condakit/condameta/pkg/defaults"
	apperrors "github.com/condakit/condameta/pkg/errors"
)

// ArtifactType identifies condameta documents stored in a registry.
const ArtifactType = "application/vnd.condameta.document.v1"

// Artifact is one serialized document and the manifest annotations to
// publish it with.
type Artifact struct {
	Data        []byte
	FileName    string // layer title, restored by `oras pull`
	MediaType   string
	Annotations map[string]string
}

// PublishOptions controls the registry connection.
type PublishOptions struct {
	PlainHTTP   bool
	InsecureTLS bool
	// LayoutDir, when set, also keeps the artifact as an OCI Image Layout.
	LayoutDir string
}

// Result describes a pushed artifact.
type Result struct {
	Digest    string // manifest digest
	Reference string // registry/repository:tag
}

// DefaultAnnotations returns the manifest annotations stamped on pushed
// documents.
func DefaultAnnotations(version string) map[string]string {
	annotations := map[string]string{
		ociv1.AnnotationTitle:  "condameta document",
		ociv1.AnnotationSource: "https://github.com/condakit/condameta",
	}
	if version != "" {
		annotations[ociv1.AnnotationVersion] = version
	}
	return annotations
}

// pack stores a as a single-layer OCI 1.1 artifact in dst and tags it.
func pack(ctx context.Context, dst oras.Target, a Artifact, tag string) (ociv1.Descriptor, error) {
	if len(a.Data) == 0 {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "nothing to publish")
	}
	if tag == "" {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required")
	}
	name, mediaType := a.FileName, a.MediaType
	if name == "" {
		name = "document.json"
	}
	if mediaType == "" {
		mediaType = "application/json"
	}

	layer, err := oras.PushBytes(ctx, dst, mediaType, a.Data)
	if err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to store document layer", err)
	}
	layer.Annotations = map[string]string{ociv1.AnnotationTitle: name}

	manifest, err := oras.PackManifest(ctx, dst, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers:              []ociv1.Descriptor{layer},
			ManifestAnnotations: a.Annotations,
		})
	if err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if err := dst.Tag(ctx, manifest, tag); err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest", err)
	}
	return manifest, nil
}

// Publish packs a in memory and copies it to the registry named by t.
func Publish(ctx context.Context, t *Target, a Artifact, opts PublishOptions) (*Result, error) {
	if t == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI target is required")
	}
	tag := t.tagOrDefault()

	store := memory.New()
	if _, err := pack(ctx, store, a, tag); err != nil {
		return nil, err
	}

	if opts.LayoutDir != "" {
		layout, err := ocilayout.New(opts.LayoutDir)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to open OCI layout", err).
				With("dir", opts.LayoutDir)
		}
		if _, err := oras.Copy(ctx, store, tag, layout, tag, oras.DefaultCopyOptions); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write OCI layout", err)
		}
		slog.Debug("OCI layout written", "dir", opts.LayoutDir, "tag", tag)
	}

	repo, err := remote.NewRepository(t.Name())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI repository", err).
			With("repository", t.Name())
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = authClient(opts.InsecureTLS && !opts.PlainHTTP)

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	desc, err := oras.Copy(ctx, store, tag, repo, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push OCI artifact", err).
			With("reference", t.Ref())
	}

	res := &Result{Digest: desc.Digest.String(), Reference: t.Ref()}
	slog.Info("OCI artifact pushed", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

// authClient resolves credentials from the Docker config. A missing or
// unreadable config means anonymous access.
func authClient(skipVerify bool) *auth.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if skipVerify {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
		return client
	}
	client.Credential = credentials.Credential(store)
	return client
}
