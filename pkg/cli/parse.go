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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/condakit/condameta/pkg/conda"
	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/serializer"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:                  "parse",
		EnableShellCompletion: true,
		Usage:                 "Parse one conda datafile into package records",
		ArgsUsage:             "FILE|URL|cm://namespace/name[/key]",
		Description: `Parse a single conda meta.yaml recipe or environment.yaml file.

The handler is picked from the file name unless --kind is set. Recipes are
template-resolved first: simple {% set %} variables are substituted and lines
using unsupported template constructs are dropped.

Examples:

  condameta parse meta.yaml
  condameta parse --kind environment --format yaml deps.yml
  condameta parse cm://builds/env --output packages.json`,
		Flags: []cli.Flag{
			kindFlag(),
			timeoutFlag(),
			kubeconfigFlag(),
			outputFlag(),
			formatFlag(),
			plainHTTPFlag(),
			insecureTLSFlag(),
			ociLayoutFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("expected exactly one source, got %d", cmd.NArg()))
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			kind, err := conda.ParseKind(cmd.String("kind"))
			if err != nil {
				return err
			}

			parseCtx, cancel := withTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			doc, err := parseSource(parseCtx, cmd.Args().First(), kind, cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			ser, err := newSerializer(cmd, outFormat, "packages")
			if err != nil {
				return err
			}
			defer closeSerializer(ser)

			return ser.Serialize(ctx, doc)
		},
	}
}

// parseSource reads source and runs the matching handler over it.
func parseSource(ctx context.Context, source string, kind conda.Kind, kubeconfig string) (*packagedata.Document, error) {
	src, err := serializer.ReadSourceWithKubeconfig(ctx, source, kubeconfig)
	if err != nil {
		return nil, err
	}

	handler, ok := conda.ResolveHandler(kind, src.Name)
	if !ok {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeUnsupported,
			"no handler recognizes the source, set --kind explicitly",
			map[string]any{"source": source, "kind": string(kind)})
	}

	slog.Debug("parsing source",
		"source", source,
		"handler", handler.DatasourceID(),
		"bytes", len(src.Data))

	pkgs, err := handler.Parse(src.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", source, err)
	}

	return packagedata.NewDocument(source, version, pkgs), nil
}
