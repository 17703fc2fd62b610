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
	"io"
	"os"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/serializer"
	"github.com/condakit/condameta/pkg/template"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Print a recipe after template variable substitution",
		ArgsUsage:             "FILE|URL|cm://namespace/name[/key]",
		Description: `Resolve the {% set %} variables of a meta.yaml recipe and print the result.

Lines that still reference unknown variables or use other template constructs
are dropped, exactly as they are before parsing. Use --raw to print only the
resolved text.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print the resolved text instead of a ResolvedTemplate document",
			},
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

			readCtx, cancel := withTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			source := cmd.Args().First()
			src, err := serializer.ReadSourceWithKubeconfig(readCtx, source, cmd.String("kubeconfig"))
			if err != nil {
				return err
			}

			doc := template.NewDocument(source, string(src.Data), version)

			if cmd.Bool("raw") {
				return writeRaw(cmd.String("output"), doc.Text)
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			ser, err := newSerializer(cmd, outFormat, "resolved")
			if err != nil {
				return err
			}
			defer closeSerializer(ser)

			return ser.Serialize(ctx, doc)
		},
	}
}

func writeRaw(path, text string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	return serializer.WriteToFile(path, []byte(text))
}
