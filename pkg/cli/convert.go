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

	"github.com/urfave/cli/v3"

	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/header"
	"github.com/condakit/condameta/pkg/packagedata"
	"github.com/condakit/condameta/pkg/serializer"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:                  "convert",
		EnableShellCompletion: true,
		Usage:                 "Re-render a saved scan result in another format",
		Description: `Load a ScanResult written by "condameta scan" and serialize it again.

The input format follows the file extension or ConfigMap key.

Examples:

  condameta convert --input scan.json --format csv --output scan.csv
  condameta convert --input cm://builds/scan --format table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage: `Path/URI to a saved scan result.
	Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`,
			},
			kubeconfigFlag(),
			outputFlag(),
			formatFlag(),
			plainHTTPFlag(),
			insecureTLSFlag(),
			ociLayoutFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			input := cmd.String("input")
			res, err := serializer.FromFileWithKubeconfig[packagedata.ScanResult](ctx, input, cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to load scan result from %q: %w", input, err)
			}
			kind, err := header.ParseKind(res.Kind.String())
			if err != nil || kind != header.KindScanResult {
				return cnserrors.New(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("%q is not a scan result (kind %q)", input, res.Kind))
			}

			ser, err := newSerializer(cmd, outFormat, "scan")
			if err != nil {
				return err
			}
			defer closeSerializer(ser)

			return ser.Serialize(ctx, res)
		},
	}
}
