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

	"github.com/urfave/cli/v3"

	"github.com/condakit/condameta/pkg/conda"
	"github.com/condakit/condameta/pkg/defaults"
	"github.com/condakit/condameta/pkg/scanner"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:                  "scan",
		EnableShellCompletion: true,
		Usage:                 "Walk paths and parse every conda datafile found",
		ArgsUsage:             "[PATH...]",
		Description: `Scan files and directories for meta.yaml recipes and environment files.

Directories are walked recursively. Files that fail to parse are reported
in the result and do not stop the scan. Defaults to the current directory.

Examples:

  condameta scan ./recipes
  condameta scan --parallel 16 --format csv --output scan.csv .
  condameta scan --output oci://ghcr.io/acme/scans:nightly .`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Value:   defaults.ScanParallelism,
				Sources: cli.EnvVars("CONDAMETA_PARALLEL"),
				Usage:   "Number of files parsed concurrently",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Maximum time for the whole scan (0 disables the limit)",
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

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"."}
			}

			ser, err := newSerializer(cmd, outFormat, "scan")
			if err != nil {
				return err
			}
			defer closeSerializer(ser)

			scanCtx, cancel := withTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			s := &scanner.Scanner{
				Version:     version,
				Registry:    conda.DefaultRegistry(),
				Parallelism: cmd.Int("parallel"),
				Serializer:  ser,
			}
			return s.Run(scanCtx, paths)
		},
	}
}
