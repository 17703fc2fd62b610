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
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/condakit/condameta/pkg/conda"
	"github.com/condakit/condameta/pkg/defaults"
	cnserrors "github.com/condakit/condameta/pkg/errors"
	"github.com/condakit/condameta/pkg/k8s/client"
	"github.com/condakit/condameta/pkg/logging"
	"github.com/condakit/condameta/pkg/oci"
	"github.com/condakit/condameta/pkg/serializer"
)

const (
	name           = "condameta"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags keep parsed state, so each command gets fresh instances.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Sources: cli.EnvVars("CONDAMETA_OUTPUT"),
		Usage: `Output destination. Defaults to stdout.
	Supports: file paths, ConfigMap URIs (cm://namespace/name) or OCI references (oci://registry/repository:tag).`,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Sources: cli.EnvVars("CONDAMETA_FORMAT"),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Sources: cli.EnvVars("KUBECONFIG"),
		Usage:   "Path to kubeconfig used for ConfigMap sources and destinations",
	}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kind",
		Value: string(conda.KindAuto),
		Usage: fmt.Sprintf("Datafile kind (supported values: %s, %s, %s)",
			conda.KindMeta, conda.KindEnvironment, conda.KindAuto),
	}
}

func plainHTTPFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "plain-http",
		Usage: "Use plain HTTP when pushing to an OCI registry",
	}
}

func ociLayoutFlag() cli.Flag {
	return &cli.StringFlag{
		Name:      "oci-layout",
		Usage:     "Also keep pushed OCI artifacts in this local OCI Image Layout directory",
		TakesFile: true,
	}
}

func insecureTLSFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "insecure-tls",
		Usage: "Skip TLS verification when pushing to an OCI registry",
	}
}

// Execute runs the condameta command tree. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "code", cnserrors.CodeOf(err), "error", err)
		stop()
		if cnserrors.HasCode(err, cnserrors.ErrCodeInvalidRequest) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Extract package metadata from conda recipes and environment files",
		Description: `condameta reads conda meta.yaml recipes and environment.yaml files and
emits normalized package records with purls, licenses and dependencies.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("CONDAMETA_LOG_LEVEL"),
				Usage:   "Log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Shorthand for --log-level=debug",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			if cmd.Bool("debug") {
				level = "debug"
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			parseCmd(),
			scanCmd(),
			resolveCmd(),
			convertCmd(),
		},
	}
}

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q (supported values: %s)",
				cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", ")))
	}
	return f, nil
}

// newSerializer picks the destination for --output: an OCI registry,
// a ConfigMap, a file or stdout.
func newSerializer(cmd *cli.Command, format serializer.Format, baseName string) (serializer.Serializer, error) {
	target := strings.TrimSpace(cmd.String("output"))

	if oci.IsOCITarget(target) {
		return oci.NewWriter(target, format, version,
			oci.WithBaseName(baseName),
			oci.WithPlainHTTP(cmd.Bool("plain-http")),
			oci.WithInsecureTLS(cmd.Bool("insecure-tls")),
			oci.WithLayoutDir(cmd.String("oci-layout")),
		)
	}

	ser := serializer.NewFileWriterOrStdout(format, target)
	if cw, ok := ser.(*serializer.ConfigMapWriter); ok {
		if kubeconfig := cmd.String("kubeconfig"); kubeconfig != "" {
			c, _, err := client.GetKubeClientWithConfig(kubeconfig)
			if err != nil {
				return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
			}
			cw.WithClient(c)
		}
	}
	return ser, nil
}

func closeSerializer(ser serializer.Serializer) {
	if closer, ok := ser.(serializer.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func timeoutFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  "timeout",
		Value: defaults.ParseHandlerTimeout,
		Usage: "Maximum time to read and parse input (0 disables the limit)",
	}
}
