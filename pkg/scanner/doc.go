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

// Package scanner finds conda datafiles under a set of paths, parses them
// concurrently and assembles a packagedata.ScanResult.
//
// Directories are walked recursively and only files recognized by a
// registered handler are parsed; hidden directories are skipped. Files named
// explicitly are always attempted, and one no handler recognizes is reported
// with a scan error.
//
// A failure on one file (unreadable, not valid YAML) is recorded in that
// file's scan_errors and does not stop the scan. A missing input path or a
// canceled context fails the whole scan.
//
// Usage:
//
//	s := &scanner.Scanner{
//	    Version:     "v1.0.0",
//	    Parallelism: 8,
//	    Serializer:  serializer.NewStdoutWriter(serializer.FormatJSON),
//	}
//	if err := s.Run(ctx, []string{"./recipes"}); err != nil {
//	    return err
//	}
//
// Results are sorted by path and the header carries timestamp, version,
// files_count and a random scan_id.
package scanner
