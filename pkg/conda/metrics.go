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

package conda

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condameta_documents_parsed_total",
			Help: "Total number of documents parsed",
		},
		[]string{"datasource", "status"},
	)

	templateLinesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "condameta_template_lines_dropped_total",
			Help: "Total number of recipe lines dropped for unresolved template syntax",
		},
	)

	dependenciesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condameta_dependencies_extracted_total",
			Help: "Total number of dependencies extracted",
		},
		[]string{"datasource"},
	)
)
