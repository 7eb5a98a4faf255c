// Copyright 2025 QuarryBase, Inc.
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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics labels.
const (
	LblOK     = "ok"
	LblError  = "error"
	LblHit    = "hit"
	LblMiss   = "miss"
	LblManual = "manual"
	LblAuto   = "auto"
)

// Stats metrics.
var (
	AnalyzeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "analyze_total",
			Help:      "Counter of stats computations.",
		}, []string{"type", "result"})

	AnalyzeDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "analyze_duration_seconds",
			Help:      "Bucketed histogram of processing time (s) of stats computations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 22),
		})

	StatsCacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "stats_cache_total",
			Help:      "Counter of stats cache lookups.",
		}, []string{"result"})

	PseudoEstimationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "pseudo_estimation_total",
			Help:      "Counter of reads answered by pseudo stats.",
		})

	SampledBytesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "sampled_bytes_total",
			Help:      "Counter of bytes selected for sampled scans.",
		})

	DumpStatsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quarry",
			Subsystem: "statistics",
			Name:      "dump_stats_total",
			Help:      "Counter of stats JSON dump/load operations.",
		}, []string{"type", "result"})
)

// RegisterMetrics registers the metrics to the prometheus default registerer.
func RegisterMetrics() {
	prometheus.MustRegister(AnalyzeCounter)
	prometheus.MustRegister(AnalyzeDurationHistogram)
	prometheus.MustRegister(StatsCacheCounter)
	prometheus.MustRegister(PseudoEstimationCounter)
	prometheus.MustRegister(SampledBytesCounter)
	prometheus.MustRegister(DumpStatsCounter)
}
