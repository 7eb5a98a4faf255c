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

package executor

import (
	"sync"
	"time"

	"context"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/config"
	"github.com/quarrybase/quarry/datasource"
	"github.com/quarrybase/quarry/metrics"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
	"github.com/quarrybase/quarry/statistics/handle"
	"github.com/quarrybase/quarry/util/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComputeStatsExec runs one COMPUTE STATS statement over a table:
// select the blocks to scan (all of them, or a deterministic sample), scan
// them with concurrent tasks, merge the per-task collectors and persist one
// fully-formed snapshot. On any failure or cancellation nothing is written.
type ComputeStatsExec struct {
	Handle *handle.Handle
	Source datasource.BlockSource
	Table  *model.TableInfo
	// Spec is nil for a full scan.
	Spec *statistics.SampleSpec
	// Concurrency overrides the configured analyze concurrency when > 0.
	Concurrency int
	// analyzeType labels the metrics; "manual" when unset.
	AnalyzeType string
}

type blockTask struct {
	partitionID int64
	block       model.FileBlock
}

// Run executes the computation and persists the snapshot.
func (e *ComputeStatsExec) Run(ctx context.Context) (*statistics.Table, error) {
	start := time.Now()
	analyzeType := e.AnalyzeType
	if analyzeType == "" {
		analyzeType = metrics.LblManual
	}
	snap, err := e.run(ctx)
	if err != nil {
		metrics.AnalyzeCounter.WithLabelValues(analyzeType, metrics.LblError).Inc()
		return nil, errors.Trace(err)
	}
	metrics.AnalyzeCounter.WithLabelValues(analyzeType, metrics.LblOK).Inc()
	metrics.AnalyzeDurationHistogram.Observe(time.Since(start).Seconds())
	logutil.Logger(ctx).Info("compute stats done",
		zap.String("table", e.Table.Name),
		zap.Int64("rowCount", snap.Count),
		zap.Bool("sampled", snap.Sampled),
		zap.Duration("takeTime", time.Since(start)))
	return snap, nil
}

func (e *ComputeStatsExec) run(ctx context.Context) (*statistics.Table, error) {
	cfg := config.GetGlobalConfig()
	if e.Spec != nil {
		if err := e.Spec.Validate(); err != nil {
			return nil, errors.Trace(err)
		}
	}

	blocks, owner := flattenBlocks(e.Table)
	if e.Spec != nil {
		selected, err := statistics.SampleFileBlocks(blocks, e.Spec.Percent, e.Spec.Seed)
		if err != nil {
			return nil, errors.Trace(err)
		}
		blocks = selected
	}
	var sampledBytes int64
	for _, b := range blocks {
		sampledBytes += b.Size
	}
	if e.Spec != nil {
		metrics.SampledBytesCounter.Add(float64(sampledBytes))
	}

	numCols := len(e.Table.Columns)
	maxSketchSize := cfg.Statistics.MaxFMSketchSize
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = cfg.Performance.AnalyzeConcurrency
	}
	if concurrency > len(blocks) && len(blocks) > 0 {
		concurrency = len(blocks)
	}

	merged := statistics.NewSampleCollector(numCols, maxSketchSize)
	partitionRows := make(map[int64]int64, len(e.Table.Partitions))
	if len(blocks) > 0 {
		var mu sync.Mutex
		taskCh := make(chan blockTask)
		eg, gctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			defer close(taskCh)
			for _, b := range blocks {
				task := blockTask{partitionID: owner[b.Path], block: b}
				select {
				case taskCh <- task:
				case <-gctx.Done():
					return errors.Trace(gctx.Err())
				}
			}
			return nil
		})
		for i := 0; i < concurrency; i++ {
			eg.Go(func() error {
				for task := range taskCh {
					collector, err := e.scanBlock(gctx, task.block)
					if err != nil {
						return errors.Trace(err)
					}
					mu.Lock()
					merged.MergeCollector(collector)
					partitionRows[task.partitionID] += collector.Count
					mu.Unlock()
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	snap := statistics.BuildTableStats(e.Table, merged, e.Spec, sampledBytes, partitionRows)
	if err := e.Handle.SaveTableStatsToStorage(snap); err != nil {
		return nil, errors.Trace(err)
	}
	return snap, nil
}

func (e *ComputeStatsExec) scanBlock(ctx context.Context, block model.FileBlock) (*statistics.SampleCollector, error) {
	cfg := config.GetGlobalConfig()
	rs, err := e.Source.Open(ctx, e.Table, block)
	if err != nil {
		return nil, errors.Trace(err)
	}
	collector := statistics.NewSampleCollector(len(e.Table.Columns), cfg.Statistics.MaxFMSketchSize)
	collectErr := collector.Collect(ctx, rs)
	closeErr := rs.Close()
	if collectErr != nil {
		return nil, errors.Trace(collectErr)
	}
	if closeErr != nil {
		return nil, errors.Trace(closeErr)
	}
	return collector, nil
}

// flattenBlocks lists all blocks of the table in catalog order and maps each
// block path back to its owning partition.
func flattenBlocks(tbl *model.TableInfo) ([]model.FileBlock, map[string]int64) {
	var blocks []model.FileBlock
	owner := make(map[string]int64)
	for i := range tbl.Partitions {
		p := &tbl.Partitions[i]
		for _, b := range p.Files {
			blocks = append(blocks, b)
			owner[b.Path] = p.ID
		}
	}
	return blocks, owner
}
