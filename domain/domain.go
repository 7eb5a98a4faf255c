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

// Package domain binds the catalog, the stats handle and the block source
// together and owns the background statistics workers.
package domain

import (
	"context"
	"sync"
	"time"

	"github.com/quarrybase/quarry/catalog"
	"github.com/quarrybase/quarry/config"
	"github.com/quarrybase/quarry/datasource"
	"github.com/quarrybase/quarry/executor"
	"github.com/quarrybase/quarry/metrics"
	"github.com/quarrybase/quarry/statistics/handle"
	"github.com/quarrybase/quarry/util/logutil"
	"go.uber.org/zap"
)

// Domain owns the per-process statistics machinery.
type Domain struct {
	catalog     *catalog.Catalog
	statsHandle *handle.Handle
	source      datasource.BlockSource

	exit chan struct{}
	wg   sync.WaitGroup
}

// NewDomain creates a Domain over the given catalog and block source. The
// stats lease comes from the global config.
func NewDomain(cat *catalog.Catalog, source datasource.BlockSource) *Domain {
	lease := config.GetGlobalConfig().Performance.StatsLeaseDuration()
	return &Domain{
		catalog:     cat,
		statsHandle: handle.NewHandle(cat, lease),
		source:      source,
		exit:        make(chan struct{}),
	}
}

// Catalog returns the catalog service.
func (do *Domain) Catalog() *catalog.Catalog {
	return do.catalog
}

// StatsHandle returns the stats handle.
func (do *Domain) StatsHandle() *handle.Handle {
	return do.statsHandle
}

// BlockSource returns the block source.
func (do *Domain) BlockSource() datasource.BlockSource {
	return do.source
}

// Start launches the background stats workers per config. A zero stats lease
// disables the refresh worker.
func (do *Domain) Start() {
	cfg := config.GetGlobalConfig()
	if do.statsHandle.Lease() > 0 {
		do.wg.Add(1)
		go do.loadStatsWorker()
		if cfg.Performance.RunAutoAnalyze {
			do.wg.Add(1)
			go do.autoAnalyzeWorker()
		}
	}
}

// Close stops the background workers and waits for them to exit.
func (do *Domain) Close() {
	close(do.exit)
	do.wg.Wait()
}

func (do *Domain) loadStatsWorker() {
	lease := do.statsHandle.Lease()
	loadTicker := time.NewTicker(lease)
	defer func() {
		loadTicker.Stop()
		do.wg.Done()
		logutil.BgLogger().Info("loadStatsWorker exited.")
	}()
	for {
		select {
		case <-loadTicker.C:
			if err := do.statsHandle.Update(); err != nil {
				logutil.BgLogger().Debug("update stats info failed", zap.Error(err))
			}
		case <-do.exit:
			return
		}
	}
}

func (do *Domain) autoAnalyzeWorker() {
	lease := do.statsHandle.Lease()
	analyzeTicker := time.NewTicker(lease)
	defer func() {
		analyzeTicker.Stop()
		do.wg.Done()
		logutil.BgLogger().Info("autoAnalyzeWorker exited.")
	}()
	for {
		select {
		case <-analyzeTicker.C:
			do.HandleAutoAnalyze(context.Background())
		case <-do.exit:
			return
		}
	}
}

// HandleAutoAnalyze walks the catalog and analyzes the first table whose
// stats are missing or stale. It returns true when a table was analyzed. One
// table per round keeps the worker from monopolizing scan resources.
func (do *Domain) HandleAutoAnalyze(ctx context.Context) bool {
	cfg := config.GetGlobalConfig()
	ratio := cfg.Performance.AutoAnalyzeRatio
	minCount := cfg.Performance.AutoAnalyzeMinCount
	for _, tbl := range do.catalog.AllTables() {
		statsTbl := do.statsHandle.GetTableStats(tbl.ID)
		modifyCount := do.catalog.ModifyCount(tbl.ID)
		need, reason := handle.NeedAnalyzeTable(statsTbl, modifyCount, ratio, minCount)
		if !need {
			continue
		}
		logutil.BgLogger().Info("auto analyze triggered",
			zap.String("table", tbl.Name),
			zap.String("reason", reason))
		exec := &executor.ComputeStatsExec{
			Handle:      do.statsHandle,
			Source:      do.source,
			Table:       tbl,
			AnalyzeType: metrics.LblAuto,
		}
		if _, err := exec.Run(ctx); err != nil {
			logutil.BgLogger().Error("auto analyze failed",
				zap.String("table", tbl.Name),
				zap.Error(err))
			return false
		}
		return true
	}
	return false
}
