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

package handle

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/catalog"
	"github.com/quarrybase/quarry/metrics"
	"github.com/quarrybase/quarry/statistics"
	atomic2 "go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// Handle manages the in-memory stats cache over the catalog's persisted
// stats storage. Reads are lock-free; writes replace the cache copy-on-write
// under a mutex.
type Handle struct {
	// mu serializes cache writers.
	mu sync.Mutex
	// statsCache holds a statsCache value.
	statsCache atomic.Value

	catalog *catalog.Catalog
	// lease is the period of the background refresh worker; 0 disables it.
	lease atomic2.Duration
	// loadGroup deduplicates concurrent on-demand loads of one table.
	loadGroup singleflight.Group
}

// NewHandle creates a Handle over the given catalog.
func NewHandle(cat *catalog.Catalog, lease time.Duration) *Handle {
	h := &Handle{catalog: cat}
	h.lease.Store(lease)
	h.statsCache.Store(newStatsCache())
	return h
}

// Lease returns the stats lease.
func (h *Handle) Lease() time.Duration {
	return h.lease.Load()
}

// SetLease changes the stats lease.
func (h *Handle) SetLease(lease time.Duration) {
	h.lease.Store(lease)
}

// Clear empties the cache. The next read of any table loads from the catalog
// again.
func (h *Handle) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statsCache.Store(newStatsCache())
}

// GetTableStats retrieves the stats snapshot from the cache, loading it from
// the catalog on a miss. It returns a pseudo table when no stats are stored.
func (h *Handle) GetTableStats(tableID int64) *statistics.Table {
	if tbl, ok := h.statsCache.Load().(statsCache).tables[tableID]; ok {
		metrics.StatsCacheCounter.WithLabelValues(metrics.LblHit).Inc()
		return tbl
	}
	metrics.StatsCacheCounter.WithLabelValues(metrics.LblMiss).Inc()
	res, _, _ := h.loadGroup.Do(strconv.FormatInt(tableID, 10), func() (any, error) {
		snap, ok := h.catalog.LoadStats(tableID)
		if !ok {
			metrics.PseudoEstimationCounter.Inc()
			return statistics.PseudoTable(tableID), nil
		}
		h.updateCache([]*statistics.Table{snap}, nil, snap.Version)
		return snap, nil
	})
	return res.(*statistics.Table)
}

// SaveTableStatsToStorage persists the snapshot in the catalog and refreshes
// the cache. The write is all-or-nothing: on a catalog error the prior
// snapshot remains authoritative and the cache is untouched.
func (h *Handle) SaveTableStatsToStorage(snap *statistics.Table) error {
	version, err := h.catalog.SaveStats(snap)
	if err != nil {
		return errors.Trace(err)
	}
	h.updateCache([]*statistics.Table{snap}, nil, version)
	return nil
}

// DropTableStats clears the stored stats of the table. Subsequent reads see
// the distinct "no stats" state.
func (h *Handle) DropTableStats(tableID int64) error {
	version, err := h.catalog.DropStats(tableID)
	if err != nil {
		return errors.Trace(err)
	}
	h.updateCache(nil, []int64{tableID}, version)
	return nil
}

// Update pulls snapshots newer than the cached version from the catalog into
// the cache. The background refresh worker calls it once per lease.
func (h *Handle) Update() error {
	oldVersion := h.statsCache.Load().(statsCache).version
	metas := h.catalog.StatsMetaAfter(oldVersion)
	if len(metas) == 0 {
		return nil
	}
	tables := make([]*statistics.Table, 0, len(metas))
	deletedIDs := make([]int64, 0, len(metas))
	newVersion := oldVersion
	for _, meta := range metas {
		if meta.Snapshot != nil {
			tables = append(tables, meta.Snapshot)
		} else {
			deletedIDs = append(deletedIDs, meta.TableID)
		}
		newVersion = meta.Version
	}
	h.updateCache(tables, deletedIDs, newVersion)
	return nil
}

func (h *Handle) updateCache(tables []*statistics.Table, deletedIDs []int64, newVersion uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	oldCache := h.statsCache.Load().(statsCache)
	h.statsCache.Store(oldCache.update(tables, deletedIDs, newVersion))
}
