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
	"github.com/quarrybase/quarry/statistics"
)

// statsCache caches the stats snapshots in memory for the Handle. It is
// replaced wholesale on every write (copy on write), so lock-free readers see
// either the old cache or the new one in full.
type statsCache struct {
	tables map[int64]*statistics.Table
	// version is the latest catalog stats version reflected by the cache.
	version uint64
}

func newStatsCache() statsCache {
	return statsCache{tables: make(map[int64]*statistics.Table)}
}

func (sc statsCache) copy() statsCache {
	newCache := statsCache{
		tables:  make(map[int64]*statistics.Table, len(sc.tables)),
		version: sc.version,
	}
	for id, tbl := range sc.tables {
		newCache.tables[id] = tbl
	}
	return newCache
}

// update builds the next cache generation with the given snapshots applied
// and the deleted tables removed.
func (sc statsCache) update(tables []*statistics.Table, deletedIDs []int64, newVersion uint64) statsCache {
	newCache := sc.copy()
	if newVersion > newCache.version {
		newCache.version = newVersion
	}
	for _, tbl := range tables {
		newCache.tables[tbl.TableID] = tbl
	}
	for _, id := range deletedIDs {
		delete(newCache.tables, id)
	}
	return newCache
}
