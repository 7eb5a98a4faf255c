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

// Package catalog is the process-wide metadata service: a table registry and
// the persisted statistics storage. Stats writes have snapshot-replace
// semantics: a write publishes one fully-formed snapshot under a single
// version bump, so concurrent readers observe either the old snapshot or the
// new one in full, never a mix.
package catalog

import (
	"sort"
	"sync"

	"github.com/google/btree"
	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
)

// Catalog errors.
var (
	// ErrTableExists is returned when creating a table whose name is taken.
	ErrTableExists = errors.New("table already exists")
	// ErrTableNotFound is returned for operations on unknown tables.
	ErrTableNotFound = errors.New("table not found")
)

// StatsMeta describes one version of a table's persisted stats. A nil
// Snapshot records a drop.
type StatsMeta struct {
	Version     uint64
	TableID     int64
	ModifyCount int64
	Snapshot    *statistics.Table
}

type tableItem struct {
	name string
	tbl  *model.TableInfo
}

// Catalog is an in-memory catalog service. All methods are safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	byName  *btree.BTreeG[tableItem]
	byID    map[int64]*model.TableInfo
	stats   map[int64]StatsMeta
	version uint64
	nextID  int64
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byName: btree.NewG(16, func(a, b tableItem) bool { return a.name < b.name }),
		byID:   make(map[int64]*model.TableInfo),
		stats:  make(map[int64]StatsMeta),
	}
}

// CreateTable registers a table. Zero IDs on the table, its columns and its
// partitions are assigned by the catalog.
func (c *Catalog) CreateTable(tbl *model.TableInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName.Get(tableItem{name: tbl.Name}); ok {
		return errors.Annotatef(ErrTableExists, "table %s", tbl.Name)
	}
	if tbl.ID == 0 {
		tbl.ID = c.allocID()
	}
	for _, col := range tbl.Columns {
		if col.ID == 0 {
			col.ID = c.allocID()
		}
	}
	for i := range tbl.Partitions {
		if tbl.Partitions[i].ID == 0 {
			tbl.Partitions[i].ID = c.allocID()
		}
	}
	c.byName.ReplaceOrInsert(tableItem{name: tbl.Name, tbl: tbl})
	c.byID[tbl.ID] = tbl
	return nil
}

func (c *Catalog) allocID() int64 {
	c.nextID++
	return c.nextID
}

// Table returns the table with the given name.
func (c *Catalog) Table(name string) (*model.TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.byName.Get(tableItem{name: name})
	if !ok {
		return nil, errors.Annotatef(ErrTableNotFound, "table %s", name)
	}
	return item.tbl, nil
}

// TableByID returns the table with the given ID.
func (c *Catalog) TableByID(id int64) (*model.TableInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tbl, ok := c.byID[id]
	return tbl, ok
}

// AllTables lists all tables in name order.
func (c *Catalog) AllTables() []*model.TableInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tables := make([]*model.TableInfo, 0, c.byName.Len())
	c.byName.Ascend(func(item tableItem) bool {
		tables = append(tables, item.tbl)
		return true
	})
	return tables
}

// SaveStats persists a stats snapshot for its table, replacing any previous
// snapshot in one assignment. It stamps the snapshot with the new version and
// resets the table's modify count. The snapshot must not be mutated by the
// caller afterwards.
func (c *Catalog) SaveStats(snap *statistics.Table) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[snap.TableID]; !ok {
		return 0, errors.Annotatef(ErrTableNotFound, "table id %d", snap.TableID)
	}
	c.version++
	snap.Version = c.version
	c.stats[snap.TableID] = StatsMeta{
		Version:  c.version,
		TableID:  snap.TableID,
		Snapshot: snap,
	}
	return c.version, nil
}

// LoadStats returns the stored snapshot for the table, false when none is
// stored.
func (c *Catalog) LoadStats(tableID int64) (*statistics.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.stats[tableID]
	if !ok || meta.Snapshot == nil {
		return nil, false
	}
	return meta.Snapshot, true
}

// DropStats clears all stored stats for the table, returning it to the "no
// stats" state. The drop is recorded as a tombstone version so pull-based
// readers learn about it.
func (c *Catalog) DropStats(tableID int64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[tableID]; !ok {
		return 0, errors.Annotatef(ErrTableNotFound, "table id %d", tableID)
	}
	c.version++
	c.stats[tableID] = StatsMeta{
		Version: c.version,
		TableID: tableID,
	}
	return c.version, nil
}

// StatsMetaAfter returns the stats meta entries newer than version, in
// version order.
func (c *Catalog) StatsMetaAfter(version uint64) []StatsMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	metas := make([]StatsMeta, 0, len(c.stats))
	for _, meta := range c.stats {
		if meta.Version > version {
			metas = append(metas, meta)
		}
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Version < metas[j].Version })
	return metas
}

// RecordModify adds delta to the table's modify count, feeding the
// auto-analyze policy.
func (c *Catalog) RecordModify(tableID int64, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta := c.stats[tableID]
	meta.TableID = tableID
	meta.ModifyCount += delta
	c.stats[tableID] = meta
}

// ModifyCount returns the modifications recorded since the last stats write.
func (c *Catalog) ModifyCount(tableID int64) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats[tableID].ModifyCount
}

// StatsVersion returns the current global stats version.
func (c *Catalog) StatsVersion() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
