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

package catalog

import (
	"sync"
	"testing"

	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
	"github.com/quarrybase/quarry/types"
	"github.com/stretchr/testify/require"
)

func newTestTable(name string) *model.TableInfo {
	return &model.TableInfo{
		Name: name,
		Columns: []*model.ColumnInfo{
			{Name: "id", FieldType: types.TypeInt},
			{Name: "val", FieldType: types.TypeString},
		},
		Partitions: []model.PartitionInfo{
			{Files: []model.FileBlock{{Path: name + "/part-0", Size: 1024}}},
		},
	}
}

func TestCreateAndLookupTable(t *testing.T) {
	cat := New()
	tbl := newTestTable("orders")
	require.NoError(t, cat.CreateTable(tbl))

	// IDs were assigned to the table, its columns and its partitions.
	require.NotZero(t, tbl.ID)
	require.NotZero(t, tbl.Columns[0].ID)
	require.NotZero(t, tbl.Columns[1].ID)
	require.NotZero(t, tbl.Partitions[0].ID)
	require.NotEqual(t, tbl.Columns[0].ID, tbl.Columns[1].ID)

	got, err := cat.Table("orders")
	require.NoError(t, err)
	require.Same(t, tbl, got)

	byID, ok := cat.TableByID(tbl.ID)
	require.True(t, ok)
	require.Same(t, tbl, byID)

	_, err = cat.Table("missing")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestCreateTableDuplicate(t *testing.T) {
	cat := New()
	require.NoError(t, cat.CreateTable(newTestTable("orders")))
	require.ErrorIs(t, cat.CreateTable(newTestTable("orders")), ErrTableExists)
}

func TestAllTablesOrdered(t *testing.T) {
	cat := New()
	for _, name := range []string{"zulu", "alpha", "mike"} {
		require.NoError(t, cat.CreateTable(newTestTable(name)))
	}
	var names []string
	for _, tbl := range cat.AllTables() {
		names = append(names, tbl.Name)
	}
	require.Equal(t, []string{"alpha", "mike", "zulu"}, names)
}

func TestSaveAndLoadStats(t *testing.T) {
	cat := New()
	tbl := newTestTable("orders")
	require.NoError(t, cat.CreateTable(tbl))

	_, ok := cat.LoadStats(tbl.ID)
	require.False(t, ok)

	snap := &statistics.Table{TableID: tbl.ID, Count: 100}
	version, err := cat.SaveStats(snap)
	require.NoError(t, err)
	require.Equal(t, uint64(1), version)
	require.Equal(t, version, snap.Version)

	got, ok := cat.LoadStats(tbl.ID)
	require.True(t, ok)
	require.Same(t, snap, got)

	// A later save fully replaces the previous snapshot.
	next := &statistics.Table{TableID: tbl.ID, Count: 250}
	version2, err := cat.SaveStats(next)
	require.NoError(t, err)
	require.Greater(t, version2, version)
	got, ok = cat.LoadStats(tbl.ID)
	require.True(t, ok)
	require.Same(t, next, got)
}

func TestSaveStatsUnknownTable(t *testing.T) {
	cat := New()
	_, err := cat.SaveStats(&statistics.Table{TableID: 999})
	require.ErrorIs(t, err, ErrTableNotFound)
	_, err = cat.DropStats(999)
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestDropStatsTombstone(t *testing.T) {
	cat := New()
	tbl := newTestTable("orders")
	require.NoError(t, cat.CreateTable(tbl))
	saveVersion, err := cat.SaveStats(&statistics.Table{TableID: tbl.ID, Count: 100})
	require.NoError(t, err)

	dropVersion, err := cat.DropStats(tbl.ID)
	require.NoError(t, err)
	require.Greater(t, dropVersion, saveVersion)

	_, ok := cat.LoadStats(tbl.ID)
	require.False(t, ok)

	// Pull-based readers see the drop as a nil-snapshot meta entry.
	metas := cat.StatsMetaAfter(saveVersion)
	require.Len(t, metas, 1)
	require.Equal(t, tbl.ID, metas[0].TableID)
	require.Nil(t, metas[0].Snapshot)
}

func TestStatsMetaAfterOrdering(t *testing.T) {
	cat := New()
	a := newTestTable("a")
	b := newTestTable("b")
	c := newTestTable("c")
	for _, tbl := range []*model.TableInfo{a, b, c} {
		require.NoError(t, cat.CreateTable(tbl))
	}
	_, err := cat.SaveStats(&statistics.Table{TableID: b.ID, Count: 1})
	require.NoError(t, err)
	_, err = cat.SaveStats(&statistics.Table{TableID: a.ID, Count: 2})
	require.NoError(t, err)
	_, err = cat.SaveStats(&statistics.Table{TableID: c.ID, Count: 3})
	require.NoError(t, err)

	metas := cat.StatsMetaAfter(0)
	require.Len(t, metas, 3)
	require.Equal(t, []int64{b.ID, a.ID, c.ID},
		[]int64{metas[0].TableID, metas[1].TableID, metas[2].TableID})

	metas = cat.StatsMetaAfter(2)
	require.Len(t, metas, 1)
	require.Equal(t, c.ID, metas[0].TableID)

	require.Empty(t, cat.StatsMetaAfter(cat.StatsVersion()))
}

func TestModifyCount(t *testing.T) {
	cat := New()
	tbl := newTestTable("orders")
	require.NoError(t, cat.CreateTable(tbl))

	cat.RecordModify(tbl.ID, 50)
	cat.RecordModify(tbl.ID, 25)
	require.Equal(t, int64(75), cat.ModifyCount(tbl.ID))

	// A stats write resets the modify count.
	_, err := cat.SaveStats(&statistics.Table{TableID: tbl.ID, Count: 100})
	require.NoError(t, err)
	require.Equal(t, int64(0), cat.ModifyCount(tbl.ID))
}

func TestCatalogConcurrentAccess(t *testing.T) {
	cat := New()
	tbl := newTestTable("orders")
	require.NoError(t, cat.CreateTable(tbl))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(count int64) {
			defer wg.Done()
			_, err := cat.SaveStats(&statistics.Table{TableID: tbl.ID, Count: count})
			require.NoError(t, err)
		}(int64(i))
		go func() {
			defer wg.Done()
			if snap, ok := cat.LoadStats(tbl.ID); ok {
				require.Equal(t, tbl.ID, snap.TableID)
			}
			cat.RecordModify(tbl.ID, 1)
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(8), cat.StatsVersion())
}
