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

package statistics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPseudoTable(t *testing.T) {
	tbl := PseudoTable(7)
	require.True(t, tbl.Pseudo)
	require.Equal(t, int64(7), tbl.TableID)
	require.Equal(t, RowCountUnset, tbl.Count)
	require.Equal(t, RowCountUnset, tbl.PartitionRowCount(1))
	require.Nil(t, tbl.ColumnStats(1))
}

func TestTableCopyIsDeep(t *testing.T) {
	tbl := &Table{
		TableID: 1,
		Count:   100,
		Partitions: map[int64]*PartitionStats{
			10: {PartitionID: 10, Count: 60, FileBytes: 600},
		},
		Columns: map[int64]*Column{
			1: {ColumnID: 1, NDV: 42, NullCount: 3},
		},
	}
	cp := tbl.Copy()
	cp.Count = 200
	cp.Partitions[10].Count = 99
	cp.Columns[1].NDV = 1

	require.Equal(t, int64(100), tbl.Count)
	require.Equal(t, int64(60), tbl.Partitions[10].Count)
	require.Equal(t, int64(42), tbl.Columns[1].NDV)
}

func TestAvgColSize(t *testing.T) {
	col := &Column{TotColSize: 900}
	require.InDelta(t, 9.0, col.AvgColSize(100), 1e-9)
	require.Equal(t, float64(-1), col.AvgColSize(0))
	require.Equal(t, float64(-1), col.AvgColSize(RowCountUnset))
}

func TestPartitionRowCount(t *testing.T) {
	tbl := &Table{
		Partitions: map[int64]*PartitionStats{
			1: {PartitionID: 1, Count: 500},
			2: {PartitionID: 2, Count: RowCountUnset},
		},
	}
	require.Equal(t, int64(500), tbl.PartitionRowCount(1))
	require.Equal(t, RowCountUnset, tbl.PartitionRowCount(2))
	require.Equal(t, RowCountUnset, tbl.PartitionRowCount(3))
}

func TestTableMemoryUsage(t *testing.T) {
	small := PseudoTable(1).MemoryUsage()
	big := (&Table{
		Partitions: map[int64]*PartitionStats{1: {}, 2: {}, 3: {}},
		Columns:    map[int64]*Column{1: {}, 2: {}},
	}).MemoryUsage()
	require.Greater(t, big, small)
}
