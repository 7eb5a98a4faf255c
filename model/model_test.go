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

package model

import (
	"testing"

	"github.com/quarrybase/quarry/types"
	"github.com/stretchr/testify/require"
)

func sampleTable() *TableInfo {
	return &TableInfo{
		ID:   1,
		Name: "sales",
		Columns: []*ColumnInfo{
			{ID: 1, Name: "id", FieldType: types.TypeInt},
			{ID: 2, Name: "amount", FieldType: types.TypeDouble},
		},
		PartitionKeys: []string{"year"},
		Partitions: []PartitionInfo{
			{ID: 10, Name: "year=2009", KeyValues: []string{"2009"},
				Files: []FileBlock{{Path: "a", Size: 100}, {Path: "b", Size: 200}}},
			{ID: 11, Name: "year=2010", KeyValues: []string{"2010"},
				Files: []FileBlock{{Path: "c", Size: 300}}},
		},
	}
}

func TestTableInfoAggregates(t *testing.T) {
	tbl := sampleTable()
	require.True(t, tbl.IsPartitioned())
	require.Equal(t, int64(600), tbl.TotalFileBytes())
	require.Equal(t, int64(3), tbl.NumFiles())
	require.Equal(t, int64(300), tbl.Partitions[0].FileBytes())
}

func TestUnpartitionedTable(t *testing.T) {
	tbl := &TableInfo{
		Name:       "t",
		Partitions: []PartitionInfo{{Files: []FileBlock{{Path: "x", Size: 42}}}},
	}
	require.False(t, tbl.IsPartitioned())
	require.Equal(t, int64(42), tbl.TotalFileBytes())
}

func TestFindColumn(t *testing.T) {
	tbl := sampleTable()
	col := tbl.FindColumn("amount")
	require.NotNil(t, col)
	require.Equal(t, int64(2), col.ID)
	require.Nil(t, tbl.FindColumn("missing"))
}

func TestTableInfoClone(t *testing.T) {
	tbl := sampleTable()
	cp := tbl.Clone()
	cp.Columns[0].Name = "changed"
	cp.PartitionKeys[0] = "changed"
	cp.Partitions[0].Files[0].Size = 999
	cp.Partitions[0].KeyValues[0] = "changed"

	require.Equal(t, "id", tbl.Columns[0].Name)
	require.Equal(t, "year", tbl.PartitionKeys[0])
	require.Equal(t, int64(100), tbl.Partitions[0].Files[0].Size)
	require.Equal(t, "2009", tbl.Partitions[0].KeyValues[0])
}
