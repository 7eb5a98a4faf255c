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
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
	"github.com/quarrybase/quarry/statistics/handle"
)

// TotalRowLabel is the label of the table-level aggregate row of SHOW TABLE
// STATS. The display layer depends on it.
const TotalRowLabel = "Total"

// TableStatsRow is one line of SHOW TABLE STATS output.
type TableStatsRow struct {
	// KeyValues holds the partition key values, or TotalRowLabel in the
	// first position for the aggregate row.
	KeyValues []string
	// Rows is the stored row count, statistics.RowCountUnset when not set.
	Rows int64
	// ExtrapRows is the extrapolated row count. For stored concrete counts it
	// equals Rows; for unset partition counts it is computed live from the
	// stored table-level density and the partition's current byte size.
	ExtrapRows int64
	Files      int64
	Bytes      int64
}

// ColumnStatsRow is one line of SHOW COLUMN STATS output.
type ColumnStatsRow struct {
	Column string
	Type   string
	// NDV is the distinct-value count, -1 when no stats are stored.
	NDV       int64
	NullCount int64
	MaxSize   int64
	// AvgSize is -1 when unknown.
	AvgSize float64
}

// ShowTableStatsExec builds SHOW TABLE STATS rows: one row per partition in
// catalog order, then the Total row. Row count and order match the catalog
// listing whether or not stats exist.
type ShowTableStatsExec struct {
	Handle *handle.Handle
	Table  *model.TableInfo
}

// Run produces the rows.
func (e *ShowTableStatsExec) Run() []TableStatsRow {
	statsTbl := e.Handle.GetTableStats(e.Table.ID)
	tableRows := statsTbl.Count
	// The stored density denominates extrapolation; the byte sizes reported
	// per row come from the current catalog listing.
	tableBytes := statsTbl.TotalFileBytes

	rows := make([]TableStatsRow, 0, len(e.Table.Partitions)+1)
	if e.Table.IsPartitioned() {
		for i := range e.Table.Partitions {
			p := &e.Table.Partitions[i]
			stored := statsTbl.PartitionRowCount(p.ID)
			extrap := stored
			if stored == statistics.RowCountUnset {
				extrap = statistics.ExtrapolatedPartitionRows(tableRows, tableBytes, p.FileBytes())
			}
			rows = append(rows, TableStatsRow{
				KeyValues:  p.KeyValues,
				Rows:       stored,
				ExtrapRows: extrap,
				Files:      int64(len(p.Files)),
				Bytes:      p.FileBytes(),
			})
		}
	}
	// The table-level count is never extrapolated post-hoc; the stored value
	// appears in both fields.
	rows = append(rows, TableStatsRow{
		KeyValues:  totalKeyValues(e.Table),
		Rows:       tableRows,
		ExtrapRows: tableRows,
		Files:      e.Table.NumFiles(),
		Bytes:      e.Table.TotalFileBytes(),
	})
	return rows
}

func totalKeyValues(tbl *model.TableInfo) []string {
	if !tbl.IsPartitioned() {
		return []string{TotalRowLabel}
	}
	kvs := make([]string, len(tbl.PartitionKeys))
	kvs[0] = TotalRowLabel
	return kvs
}

// ShowColumnStatsExec builds SHOW COLUMN STATS rows, one per column in table
// order, with -1 sentinels when no stats are stored.
type ShowColumnStatsExec struct {
	Handle *handle.Handle
	Table  *model.TableInfo
}

// Run produces the rows.
func (e *ShowColumnStatsExec) Run() []ColumnStatsRow {
	statsTbl := e.Handle.GetTableStats(e.Table.ID)
	rows := make([]ColumnStatsRow, 0, len(e.Table.Columns))
	for _, col := range e.Table.Columns {
		row := ColumnStatsRow{
			Column:    col.Name,
			Type:      col.FieldType.String(),
			NDV:       -1,
			NullCount: -1,
			MaxSize:   -1,
			AvgSize:   -1,
		}
		if cs := statsTbl.ColumnStats(col.ID); cs != nil {
			row.NDV = cs.NDV
			row.NullCount = cs.NullCount
			row.MaxSize = cs.MaxColSize
			row.AvgSize = cs.AvgColSize(statsTbl.Count)
		}
		rows = append(rows, row)
	}
	return rows
}
