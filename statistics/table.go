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
	"fmt"
	"strings"
)

// RowCountUnset marks a row count that was never persisted. Partition counts
// stay unset after a sampled compute; readers extrapolate them on demand.
const RowCountUnset int64 = -1

// Column stores the persisted statistics of one column.
type Column struct {
	ColumnID   int64
	NDV        int64
	NullCount  int64
	TotColSize int64
	MaxColSize int64
}

// AvgColSize returns the average column payload size over count rows, -1 when
// unknown.
func (c *Column) AvgColSize(count int64) float64 {
	if count <= 0 {
		return -1
	}
	return float64(c.TotColSize) / float64(count)
}

// PartitionStats stores the persisted statistics of one partition.
type PartitionStats struct {
	PartitionID int64
	// Count is RowCountUnset when the snapshot came from a sampled compute.
	Count int64
	// FileBytes is the partition size observed at compute time.
	FileBytes int64
}

// Table is one immutable statistics snapshot of a table. A snapshot fully
// replaces its predecessor on write; its fields are never mutated after it is
// handed to the stats store.
type Table struct {
	TableID int64
	// Count is the table-level row count, RowCountUnset when no stats exist.
	Count       int64
	ModifyCount int64
	// TotalFileBytes is the table size observed at compute time, the
	// denominator of the stored row density.
	TotalFileBytes int64
	// Sampled is true when the snapshot came from a TABLESAMPLE compute.
	Sampled       bool
	SamplePercent float64
	SampleSeed    int64
	// Version is assigned by the stats store on write.
	Version uint64
	// Pseudo marks the fallback snapshot used when no stats are stored.
	Pseudo     bool
	Partitions map[int64]*PartitionStats
	Columns    map[int64]*Column
}

// PseudoTable creates a pseudo statistics table for a table that has no
// stored statistics. All counts read as unset.
func PseudoTable(tableID int64) *Table {
	return &Table{
		TableID:    tableID,
		Count:      RowCountUnset,
		Pseudo:     true,
		Partitions: make(map[int64]*PartitionStats),
		Columns:    make(map[int64]*Column),
	}
}

// PartitionRowCount returns the stored row count of the partition,
// RowCountUnset when nothing was persisted for it.
func (t *Table) PartitionRowCount(partitionID int64) int64 {
	ps, ok := t.Partitions[partitionID]
	if !ok {
		return RowCountUnset
	}
	return ps.Count
}

// ColumnStats returns the stored stats of the column, nil when absent.
func (t *Table) ColumnStats(columnID int64) *Column {
	return t.Columns[columnID]
}

// Copy makes a deep copy of the snapshot.
func (t *Table) Copy() *Table {
	nt := *t
	nt.Partitions = make(map[int64]*PartitionStats, len(t.Partitions))
	for id, ps := range t.Partitions {
		p := *ps
		nt.Partitions[id] = &p
	}
	nt.Columns = make(map[int64]*Column, len(t.Columns))
	for id, col := range t.Columns {
		c := *col
		nt.Columns[id] = &c
	}
	return &nt
}

// MemoryUsage returns a rough in-memory footprint of the snapshot in bytes.
func (t *Table) MemoryUsage() int64 {
	const (
		tableOverhead     = 128
		partitionOverhead = 48
		columnOverhead    = 56
	)
	return tableOverhead +
		int64(len(t.Partitions))*partitionOverhead +
		int64(len(t.Columns))*columnOverhead
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	strs := make([]string, 0, len(t.Columns)+1)
	strs = append(strs, fmt.Sprintf("Table:%d Count:%d Sampled:%v Version:%d", t.TableID, t.Count, t.Sampled, t.Version))
	for _, col := range t.Columns {
		strs = append(strs, fmt.Sprintf("Column:%d NDV:%d Nulls:%d", col.ColumnID, col.NDV, col.NullCount))
	}
	return strings.Join(strs, "\n")
}
