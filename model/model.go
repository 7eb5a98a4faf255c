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
	"github.com/quarrybase/quarry/types"
)

// FileBlock is the smallest schedulable scan unit of a table. Sampling never
// splits a block.
type FileBlock struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ColumnInfo provides meta data describing a table column.
type ColumnInfo struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	FieldType types.FieldType `json:"type"`
}

// PartitionInfo provides meta data describing one table partition and the
// file blocks holding its data.
type PartitionInfo struct {
	ID int64 `json:"id"`
	// Name is the rendered partition spec, e.g. "year=2009/month=1".
	Name string `json:"name"`
	// KeyValues are the partition key values, aligned with the table's
	// PartitionKeys.
	KeyValues []string    `json:"key_values"`
	Files     []FileBlock `json:"files"`
}

// FileBytes returns the total size of the partition's file blocks.
func (p *PartitionInfo) FileBytes() int64 {
	var total int64
	for _, f := range p.Files {
		total += f.Size
	}
	return total
}

// TableInfo provides meta data describing a table.
type TableInfo struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Columns []*ColumnInfo `json:"columns"`
	// PartitionKeys is empty for unpartitioned tables. Unpartitioned tables
	// still carry exactly one anonymous partition so file bookkeeping stays
	// uniform.
	PartitionKeys []string        `json:"partition_keys,omitempty"`
	Partitions    []PartitionInfo `json:"partitions"`
}

// IsPartitioned reports whether the table has user-visible partitions.
func (t *TableInfo) IsPartitioned() bool {
	return len(t.PartitionKeys) > 0
}

// TotalFileBytes returns the total size of all file blocks of the table.
func (t *TableInfo) TotalFileBytes() int64 {
	var total int64
	for i := range t.Partitions {
		total += t.Partitions[i].FileBytes()
	}
	return total
}

// NumFiles returns the number of file blocks of the table.
func (t *TableInfo) NumFiles() int64 {
	var total int64
	for i := range t.Partitions {
		total += int64(len(t.Partitions[i].Files))
	}
	return total
}

// FindColumn returns the column with the given name, nil when absent.
func (t *TableInfo) FindColumn(name string) *ColumnInfo {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// Clone makes a deep copy of the table info.
func (t *TableInfo) Clone() *TableInfo {
	nt := *t
	nt.Columns = make([]*ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		c := *col
		nt.Columns[i] = &c
	}
	nt.PartitionKeys = append([]string(nil), t.PartitionKeys...)
	nt.Partitions = make([]PartitionInfo, len(t.Partitions))
	for i := range t.Partitions {
		p := t.Partitions[i]
		p.KeyValues = append([]string(nil), p.KeyValues...)
		p.Files = append([]FileBlock(nil), p.Files...)
		nt.Partitions[i] = p
	}
	return &nt
}
