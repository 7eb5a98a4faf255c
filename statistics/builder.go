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
	"math"

	"github.com/quarrybase/quarry/model"
)

// BuildTableStats assembles the snapshot for tbl from the merged collector of
// all scan tasks.
//
// On a full scan (nil spec) the table count is exact and every partition gets
// its concrete count from partitionRows. On a sampled scan the table count is
// extrapolated from the observed row density, every partition count is stored
// unset, and column counters are scaled from the sample.
func BuildTableStats(tbl *model.TableInfo, collector *SampleCollector, spec *SampleSpec,
	sampledBytes int64, partitionRows map[int64]int64) *Table {
	totalBytes := tbl.TotalFileBytes()
	t := &Table{
		TableID:        tbl.ID,
		TotalFileBytes: totalBytes,
		Partitions:     make(map[int64]*PartitionStats, len(tbl.Partitions)),
		Columns:        make(map[int64]*Column, len(tbl.Columns)),
	}

	if spec == nil {
		t.Count = collector.Count
		for i := range tbl.Partitions {
			p := &tbl.Partitions[i]
			t.Partitions[p.ID] = &PartitionStats{
				PartitionID: p.ID,
				Count:       partitionRows[p.ID],
				FileBytes:   p.FileBytes(),
			}
		}
	} else {
		t.Sampled = true
		t.SamplePercent = spec.Percent
		t.SampleSeed = spec.Seed
		t.Count = ExtrapolateRowCount(totalBytes, sampledBytes, collector.Count)
		for i := range tbl.Partitions {
			p := &tbl.Partitions[i]
			t.Partitions[p.ID] = &PartitionStats{
				PartitionID: p.ID,
				Count:       RowCountUnset,
				FileBytes:   p.FileBytes(),
			}
		}
	}

	scale := 1.0
	if spec != nil && collector.Count > 0 {
		scale = float64(t.Count) / float64(collector.Count)
	}
	for i, col := range tbl.Columns {
		sketch := collector.FMSketches[i]
		ndv := sketch.NDV()
		if spec != nil {
			ndv = ExtrapolateNDV(ndv, sketch.OnlyOnceCount(), collector.Count, t.Count)
		}
		if ndv > t.Count {
			ndv = t.Count
		}
		t.Columns[col.ID] = &Column{
			ColumnID:   col.ID,
			NDV:        ndv,
			NullCount:  scaleCount(collector.NullCounts[i], scale),
			TotColSize: scaleCount(collector.TotalSizes[i], scale),
			MaxColSize: collector.MaxSizes[i],
		}
	}
	return t
}

func scaleCount(v int64, scale float64) int64 {
	if scale == 1.0 {
		return v
	}
	return int64(math.Round(float64(v) * scale))
}
