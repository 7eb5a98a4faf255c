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
	"context"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/datasource"
)

// SampleCollector accumulates per-column sketches and counters from one scan
// task. It maintains the FM sketches (to calculate the NDV), null counts, the
// data sizes and the number of rows. Memory is proportional to the sketch
// size per column, not to the number of rows scanned.
type SampleCollector struct {
	Count      int64
	NullCounts []int64
	FMSketches []*FMSketch
	TotalSizes []int64
	MaxSizes   []int64
}

// NewSampleCollector creates a collector for numCols columns.
func NewSampleCollector(numCols, maxSketchSize int) *SampleCollector {
	c := &SampleCollector{
		NullCounts: make([]int64, numCols),
		FMSketches: make([]*FMSketch, 0, numCols),
		TotalSizes: make([]int64, numCols),
		MaxSizes:   make([]int64, numCols),
	}
	for i := 0; i < numCols; i++ {
		c.FMSketches = append(c.FMSketches, NewFMSketch(maxSketchSize))
	}
	return c
}

// Collect drains rs into the collector. Cancellation is checked once per
// batch so an aborted computation stops within one scan batch.
func (c *SampleCollector) Collect(ctx context.Context, rs datasource.RecordSet) error {
	var scratch []byte
	for {
		rows, err := rs.Next(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		if len(rows) == 0 {
			return nil
		}
		c.Count += int64(len(rows))
		for _, row := range rows {
			for i, val := range row {
				if val.IsNull() {
					c.NullCounts[i]++
					continue
				}
				size := int64(val.Len())
				c.TotalSizes[i] += size
				if size > c.MaxSizes[i] {
					c.MaxSizes[i] = size
				}
				scratch, err = c.FMSketches[i].InsertValue(scratch, val)
				if err != nil {
					return errors.Trace(err)
				}
			}
		}
	}
}

// MergeCollector merges a per-task collector into c. The merge is associative
// and commutative, so task completion order never affects the final state.
func (c *SampleCollector) MergeCollector(sub *SampleCollector) {
	c.Count += sub.Count
	for i := range sub.FMSketches {
		c.FMSketches[i].MergeFMSketch(sub.FMSketches[i])
	}
	for i := range sub.NullCounts {
		c.NullCounts[i] += sub.NullCounts[i]
	}
	for i := range sub.TotalSizes {
		c.TotalSizes[i] += sub.TotalSizes[i]
	}
	for i := range sub.MaxSizes {
		if sub.MaxSizes[i] > c.MaxSizes[i] {
			c.MaxSizes[i] = sub.MaxSizes[i]
		}
	}
}
