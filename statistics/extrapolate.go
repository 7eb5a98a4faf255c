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
)

// ExtrapolateRowCount estimates the full-table row count from the row density
// observed on the sampled bytes. A degenerate sample (zero bytes or zero
// rows) yields 0 rather than a division by zero. Sampling the whole table
// returns the sampled row count exactly.
func ExtrapolateRowCount(totalBytes, sampledBytes, sampledRows int64) int64 {
	if sampledBytes <= 0 || sampledRows <= 0 {
		return 0
	}
	if sampledBytes >= totalBytes {
		return sampledRows
	}
	density := float64(sampledRows) / float64(sampledBytes)
	return int64(math.Round(float64(totalBytes) * density))
}

// ExtrapolatedPartitionRows estimates a partition's row count from the stored
// table-level density, applied at read time to partitions whose counts were
// never persisted. It returns RowCountUnset when the table stats are missing
// or unusable, and 0 for zero-byte partitions or zero-row tables. A non-empty
// partition of a non-empty table always reports at least one row.
func ExtrapolatedPartitionRows(tableRows, tableBytes, partBytes int64) int64 {
	if tableRows < 0 || tableBytes <= 0 {
		return RowCountUnset
	}
	if partBytes <= 0 || tableRows == 0 {
		return 0
	}
	est := int64(math.Round(float64(partBytes) * float64(tableRows) / float64(tableBytes)))
	if est < 1 {
		est = 1
	}
	return est
}
