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

func TestExtrapolateRowCount(t *testing.T) {
	// 10% of the bytes held 1000 rows, so the table holds about 10000.
	require.Equal(t, int64(10000), ExtrapolateRowCount(100000, 10000, 1000))

	// Full coverage returns the scanned count exactly.
	require.Equal(t, int64(1234), ExtrapolateRowCount(100000, 100000, 1234))
	require.Equal(t, int64(1234), ExtrapolateRowCount(100000, 120000, 1234))

	// Density rounding, not truncation: 7 rows / 3 bytes over 10 bytes = 23.33.
	require.Equal(t, int64(23), ExtrapolateRowCount(10, 3, 7))
}

func TestExtrapolateRowCountDegenerate(t *testing.T) {
	require.Equal(t, int64(0), ExtrapolateRowCount(100000, 0, 1000))
	require.Equal(t, int64(0), ExtrapolateRowCount(100000, 10000, 0))
	require.Equal(t, int64(0), ExtrapolateRowCount(100000, -1, 1000))
}

func TestExtrapolatedPartitionRows(t *testing.T) {
	// A quarter of the bytes gets a quarter of the rows.
	require.Equal(t, int64(2500), ExtrapolatedPartitionRows(10000, 100000, 25000))

	// Unusable table stats report the sentinel.
	require.Equal(t, RowCountUnset, ExtrapolatedPartitionRows(RowCountUnset, 100000, 25000))
	require.Equal(t, RowCountUnset, ExtrapolatedPartitionRows(10000, 0, 25000))

	// Zero-byte partitions and empty tables report zero.
	require.Equal(t, int64(0), ExtrapolatedPartitionRows(10000, 100000, 0))
	require.Equal(t, int64(0), ExtrapolatedPartitionRows(0, 100000, 25000))
}

func TestExtrapolatedPartitionRowsAtLeastOne(t *testing.T) {
	// A tiny non-empty partition of a non-empty table never rounds to zero.
	require.Equal(t, int64(1), ExtrapolatedPartitionRows(10, 1000000, 1))
}
