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

package datasource

import (
	"context"

	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/types"
)

// Row is one scanned row, one datum per table column.
type Row []types.Datum

// RecordSet iterates the rows of one data block.
type RecordSet interface {
	// Next returns the next batch of rows. It returns an empty batch when the
	// block is exhausted.
	Next(ctx context.Context) ([]Row, error)
	// Close releases the underlying resources.
	Close() error
}

// BlockSource supplies the scannable content of file blocks. It stands in for
// the execution engine's scan nodes.
type BlockSource interface {
	Open(ctx context.Context, tbl *model.TableInfo, block model.FileBlock) (RecordSet, error)
}
