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
	"sync"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/model"
)

const defaultBatchSize = 1024

// MemSource is an in-memory BlockSource keyed by block path, used by tests
// and benchmarks.
type MemSource struct {
	mu        sync.RWMutex
	blocks    map[string][]Row
	batchSize int
}

// NewMemSource creates an empty MemSource.
func NewMemSource() *MemSource {
	return &MemSource{
		blocks:    make(map[string][]Row),
		batchSize: defaultBatchSize,
	}
}

// SetBatchSize overrides the scan batch size.
func (s *MemSource) SetBatchSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchSize = n
}

// AddBlock registers the rows served for the block at path.
func (s *MemSource) AddBlock(path string, rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[path] = rows
}

// Open implements BlockSource.
func (s *MemSource) Open(_ context.Context, _ *model.TableInfo, block model.FileBlock) (RecordSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.blocks[block.Path]
	if !ok {
		return nil, errors.Errorf("block %s not found", block.Path)
	}
	return &memRecordSet{rows: rows, batchSize: s.batchSize}, nil
}

type memRecordSet struct {
	rows      []Row
	batchSize int
	cursor    int
}

// Next implements RecordSet.
func (rs *memRecordSet) Next(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	if rs.cursor >= len(rs.rows) {
		return nil, nil
	}
	end := rs.cursor + rs.batchSize
	if end > len(rs.rows) {
		end = len(rs.rows)
	}
	batch := rs.rows[rs.cursor:end]
	rs.cursor = end
	return batch, nil
}

// Close implements RecordSet.
func (rs *memRecordSet) Close() error {
	rs.rows = nil
	return nil
}
