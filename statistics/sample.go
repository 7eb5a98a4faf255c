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
	"math/rand"
	"sort"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/model"
)

// SampleSpec describes a TABLESAMPLE SYSTEM (percent) REPEATABLE (seed)
// clause. A nil spec means a full scan.
type SampleSpec struct {
	Percent float64
	Seed    int64
}

// Validate rejects out-of-range sampling arguments before any scan begins.
func (s *SampleSpec) Validate() error {
	if s.Percent <= 0 || s.Percent > 100 || math.IsNaN(s.Percent) {
		return errors.Annotatef(ErrInvalidSamplePercent, "got %v", s.Percent)
	}
	if s.Seed < 0 {
		return errors.Annotatef(ErrInvalidSampleSeed, "got %d", s.Seed)
	}
	return nil
}

// SampleFileBlocks deterministically selects file blocks covering roughly
// percent of the total bytes. The same block list, percentage and seed always
// yield the same selection. Selection granularity is whole blocks; the
// returned blocks keep the input (catalog) order. A zero-block or zero-byte
// input yields an empty selection.
func SampleFileBlocks(blocks []model.FileBlock, percent float64, seed int64) ([]model.FileBlock, error) {
	spec := SampleSpec{Percent: percent, Seed: seed}
	if err := spec.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	var totalBytes int64
	for _, b := range blocks {
		totalBytes += b.Size
	}
	if totalBytes == 0 {
		return nil, nil
	}
	if percent == 100 {
		out := make([]model.FileBlock, len(blocks))
		copy(out, blocks)
		return out, nil
	}

	targetBytes := int64(math.Ceil(float64(totalBytes) * percent / 100))
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(blocks))

	var pickedBytes int64
	picked := make([]int, 0, len(blocks))
	for _, idx := range perm {
		if pickedBytes >= targetBytes {
			break
		}
		if blocks[idx].Size == 0 {
			continue
		}
		picked = append(picked, idx)
		pickedBytes += blocks[idx].Size
	}
	sort.Ints(picked)

	selected := make([]model.FileBlock, 0, len(picked))
	for _, idx := range picked {
		selected = append(selected, blocks[idx])
	}
	return selected, nil
}
