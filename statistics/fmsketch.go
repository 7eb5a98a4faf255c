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
	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/types"
	"github.com/quarrybase/quarry/util/codec"
	"github.com/twmb/murmur3"
)

// FMSketch is a Flajolet-Martin style sketch estimating the distinct count of
// a column. It keeps the hash values whose low bits match the current mask;
// when the retained set outgrows maxSize the mask doubles and half the
// entries are evicted. Memory is bounded by maxSize regardless of how many
// rows are inserted.
//
// Each retained hash carries a "seen more than once" bit, so the sketch also
// yields a scaled estimate of how many values occurred exactly once. The NDV
// extrapolation needs that first-order frequency.
type FMSketch struct {
	hashset map[uint64]bool // value is true when the hash was seen more than once
	mask    uint64
	maxSize int
}

// NewFMSketch returns a new FM sketch.
func NewFMSketch(maxSize int) *FMSketch {
	return &FMSketch{
		hashset: make(map[uint64]bool),
		maxSize: maxSize,
	}
}

// NDV returns the estimated distinct count.
func (s *FMSketch) NDV() int64 {
	return int64(s.mask+1) * int64(len(s.hashset))
}

// OnlyOnceCount returns the scaled count of values seen exactly once.
func (s *FMSketch) OnlyOnceCount() int64 {
	var cnt int64
	for _, dup := range s.hashset {
		if !dup {
			cnt++
		}
	}
	return int64(s.mask+1) * cnt
}

func (s *FMSketch) insertHashValue(hashVal uint64) {
	if hashVal&s.mask != 0 {
		return
	}
	if dup, ok := s.hashset[hashVal]; ok {
		if !dup {
			s.hashset[hashVal] = true
		}
		return
	}
	s.hashset[hashVal] = false
	if len(s.hashset) > s.maxSize {
		s.mask = s.mask*2 + 1
		for key := range s.hashset {
			if key&s.mask != 0 {
				delete(s.hashset, key)
			}
		}
	}
}

// InsertBytes inserts an encoded value into the sketch.
func (s *FMSketch) InsertBytes(data []byte) {
	s.insertHashValue(murmur3.Sum64(data))
}

// InsertValue inserts a datum into the sketch. The scratch buffer is reused
// across calls and returned extended.
func (s *FMSketch) InsertValue(scratch []byte, d types.Datum) ([]byte, error) {
	data, err := codec.EncodeValue(scratch[:0], d)
	if err != nil {
		return data, errors.Trace(err)
	}
	s.InsertBytes(data)
	return data, nil
}

// MergeFMSketch merges rs into s. The merge is associative and commutative:
// partial sketches from concurrent scan tasks can be folded in any order.
func (s *FMSketch) MergeFMSketch(rs *FMSketch) {
	if rs == nil {
		return
	}
	if s.mask < rs.mask {
		s.mask = rs.mask
		for key := range s.hashset {
			if key&s.mask != 0 {
				delete(s.hashset, key)
			}
		}
	}
	for key, dup := range rs.hashset {
		if key&s.mask != 0 {
			continue
		}
		if _, ok := s.hashset[key]; ok {
			// Retained by both partial sketches, so the value was scanned at
			// least twice overall.
			s.hashset[key] = true
			continue
		}
		s.hashset[key] = dup
	}
	for len(s.hashset) > s.maxSize {
		s.mask = s.mask*2 + 1
		for key := range s.hashset {
			if key&s.mask != 0 {
				delete(s.hashset, key)
			}
		}
	}
}

// Copy makes a deep copy of the sketch.
func (s *FMSketch) Copy() *FMSketch {
	if s == nil {
		return nil
	}
	hashset := make(map[uint64]bool, len(s.hashset))
	for key, dup := range s.hashset {
		hashset[key] = dup
	}
	return &FMSketch{hashset: hashset, mask: s.mask, maxSize: s.maxSize}
}
