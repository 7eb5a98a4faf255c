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

package codec

import (
	"encoding/binary"
	"math"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/types"
)

// Value encoding flags. The flag byte keeps values of different kinds from
// hashing to the same byte sequence.
const (
	// NilFlag marks an encoded null value.
	NilFlag byte = 0

	intFlag   byte = 3
	uintFlag  byte = 4
	floatFlag byte = 5
	bytesFlag byte = 7
)

const signMask uint64 = 0x8000000000000000

// EncodeValue appends the encoded form of d to b and returns the extended
// buffer. The encoding is deterministic and injective per kind, which is all
// the sketch hashing requires.
func EncodeValue(b []byte, d types.Datum) ([]byte, error) {
	switch d.Kind() {
	case types.KindNull:
		return append(b, NilFlag), nil
	case types.KindInt64:
		return EncodeInt(append(b, intFlag), d.GetInt64()), nil
	case types.KindUint64:
		return EncodeUint(append(b, uintFlag), d.GetUint64()), nil
	case types.KindFloat64:
		return EncodeFloat(append(b, floatFlag), d.GetFloat64()), nil
	case types.KindString, types.KindBytes:
		return EncodeBytes(append(b, bytesFlag), d.GetBytes()), nil
	}
	return b, errors.Errorf("unsupported datum kind %d", d.Kind())
}

// EncodeRow appends the encodings of all datums of a row to b. A trailing
// separator after every value keeps rows of different shapes distinct.
func EncodeRow(b []byte, row []types.Datum) ([]byte, error) {
	var err error
	for _, d := range row {
		b, err = EncodeValue(b, d)
		if err != nil {
			return b, errors.Trace(err)
		}
	}
	return b, nil
}

// EncodeInt appends the encoded value of v to b.
func EncodeInt(b []byte, v int64) []byte {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], uint64(v)^signMask)
	return append(b, data[:]...)
}

// EncodeUint appends the encoded value of v to b.
func EncodeUint(b []byte, v uint64) []byte {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], v)
	return append(b, data[:]...)
}

// EncodeFloat appends the encoded value of v to b. All NaN payloads encode
// identically.
func EncodeFloat(b []byte, v float64) []byte {
	if math.IsNaN(v) {
		v = math.NaN()
	}
	return EncodeUint(b, math.Float64bits(v))
}

// EncodeBytes appends the length-prefixed value to b.
func EncodeBytes(b []byte, v []byte) []byte {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(len(v)))
	b = append(b, l[:]...)
	return append(b, v...)
}
