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

package types

import (
	"fmt"
	"math"
	"strconv"
)

// Kind constants of a Datum.
const (
	KindNull byte = iota
	KindInt64
	KindUint64
	KindFloat64
	KindString
	KindBytes
)

// Datum is a single value of an arbitrary column type.
type Datum struct {
	k byte
	i int64
	b []byte
}

// Kind gets the kind of the datum.
func (d Datum) Kind() byte {
	return d.k
}

// IsNull checks if the datum is null.
func (d Datum) IsNull() bool {
	return d.k == KindNull
}

// GetInt64 gets the int64 value.
func (d Datum) GetInt64() int64 {
	return d.i
}

// GetUint64 gets the uint64 value.
func (d Datum) GetUint64() uint64 {
	return uint64(d.i)
}

// GetFloat64 gets the float64 value.
func (d Datum) GetFloat64() float64 {
	return math.Float64frombits(uint64(d.i))
}

// GetString gets the string value.
func (d Datum) GetString() string {
	return string(d.b)
}

// GetBytes gets the byte slice value.
func (d Datum) GetBytes() []byte {
	return d.b
}

// SetNull sets the datum to null.
func (d *Datum) SetNull() {
	d.k = KindNull
	d.i = 0
	d.b = nil
}

// SetInt64 sets the int64 value.
func (d *Datum) SetInt64(v int64) {
	d.k = KindInt64
	d.i = v
	d.b = nil
}

// SetUint64 sets the uint64 value.
func (d *Datum) SetUint64(v uint64) {
	d.k = KindUint64
	d.i = int64(v)
	d.b = nil
}

// SetFloat64 sets the float64 value.
func (d *Datum) SetFloat64(v float64) {
	d.k = KindFloat64
	d.i = int64(math.Float64bits(v))
	d.b = nil
}

// SetString sets the string value.
func (d *Datum) SetString(v string) {
	d.k = KindString
	d.i = 0
	d.b = []byte(v)
}

// SetBytes sets the byte slice value.
func (d *Datum) SetBytes(v []byte) {
	d.k = KindBytes
	d.i = 0
	d.b = v
}

// Len returns the payload size of the datum in bytes.
func (d Datum) Len() int {
	switch d.k {
	case KindNull:
		return 0
	case KindString, KindBytes:
		return len(d.b)
	default:
		return 8
	}
}

// Copy deep copies the datum into dst.
func (d Datum) Copy(dst *Datum) {
	*dst = d
	if d.b != nil {
		dst.b = make([]byte, len(d.b))
		copy(dst.b, d.b)
	}
}

// String implements fmt.Stringer.
func (d Datum) String() string {
	switch d.k {
	case KindNull:
		return "NULL"
	case KindInt64:
		return strconv.FormatInt(d.i, 10)
	case KindUint64:
		return strconv.FormatUint(uint64(d.i), 10)
	case KindFloat64:
		return strconv.FormatFloat(d.GetFloat64(), 'g', -1, 64)
	case KindString:
		return string(d.b)
	default:
		return fmt.Sprintf("%x", d.b)
	}
}

// NewDatum creates a null datum.
func NewDatum() Datum {
	return Datum{}
}

// NewIntDatum creates an int64 datum.
func NewIntDatum(v int64) (d Datum) {
	d.SetInt64(v)
	return d
}

// NewUintDatum creates a uint64 datum.
func NewUintDatum(v uint64) (d Datum) {
	d.SetUint64(v)
	return d
}

// NewFloat64Datum creates a float64 datum.
func NewFloat64Datum(v float64) (d Datum) {
	d.SetFloat64(v)
	return d
}

// NewStringDatum creates a string datum.
func NewStringDatum(v string) (d Datum) {
	d.SetString(v)
	return d
}

// NewBytesDatum creates a bytes datum.
func NewBytesDatum(v []byte) (d Datum) {
	d.SetBytes(v)
	return d
}
