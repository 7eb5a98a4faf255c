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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatumKinds(t *testing.T) {
	null := NewDatum()
	require.True(t, null.IsNull())
	require.Equal(t, KindNull, null.Kind())

	i := NewIntDatum(-42)
	require.Equal(t, KindInt64, i.Kind())
	require.Equal(t, int64(-42), i.GetInt64())

	u := NewUintDatum(math.MaxUint64)
	require.Equal(t, KindUint64, u.Kind())
	require.Equal(t, uint64(math.MaxUint64), u.GetUint64())

	f := NewFloat64Datum(3.25)
	require.Equal(t, KindFloat64, f.Kind())
	require.Equal(t, 3.25, f.GetFloat64())

	s := NewStringDatum("hello")
	require.Equal(t, KindString, s.Kind())
	require.Equal(t, "hello", s.GetString())

	b := NewBytesDatum([]byte{0x01, 0x02})
	require.Equal(t, KindBytes, b.Kind())
	require.Equal(t, []byte{0x01, 0x02}, b.GetBytes())
}

func TestDatumLen(t *testing.T) {
	require.Equal(t, 0, NewDatum().Len())
	require.Equal(t, 8, NewIntDatum(1).Len())
	require.Equal(t, 8, NewFloat64Datum(1).Len())
	require.Equal(t, 5, NewStringDatum("hello").Len())
	require.Equal(t, 0, NewStringDatum("").Len())
	require.Equal(t, 3, NewBytesDatum([]byte{1, 2, 3}).Len())
}

func TestDatumCopy(t *testing.T) {
	src := NewBytesDatum([]byte{1, 2, 3})
	var dst Datum
	src.Copy(&dst)
	dst.GetBytes()[0] = 9
	require.Equal(t, []byte{1, 2, 3}, src.GetBytes())
}

func TestDatumString(t *testing.T) {
	require.Equal(t, "NULL", NewDatum().String())
	require.Equal(t, "-7", NewIntDatum(-7).String())
	require.Equal(t, "1.5", NewFloat64Datum(1.5).String())
	require.Equal(t, "abc", NewStringDatum("abc").String())
}

func TestParseFieldType(t *testing.T) {
	for name, want := range map[string]FieldType{
		"INT": TypeInt, "bigint": TypeInt,
		"DOUBLE": TypeDouble, "float": TypeDouble,
		"STRING": TypeString, "VarChar": TypeString, "text": TypeString,
	} {
		got, err := ParseFieldType(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := ParseFieldType("decimal")
	require.Error(t, err)
}

func TestFieldTypeText(t *testing.T) {
	for _, ft := range []FieldType{TypeInt, TypeDouble, TypeString} {
		text, err := ft.MarshalText()
		require.NoError(t, err)
		var parsed FieldType
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, ft, parsed)
	}
	var ft FieldType
	require.Error(t, ft.UnmarshalText([]byte("decimal")))
}
