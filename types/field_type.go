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
	"strings"

	"github.com/pingcap/errors"
)

// FieldType is the type of a column.
type FieldType byte

// Field types supported by the scan layer.
const (
	TypeInt FieldType = iota
	TypeDouble
	TypeString
)

// String implements fmt.Stringer.
func (ft FieldType) String() string {
	switch ft {
	case TypeInt:
		return "INT"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	}
	return "UNKNOWN"
}

// ParseFieldType parses a type name into a FieldType. Matching is
// case-insensitive.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToUpper(s) {
	case "INT", "BIGINT":
		return TypeInt, nil
	case "DOUBLE", "FLOAT":
		return TypeDouble, nil
	case "STRING", "VARCHAR", "TEXT":
		return TypeString, nil
	}
	return 0, errors.Errorf("unknown field type %q", s)
}

// MarshalText implements encoding.TextMarshaler, used by the catalog seed file.
func (ft FieldType) MarshalText() ([]byte, error) {
	return []byte(ft.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ft *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return errors.Trace(err)
	}
	*ft = parsed
	return nil
}
