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
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"context"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/types"
)

// nullLiteral is the CSV spelling of a null value.
const nullLiteral = `\N`

// CSVSource reads file blocks as local CSV files, one file per block. Fields
// are decoded according to the table's column types.
type CSVSource struct {
	// BatchSize is the number of rows per Next call, defaultBatchSize when 0.
	BatchSize int
}

// NewCSVSource creates a CSVSource with the default batch size.
func NewCSVSource() *CSVSource {
	return &CSVSource{}
}

// Open implements BlockSource.
func (s *CSVSource) Open(_ context.Context, tbl *model.TableInfo, block model.FileBlock) (RecordSet, error) {
	f, err := os.Open(block.Path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(tbl.Columns)
	r.ReuseRecord = true
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &csvRecordSet{
		file:      f,
		reader:    r,
		columns:   tbl.Columns,
		batchSize: batchSize,
	}, nil
}

type csvRecordSet struct {
	file      *os.File
	reader    *csv.Reader
	columns   []*model.ColumnInfo
	batchSize int
}

// Next implements RecordSet.
func (rs *csvRecordSet) Next(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	batch := make([]Row, 0, rs.batchSize)
	for len(batch) < rs.batchSize {
		record, err := rs.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		row := make(Row, len(rs.columns))
		for i, col := range rs.columns {
			d, err := decodeField(record[i], col.FieldType)
			if err != nil {
				return nil, errors.Annotatef(err, "file %s column %s", rs.file.Name(), col.Name)
			}
			row[i] = d
		}
		batch = append(batch, row)
	}
	return batch, nil
}

// Close implements RecordSet.
func (rs *csvRecordSet) Close() error {
	return errors.Trace(rs.file.Close())
}

func decodeField(field string, ft types.FieldType) (types.Datum, error) {
	if field == nullLiteral {
		return types.NewDatum(), nil
	}
	switch ft {
	case types.TypeInt:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return types.NewDatum(), errors.Trace(err)
		}
		return types.NewIntDatum(v), nil
	case types.TypeDouble:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.NewDatum(), errors.Trace(err)
		}
		return types.NewFloat64Datum(v), nil
	case types.TypeString:
		return types.NewStringDatum(field), nil
	}
	return types.NewDatum(), errors.Errorf("unsupported field type %v", ft)
}
