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
	"os"
	"path/filepath"
	"testing"

	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/types"
	"github.com/stretchr/testify/require"
)

func csvTableInfo() *model.TableInfo {
	return &model.TableInfo{
		Name: "t",
		Columns: []*model.ColumnInfo{
			{ID: 1, Name: "id", FieldType: types.TypeInt},
			{ID: 2, Name: "score", FieldType: types.TypeDouble},
			{ID: 3, Name: "name", FieldType: types.TypeString},
		},
	}
}

func writeCSV(t *testing.T, content string) model.FileBlock {
	path := filepath.Join(t.TempDir(), "block.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return model.FileBlock{Path: path, Size: info.Size()}
}

func TestCSVSourceScan(t *testing.T) {
	block := writeCSV(t, "1,1.5,alice\n2,\\N,bob\n3,2.25,\\N\n")
	src := NewCSVSource()
	rs, err := src.Open(context.Background(), csvTableInfo(), block)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, rs.Close())
	}()

	rows := drain(t, rs)
	require.Len(t, rows, 3)
	require.Equal(t, int64(1), rows[0][0].GetInt64())
	require.Equal(t, 1.5, rows[0][1].GetFloat64())
	require.Equal(t, "alice", rows[0][2].GetString())
	require.True(t, rows[1][1].IsNull())
	require.True(t, rows[2][2].IsNull())
}

func TestCSVSourceBatching(t *testing.T) {
	var content string
	for i := 0; i < 10; i++ {
		content += "1,1.0,x\n"
	}
	block := writeCSV(t, content)
	src := &CSVSource{BatchSize: 3}
	rs, err := src.Open(context.Background(), csvTableInfo(), block)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, rs.Close())
	}()

	sizes := []int{}
	for {
		batch, err := rs.Next(context.Background())
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		sizes = append(sizes, len(batch))
	}
	require.Equal(t, []int{3, 3, 3, 1}, sizes)
}

func TestCSVSourceBadField(t *testing.T) {
	block := writeCSV(t, "not-a-number,1.0,x\n")
	src := NewCSVSource()
	rs, err := src.Open(context.Background(), csvTableInfo(), block)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, rs.Close())
	}()

	_, err = rs.Next(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "column id")
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource()
	_, err := src.Open(context.Background(), csvTableInfo(), model.FileBlock{Path: "/no/such/file.csv"})
	require.Error(t, err)
}
