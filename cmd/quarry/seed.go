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

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/catalog"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/types"
)

// The catalog seed file is a JSON document describing the tables the CLI
// operates on:
//
//	{
//	  "tables": [
//	    {
//	      "name": "sales",
//	      "columns": [{"name": "id", "type": "INT"}],
//	      "partition_keys": ["year"],
//	      "partitions": [
//	        {"key_values": ["2009"], "files": ["data/y2009.csv"]}
//	      ]
//	    }
//	  ]
//	}
//
// Unpartitioned tables list "files" directly instead of "partitions". File
// sizes are discovered with os.Stat relative to the seed file's directory.
type seedFile struct {
	Tables []seedTable `json:"tables"`
}

type seedTable struct {
	Name          string          `json:"name"`
	Columns       []seedColumn    `json:"columns"`
	PartitionKeys []string        `json:"partition_keys"`
	Partitions    []seedPartition `json:"partitions"`
	Files         []string        `json:"files"`
}

type seedColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type seedPartition struct {
	KeyValues []string `json:"key_values"`
	Files     []string `json:"files"`
}

// loadCatalog builds a catalog from the seed file at path.
func loadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, errors.Annotatef(err, "parse catalog seed %s", path)
	}
	baseDir := filepath.Dir(path)

	cat := catalog.New()
	for _, st := range seed.Tables {
		tbl, err := buildTable(baseDir, st)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if err := cat.CreateTable(tbl); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return cat, nil
}

func buildTable(baseDir string, st seedTable) (*model.TableInfo, error) {
	tbl := &model.TableInfo{Name: st.Name}
	for _, sc := range st.Columns {
		ft, err := types.ParseFieldType(sc.Type)
		if err != nil {
			return nil, errors.Annotatef(err, "table %s column %s", st.Name, sc.Name)
		}
		tbl.Columns = append(tbl.Columns, &model.ColumnInfo{Name: sc.Name, FieldType: ft})
	}

	if len(st.PartitionKeys) > 0 {
		tbl.PartitionKeys = st.PartitionKeys
		for _, sp := range st.Partitions {
			if len(sp.KeyValues) != len(st.PartitionKeys) {
				return nil, errors.Errorf("table %s: partition %v does not match partition keys %v",
					st.Name, sp.KeyValues, st.PartitionKeys)
			}
			files, err := statFiles(baseDir, sp.Files)
			if err != nil {
				return nil, errors.Trace(err)
			}
			tbl.Partitions = append(tbl.Partitions, model.PartitionInfo{
				Name:      partitionName(st.PartitionKeys, sp.KeyValues),
				KeyValues: sp.KeyValues,
				Files:     files,
			})
		}
		return tbl, nil
	}

	// An unpartitioned table holds one anonymous partition so file
	// bookkeeping stays uniform.
	files, err := statFiles(baseDir, st.Files)
	if err != nil {
		return nil, errors.Trace(err)
	}
	tbl.Partitions = []model.PartitionInfo{{Files: files}}
	return tbl, nil
}

func statFiles(baseDir string, paths []string) ([]model.FileBlock, error) {
	blocks := make([]model.FileBlock, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Trace(err)
		}
		blocks = append(blocks, model.FileBlock{Path: p, Size: info.Size()})
	}
	return blocks, nil
}

func partitionName(keys, values []string) string {
	parts := make([]string, len(keys))
	for i := range keys {
		parts[i] = keys[i] + "=" + values[i]
	}
	return strings.Join(parts, "/")
}
