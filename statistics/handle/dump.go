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

package handle

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/metrics"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
)

// ErrStatsNotFound is returned when dumping a table that has no stored stats.
var ErrStatsNotFound = errors.New("statistics not found")

// JSONTable is the dump format of one table's statistics.
type JSONTable struct {
	TableName      string                    `json:"table_name"`
	Count          int64                     `json:"count"`
	TotalFileBytes int64                     `json:"total_file_bytes"`
	Sampled        bool                      `json:"sampled"`
	SamplePercent  float64                   `json:"sample_percent,omitempty"`
	SampleSeed     int64                     `json:"sample_seed,omitempty"`
	Version        uint64                    `json:"version"`
	Partitions     map[string]*jsonPartition `json:"partitions"`
	Columns        map[string]*jsonColumn    `json:"columns"`
}

type jsonPartition struct {
	Count     int64 `json:"count"`
	FileBytes int64 `json:"file_bytes"`
}

type jsonColumn struct {
	NDV        int64 `json:"distinct_count"`
	NullCount  int64 `json:"null_count"`
	TotColSize int64 `json:"tot_col_size"`
	MaxColSize int64 `json:"max_col_size"`
}

// DumpStatsToJSON dumps the stored statistics of tbl to a JSONTable.
func (h *Handle) DumpStatsToJSON(tbl *model.TableInfo) (*JSONTable, error) {
	statsTbl := h.GetTableStats(tbl.ID)
	if statsTbl.Pseudo {
		metrics.DumpStatsCounter.WithLabelValues("dump", metrics.LblError).Inc()
		return nil, errors.Annotatef(ErrStatsNotFound, "table %s", tbl.Name)
	}
	js := &JSONTable{
		TableName:      tbl.Name,
		Count:          statsTbl.Count,
		TotalFileBytes: statsTbl.TotalFileBytes,
		Sampled:        statsTbl.Sampled,
		SamplePercent:  statsTbl.SamplePercent,
		SampleSeed:     statsTbl.SampleSeed,
		Version:        statsTbl.Version,
		Partitions:     make(map[string]*jsonPartition, len(statsTbl.Partitions)),
		Columns:        make(map[string]*jsonColumn, len(statsTbl.Columns)),
	}
	for i := range tbl.Partitions {
		p := &tbl.Partitions[i]
		ps, ok := statsTbl.Partitions[p.ID]
		if !ok {
			continue
		}
		js.Partitions[p.Name] = &jsonPartition{Count: ps.Count, FileBytes: ps.FileBytes}
	}
	for _, col := range tbl.Columns {
		cs, ok := statsTbl.Columns[col.ID]
		if !ok {
			continue
		}
		js.Columns[col.Name] = &jsonColumn{
			NDV:        cs.NDV,
			NullCount:  cs.NullCount,
			TotColSize: cs.TotColSize,
			MaxColSize: cs.MaxColSize,
		}
	}
	metrics.DumpStatsCounter.WithLabelValues("dump", metrics.LblOK).Inc()
	return js, nil
}

// LoadStatsFromJSON rebuilds a snapshot from a JSONTable and persists it,
// replacing whatever is currently stored for the table.
func (h *Handle) LoadStatsFromJSON(tbl *model.TableInfo, js *JSONTable) error {
	snap := &statistics.Table{
		TableID:        tbl.ID,
		Count:          js.Count,
		TotalFileBytes: js.TotalFileBytes,
		Sampled:        js.Sampled,
		SamplePercent:  js.SamplePercent,
		SampleSeed:     js.SampleSeed,
		Partitions:     make(map[int64]*statistics.PartitionStats, len(js.Partitions)),
		Columns:        make(map[int64]*statistics.Column, len(js.Columns)),
	}
	for i := range tbl.Partitions {
		p := &tbl.Partitions[i]
		jp, ok := js.Partitions[p.Name]
		if !ok {
			continue
		}
		snap.Partitions[p.ID] = &statistics.PartitionStats{
			PartitionID: p.ID,
			Count:       jp.Count,
			FileBytes:   jp.FileBytes,
		}
	}
	for _, col := range tbl.Columns {
		jc, ok := js.Columns[col.Name]
		if !ok {
			continue
		}
		snap.Columns[col.ID] = &statistics.Column{
			ColumnID:   col.ID,
			NDV:        jc.NDV,
			NullCount:  jc.NullCount,
			TotColSize: jc.TotColSize,
			MaxColSize: jc.MaxColSize,
		}
	}
	if err := h.SaveTableStatsToStorage(snap); err != nil {
		metrics.DumpStatsCounter.WithLabelValues("load", metrics.LblError).Inc()
		return errors.Trace(err)
	}
	metrics.DumpStatsCounter.WithLabelValues("load", metrics.LblOK).Inc()
	return nil
}

// blockSize is the size of one gzip block of an encoded JSONTable.
const blockSize = 8 * 1024

// JSONTableToBlocks converts a JSONTable to json, then compresses it to
// fixed-size blocks by gzip, the shape the stats transport expects.
func JSONTableToBlocks(js *JSONTable) ([][]byte, error) {
	data, err := json.Marshal(js)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var gzippedData bytes.Buffer
	gzipWriter := gzip.NewWriter(&gzippedData)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, errors.Trace(err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, errors.Trace(err)
	}
	blocksNum := gzippedData.Len() / blockSize
	if gzippedData.Len()%blockSize != 0 {
		blocksNum++
	}
	blocks := make([][]byte, blocksNum)
	for i := 0; i < blocksNum-1; i++ {
		blocks[i] = gzippedData.Bytes()[blockSize*i : blockSize*(i+1)]
	}
	blocks[blocksNum-1] = gzippedData.Bytes()[blockSize*(blocksNum-1):]
	return blocks, nil
}

// BlocksToJSONTable decodes gzip blocks produced by JSONTableToBlocks.
func BlocksToJSONTable(blocks [][]byte) (*JSONTable, error) {
	if len(blocks) == 0 {
		return nil, errors.New("no blocks")
	}
	data := blocks[0]
	for i := 1; i < len(blocks); i++ {
		data = append(data, blocks[i]...)
	}
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		_ = gzipReader.Close()
	}()
	jsonStr, err := io.ReadAll(gzipReader)
	if err != nil {
		return nil, errors.Trace(err)
	}
	js := &JSONTable{}
	if err := json.Unmarshal(jsonStr, js); err != nil {
		return nil, errors.Trace(err)
	}
	return js, nil
}
