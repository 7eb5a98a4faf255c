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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cheynewallace/tabby"
	"github.com/docker/go-units"
	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/datasource"
	"github.com/quarrybase/quarry/domain"
	"github.com/quarrybase/quarry/executor"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics"
	"github.com/quarrybase/quarry/statistics/handle"
	"github.com/spf13/cobra"
)

func openDomain(tableName string) (*domain.Domain, *model.TableInfo, error) {
	cat, err := loadCatalog(flagCatalog)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	tbl, err := cat.Table(tableName)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return domain.NewDomain(cat, datasource.NewCSVSource()), tbl, nil
}

func newComputeCommand(ctx context.Context) *cobra.Command {
	var (
		percent float64
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "compute <table>",
		Short: "Compute statistics for a table, optionally from a block sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			do, tbl, err := openDomain(args[0])
			if err != nil {
				return err
			}
			var spec *statistics.SampleSpec
			if cmd.Flags().Changed("sample") {
				spec = &statistics.SampleSpec{Percent: percent, Seed: seed}
			}
			exec := &executor.ComputeStatsExec{
				Handle: do.StatsHandle(),
				Source: do.BlockSource(),
				Table:  tbl,
				Spec:   spec,
			}
			snap, err := exec.Run(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("computed stats for %s: %d rows\n", tbl.Name, snap.Count)
			return nil
		},
	}
	cmd.Flags().Float64Var(&percent, "sample", 0, "sampling percentage in (0, 100]")
	cmd.Flags().Int64Var(&seed, "seed", 0, "sampling seed, for repeatable selections")
	return cmd
}

func newDropCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <table>",
		Short: "Drop all stored statistics of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			do, tbl, err := openDomain(args[0])
			if err != nil {
				return err
			}
			exec := &executor.DropStatsExec{Handle: do.StatsHandle(), Table: tbl}
			if err := exec.Run(ctx); err != nil {
				return err
			}
			cmd.Printf("dropped stats for %s\n", tbl.Name)
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	var showColumns bool
	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Show table or column statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			do, tbl, err := openDomain(args[0])
			if err != nil {
				return err
			}
			if showColumns {
				renderColumnStats(tbl, (&executor.ShowColumnStatsExec{Handle: do.StatsHandle(), Table: tbl}).Run())
				return nil
			}
			renderTableStats(tbl, (&executor.ShowTableStatsExec{Handle: do.StatsHandle(), Table: tbl}).Run())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showColumns, "columns", false, "show per-column stats instead of per-partition")
	return cmd
}

func renderTableStats(tbl *model.TableInfo, rows []executor.TableStatsRow) {
	t := tabby.New()
	headers := make([]any, 0, len(tbl.PartitionKeys)+4)
	for _, key := range tbl.PartitionKeys {
		headers = append(headers, strings.ToUpper(key))
	}
	headers = append(headers, "#ROWS", "EXTRAP #ROWS", "#FILES", "SIZE")
	t.AddHeader(headers...)
	for _, row := range rows {
		line := make([]any, 0, len(headers))
		for _, kv := range row.KeyValues {
			line = append(line, kv)
		}
		for len(line) < len(tbl.PartitionKeys) {
			line = append(line, "")
		}
		if !tbl.IsPartitioned() {
			// Single Total row for unpartitioned tables.
			line = line[:0]
		}
		line = append(line,
			strconv.FormatInt(row.Rows, 10),
			strconv.FormatInt(row.ExtrapRows, 10),
			strconv.FormatInt(row.Files, 10),
			units.HumanSize(float64(row.Bytes)))
		t.AddLine(line...)
	}
	t.Print()
}

func renderColumnStats(_ *model.TableInfo, rows []executor.ColumnStatsRow) {
	t := tabby.New()
	t.AddHeader("COLUMN", "TYPE", "#DISTINCT VALUES", "#NULLS", "MAX SIZE", "AVG SIZE")
	for _, row := range rows {
		avg := "-1"
		if row.AvgSize >= 0 {
			avg = fmt.Sprintf("%.2f", row.AvgSize)
		}
		t.AddLine(row.Column, row.Type,
			strconv.FormatInt(row.NDV, 10),
			strconv.FormatInt(row.NullCount, 10),
			strconv.FormatInt(row.MaxSize, 10),
			avg)
	}
	t.Print()
}

func newDumpCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump <table>",
		Short: "Dump a table's statistics to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			do, tbl, err := openDomain(args[0])
			if err != nil {
				return err
			}
			js, err := do.StatsHandle().DumpStatsToJSON(tbl)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(js, "", "  ")
			if err != nil {
				return errors.Trace(err)
			}
			if output == "" {
				cmd.Println(string(data))
				return nil
			}
			return errors.Trace(os.WriteFile(output, data, 0o644))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func newLoadCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "load <table>",
		Short: "Load a table's statistics from a JSON dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			do, tbl, err := openDomain(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return errors.Trace(err)
			}
			js := &handle.JSONTable{}
			if err := json.Unmarshal(data, js); err != nil {
				return errors.Trace(err)
			}
			if err := do.StatsHandle().LoadStatsFromJSON(tbl, js); err != nil {
				return err
			}
			cmd.Printf("loaded stats for %s\n", tbl.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "stats.json", "input file")
	return cmd
}
