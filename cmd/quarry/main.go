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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/log"
	"github.com/quarrybase/quarry/config"
	"github.com/quarrybase/quarry/metrics"
	"github.com/quarrybase/quarry/util/logutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagCatalog string
	flagLevel   string
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		sig := <-sc
		log.Warn("received signal to exit", zap.Stringer("signal", sig))
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:              "quarry",
		Short:            "quarry is a table statistics engine for file-based tables.",
		TraverseChildren: true,
		SilenceUsage:     true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initEnv()
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "catalog.json", "catalog seed file path")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "log-level", "", "log level override")

	rootCmd.AddCommand(
		newComputeCommand(ctx),
		newDropCommand(ctx),
		newShowCommand(),
		newDumpCommand(),
		newLoadCommand(),
	)
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initEnv() error {
	cfg := config.NewConfig()
	if flagConfig != "" {
		if err := cfg.Load(flagConfig); err != nil {
			return err
		}
	}
	if flagLevel != "" {
		cfg.Log.Level = flagLevel
	}
	if err := cfg.Valid(); err != nil {
		return err
	}
	config.StoreGlobalConfig(cfg)
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		return err
	}
	metrics.RegisterMetrics()
	return nil
}
