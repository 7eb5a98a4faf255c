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

package config

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/util/logutil"
)

// Config contains configuration options.
type Config struct {
	Log         Log         `toml:"log" json:"log"`
	Performance Performance `toml:"performance" json:"performance"`
	Statistics  Statistics  `toml:"statistics" json:"statistics"`
}

// Log is the log section of config.
type Log struct {
	// Log level, one of debug, info, warn, error, fatal.
	Level string `toml:"level" json:"level"`
	// Log format, one of json or text.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// Performance is the performance section of the config.
type Performance struct {
	// StatsLease is the period of the background stats refresh worker.
	// "0s" disables the worker.
	StatsLease string `toml:"stats-lease" json:"stats-lease"`
	// AnalyzeConcurrency is the number of concurrent block scan tasks one
	// COMPUTE STATS run may use.
	AnalyzeConcurrency int `toml:"analyze-concurrency" json:"analyze-concurrency"`
	// RunAutoAnalyze enables the background auto-analyze worker.
	RunAutoAnalyze bool `toml:"run-auto-analyze" json:"run-auto-analyze"`
	// AutoAnalyzeRatio triggers auto analyze when
	// modifyCount/rowCount exceeds it. 0 disables the ratio rule.
	AutoAnalyzeRatio float64 `toml:"auto-analyze-ratio" json:"auto-analyze-ratio"`
	// AutoAnalyzeMinCount skips the ratio rule for tables smaller than this.
	AutoAnalyzeMinCount int64 `toml:"auto-analyze-min-count" json:"auto-analyze-min-count"`
}

// Statistics is the statistics section of the config.
type Statistics struct {
	// MaxFMSketchSize bounds the number of hash values one FM sketch retains.
	MaxFMSketchSize int `toml:"max-fm-sketch-size" json:"max-fm-sketch-size"`
	// ScanBatchSize is the number of rows one RecordSet.Next call returns.
	ScanBatchSize int `toml:"scan-batch-size" json:"scan-batch-size"`
}

var defaultConf = Config{
	Log: Log{
		Level:  logutil.DefaultLogLevel,
		Format: logutil.DefaultLogFormat,
		File:   logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
	},
	Performance: Performance{
		StatsLease:          "3s",
		AnalyzeConcurrency:  4,
		RunAutoAnalyze:      false,
		AutoAnalyzeRatio:    0.5,
		AutoAnalyzeMinCount: 1000,
	},
	Statistics: Statistics{
		MaxFMSketchSize: 10000,
		ScanBatchSize:   1024,
	},
}

var globalConf atomic.Pointer[Config]

func init() {
	conf := defaultConf
	StoreGlobalConfig(&conf)
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this process.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// UpdateGlobal updates the global config through a modifier function, copy on
// write. Readers holding the old pointer keep a consistent view.
func UpdateGlobal(f func(conf *Config)) {
	g := GetGlobalConfig()
	newConf := *g
	f(&newConf)
	StoreGlobalConfig(&newConf)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return errors.Errorf("config file %s contained unknown configuration options: %s",
			confFile, strings.Join(keys, ", "))
	}
	return nil
}

// Valid checks whether the config is valid.
func (c *Config) Valid() error {
	if _, err := time.ParseDuration(c.Performance.StatsLease); err != nil {
		return errors.Errorf("invalid stats-lease %q", c.Performance.StatsLease)
	}
	if c.Performance.AnalyzeConcurrency < 1 {
		return errors.Errorf("analyze-concurrency should be at least 1, got %d", c.Performance.AnalyzeConcurrency)
	}
	if c.Performance.AutoAnalyzeRatio < 0 {
		return errors.Errorf("auto-analyze-ratio should not be negative, got %v", c.Performance.AutoAnalyzeRatio)
	}
	if c.Statistics.MaxFMSketchSize <= 0 {
		return errors.Errorf("max-fm-sketch-size should be positive, got %d", c.Statistics.MaxFMSketchSize)
	}
	if c.Statistics.ScanBatchSize <= 0 {
		return errors.Errorf("scan-batch-size should be positive, got %d", c.Statistics.ScanBatchSize)
	}
	return nil
}

// StatsLeaseDuration returns the parsed stats lease. The config must have
// passed Valid.
func (c *Performance) StatsLeaseDuration() time.Duration {
	d, err := time.ParseDuration(c.StatsLease)
	if err != nil {
		return 0
	}
	return d
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, logutil.FileLogConfig{FileLogConfig: l.File.FileLogConfig}, l.DisableTimestamp)
}
