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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Valid())
	require.Equal(t, "info", conf.Log.Level)
	require.Equal(t, "3s", conf.Performance.StatsLease)
	require.Equal(t, 3*time.Second, conf.Performance.StatsLeaseDuration())
	require.Equal(t, 4, conf.Performance.AnalyzeConcurrency)
	require.False(t, conf.Performance.RunAutoAnalyze)
	require.Equal(t, 0.5, conf.Performance.AutoAnalyzeRatio)
	require.Equal(t, int64(1000), conf.Performance.AutoAnalyzeMinCount)
	require.Equal(t, 10000, conf.Statistics.MaxFMSketchSize)
	require.Equal(t, 1024, conf.Statistics.ScanBatchSize)
}

func TestLoadFromFile(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(confFile, []byte(`
[log]
level = "warn"
format = "json"

[performance]
stats-lease = "10s"
analyze-concurrency = 8
run-auto-analyze = true
auto-analyze-ratio = 0.2

[statistics]
max-fm-sketch-size = 5000
scan-batch-size = 256
`), 0o644))

	conf := NewConfig()
	require.NoError(t, conf.Load(confFile))
	require.NoError(t, conf.Valid())
	require.Equal(t, "warn", conf.Log.Level)
	require.Equal(t, "json", conf.Log.Format)
	require.Equal(t, 10*time.Second, conf.Performance.StatsLeaseDuration())
	require.Equal(t, 8, conf.Performance.AnalyzeConcurrency)
	require.True(t, conf.Performance.RunAutoAnalyze)
	require.Equal(t, 0.2, conf.Performance.AutoAnalyzeRatio)
	require.Equal(t, 5000, conf.Statistics.MaxFMSketchSize)
	require.Equal(t, 256, conf.Statistics.ScanBatchSize)
	// Options the file omits keep their defaults.
	require.Equal(t, int64(1000), conf.Performance.AutoAnalyzeMinCount)
}

func TestLoadRejectsUnknownOptions(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(confFile, []byte(`
[performance]
no-such-option = true
`), 0o644))

	conf := NewConfig()
	err := conf.Load(confFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown configuration option")
}

func TestValid(t *testing.T) {
	conf := NewConfig()
	conf.Performance.StatsLease = "not-a-duration"
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Performance.AnalyzeConcurrency = 0
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Performance.AutoAnalyzeRatio = -0.1
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Statistics.MaxFMSketchSize = 0
	require.Error(t, conf.Valid())

	conf = NewConfig()
	conf.Statistics.ScanBatchSize = -1
	require.Error(t, conf.Valid())
}

func TestUpdateGlobal(t *testing.T) {
	originalConf := GetGlobalConfig()
	defer StoreGlobalConfig(originalConf)

	UpdateGlobal(func(conf *Config) {
		conf.Performance.AnalyzeConcurrency = 16
	})
	require.Equal(t, 16, GetGlobalConfig().Performance.AnalyzeConcurrency)
	// Readers holding the old pointer keep their view.
	require.Equal(t, 4, originalConf.Performance.AnalyzeConcurrency)
}
