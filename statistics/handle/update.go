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
	"fmt"

	"github.com/quarrybase/quarry/statistics"
)

// TableAnalyzed checks if the table has stored statistics.
func TableAnalyzed(tbl *statistics.Table) bool {
	return !tbl.Pseudo && tbl.Count >= 0
}

// NeedAnalyzeTable checks if the table should be auto-analyzed:
//  1. A table with no statistics at all is always analyzed.
//  2. An analyzed table is re-analyzed when modifyCount/rowCount exceeds
//     autoAnalyzeRatio, unless it is smaller than minCount rows.
//
// The returned reason is logged by the auto-analyze worker.
func NeedAnalyzeTable(tbl *statistics.Table, modifyCount int64, autoAnalyzeRatio float64, minCount int64) (bool, string) {
	if !TableAnalyzed(tbl) {
		return true, "table unanalyzed"
	}
	if autoAnalyzeRatio == 0 {
		return false, ""
	}
	if tbl.Count < minCount {
		return false, ""
	}
	if float64(modifyCount)/float64(tbl.Count) <= autoAnalyzeRatio {
		return false, ""
	}
	return true, fmt.Sprintf("too many modifications(%d/%d>%v)", modifyCount, tbl.Count, autoAnalyzeRatio)
}
