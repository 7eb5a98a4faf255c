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

package statistics

import (
	"math"

	"modernc.org/mathutil"
)

// ExtrapolateNDV scales a distinct count observed on a sample up to the full
// table, using the Guaranteed-Error Estimator of Charikar, Chaudhuri, Motwani
// and Narasayya:
//
//	GEE = sqrt(totalRows/sampledRows) * f1 + (sampleNDV - f1)
//
// where f1 is the number of values seen exactly once in the sample. The
// estimate grows with sampleNDV and with sampledRows, and equals sampleNDV
// when the sample covers the whole table.
func ExtrapolateNDV(sampleNDV, onlyOnce, sampledRows, totalRows int64) int64 {
	if sampledRows <= 0 || sampleNDV <= 0 || totalRows <= 0 {
		return 0
	}
	if sampledRows >= totalRows {
		return mathutil.MinInt64(sampleNDV, totalRows)
	}
	if sampleNDV >= sampledRows {
		// Every sampled row held a distinct value; assume the column stays
		// unique at full scale.
		return totalRows
	}
	if onlyOnce <= 0 {
		// Every value recurred within the sample, so the sample very likely
		// saw the whole domain.
		return sampleNDV
	}
	if onlyOnce > sampleNDV {
		onlyOnce = sampleNDV
	}
	d := float64(sampleNDV)
	f1 := float64(onlyOnce)
	n := float64(sampledRows)
	numTotal := float64(totalRows)
	ndv := math.Sqrt(numTotal/n)*f1 + d - f1
	est := int64(math.Round(ndv))
	est = mathutil.MaxInt64(est, sampleNDV)
	return mathutil.MinInt64(est, totalRows)
}
