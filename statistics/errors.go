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
	"github.com/pingcap/errors"
)

// Sampling argument errors. They are returned before any scan begins.
var (
	// ErrInvalidSamplePercent is returned when the sampling percentage falls
	// outside (0, 100].
	ErrInvalidSamplePercent = errors.New("sampling percentage must be greater than 0 and at most 100")
	// ErrInvalidSampleSeed is returned for a negative sampling seed.
	ErrInvalidSampleSeed = errors.New("sampling seed must be a non-negative integer")
)
