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

package executor

import (
	"context"

	"github.com/pingcap/errors"
	"github.com/quarrybase/quarry/model"
	"github.com/quarrybase/quarry/statistics/handle"
	"github.com/quarrybase/quarry/util/logutil"
	"go.uber.org/zap"
)

// DropStatsExec runs one DROP STATS statement, clearing all stored statistics
// of the table.
type DropStatsExec struct {
	Handle *handle.Handle
	Table  *model.TableInfo
}

// Run executes the drop.
func (e *DropStatsExec) Run(ctx context.Context) error {
	if err := e.Handle.DropTableStats(e.Table.ID); err != nil {
		return errors.Trace(err)
	}
	logutil.Logger(ctx).Info("drop stats done", zap.String("table", e.Table.Name))
	return nil
}
