/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package resourcegroup

import (
	"context"

	"go.uber.org/zap"

	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
	"github.com/apache/incubator-resourcegroup-admission/pkg/tracing"
)

// ProcessQueuedQueries is the driver tick: refresh memory accounting, then
// dispatch until no more eligible work remains (spec.md §4.10). root must
// be the root of its tree. The whole tick runs under the tree's single
// lock, which is what serializes concurrent ticks with each other and
// with every other operation on the tree; spec.md §5 additionally frames
// this as the root's monitor, which in this implementation is the same
// sync.Mutex.
func ProcessQueuedQueries(root *Group) error {
	if root.parent != nil {
		panic("ProcessQueuedQueries called on a non-root group: " + root.id.String())
	}

	span, _ := tracing.StartSpan(context.Background(), "resourcegroup.ProcessQueuedQueries")
	defer span.Finish()

	root.lock()
	defer root.unlock()

	root.internalRefreshStatsLocked()

	started := 0
	for {
		ok, err := root.internalStartNextLocked()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		started++
	}

	log.Logger().Debug("driver tick complete", zap.String("root", root.id.String()), zap.Int("started", started))
	return nil
}
