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

// QueryFinished is the terminal-state callback for query, idempotent:
// calling it once query is already cleaned up is a no-op (spec.md §4.7).
func QueryFinished(g *Group, query Query) {
	span, _ := tracing.StartSpan(context.Background(), "resourcegroup.QueryFinished")
	defer span.Finish()

	g.lock()
	defer g.unlock()
	g.queryFinishedLocked(query)
}

func (g *Group) queryFinishedLocked(query Query) {
	g.assertLockHeld()

	if _, running := g.runningQueries[query.ID()]; running {
		delete(g.runningQueries, query.ID())
		for _, a := range g.properAncestorsLocked() {
			a.descendantRunningQueries--
		}
		g.metrics.SetRunning(int64(len(g.runningQueries)) + g.descendantRunningQueries)
	} else if g.queuedQueries.Contains(query) {
		g.queuedQueries.Remove(query)
		delete(g.queuedSince, query.ID())
		for _, a := range g.properAncestorsLocked() {
			a.descendantQueuedQueries--
		}
		g.metrics.SetQueued(int64(g.queuedQueries.Len()))
	} else {
		// already cleaned up; terminal notifications may be redelivered.
		return
	}

	log.Logger().Debug("query finished", zap.String("group", g.id.String()), zap.String("queryID", query.ID()))
	g.updateEligibilityLocked()
}
