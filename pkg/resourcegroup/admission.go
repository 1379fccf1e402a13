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
	"time"

	"go.uber.org/zap"

	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
	"github.com/apache/incubator-resourcegroup-admission/pkg/rgerrors"
	"github.com/apache/incubator-resourcegroup-admission/pkg/tracing"
)

// Add attempts to admit query to g. It returns true if accepted (started
// or enqueued), false if every admission path is closed. Rejection is not
// an error: it is the caller's signal to surface "too many queued
// queries" to the submitter (spec.md §4.3, §7).
func Add(g *Group, query Query) (bool, error) {
	span, _ := tracing.StartSpan(context.Background(), "resourcegroup.Add")
	defer span.Finish()

	g.lock()
	defer g.unlock()

	if !g.isLeafLocked() {
		return false, rgerrors.New(rgerrors.GroupNotLeaf, "add() called on an internal group: "+g.id.String())
	}

	canQueue, canRun := true, true
	for n := g; n != nil; n = n.parent {
		canQueue = canQueue && n.canQueueMoreLocked()
		canRun = canRun && n.canRunMoreLocked()
	}

	if !canQueue && !canRun {
		log.Logger().Debug("query rejected: no admission path open",
			zap.String("group", g.id.String()), zap.String("queryID", query.ID()))
		return false, nil
	}

	if canRun {
		g.startInBackgroundLocked(query)
	} else {
		g.enqueueLocked(query)
	}

	query.AddStateChangeListener(func() {
		if query.IsDone() {
			QueryFinished(g, query)
		}
	})
	// listener-race tolerance: the query may already have finished between
	// registration and this check, in which case the callback above may
	// never fire again (or may already have fired and raced us here);
	// queryFinishedLocked is idempotent so calling it again is safe.
	if query.IsDone() {
		g.queryFinishedLocked(query)
	}

	return true, nil
}

// enqueueLocked appends query to g's local queue and updates every proper
// ancestor's descendantQueuedQueries (spec.md §4.4). g must be a leaf.
func (g *Group) enqueueLocked(query Query) {
	g.assertLockHeld()
	g.queuedQueries.Add(query)
	for _, a := range g.properAncestorsLocked() {
		a.descendantQueuedQueries++
	}
	if g.queuedSince == nil {
		g.queuedSince = make(map[string]time.Time)
	}
	g.queuedSince[query.ID()] = time.Now()
	g.metrics.SetQueued(int64(g.queuedQueries.Len()))
	g.updateEligibilityLocked()
	log.Logger().Debug("query enqueued", zap.String("group", g.id.String()), zap.String("queryID", query.ID()))
}

// startInBackgroundLocked starts query under g (a leaf), updates every
// proper ancestor's descendantRunningQueries and dirty set, and submits
// the actual start to the executor (spec.md §4.5).
func (g *Group) startInBackgroundLocked(query Query) {
	g.assertLockHeld()
	g.runningQueries[query.ID()] = query
	child := g
	for _, a := range g.properAncestorsLocked() {
		a.descendantRunningQueries++
		a.markDirtyLocked(child)
		child = a
	}
	if since, ok := g.queuedSince[query.ID()]; ok {
		g.metrics.RecordWait(time.Since(since))
		delete(g.queuedSince, query.ID())
	}
	g.metrics.SetRunning(int64(len(g.runningQueries)) + g.descendantRunningQueries)
	g.updateEligibilityLocked()

	submitter := g.root.submitter
	log.Logger().Debug("query starting", zap.String("group", g.id.String()), zap.String("queryID", query.ID()))
	submitter.Submit(query.Start)
}
