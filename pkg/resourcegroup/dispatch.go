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
	"go.uber.org/zap"

	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
	"github.com/apache/incubator-resourcegroup-admission/pkg/rgerrors"
)

// internalStartNextLocked starts at most one query somewhere in g's
// subtree and reports whether it did (spec.md §4.9). Leaves pop their own
// queuedQueries; internal nodes delegate to the head of eligibleSubGroups
// and re-append it at the tail on success, realizing round-robin fairness
// among siblings with outstanding work.
func (g *Group) internalStartNextLocked() (bool, error) {
	g.assertLockHeld()

	if !g.canRunMoreLocked() {
		return false, nil
	}

	if g.queuedQueries.Len() > 0 {
		q, ok := g.queuedQueries.Poll()
		if !ok {
			return false, nil
		}
		g.metrics.SetQueued(int64(g.queuedQueries.Len()))
		g.startInBackgroundLocked(q)
		return true, nil
	}

	child, ok := g.eligibleSubGroups.Poll()
	if !ok {
		return false, nil
	}

	started, err := child.internalStartNextLocked()
	if err != nil {
		return false, err
	}
	if !started {
		err := rgerrors.New(rgerrors.InvariantViolated,
			"eligible child reported no startable query: "+child.id.String())
		log.Logger().Error("invariant violated", zap.String("group", g.id.String()), zap.Error(err))
		panic(err)
	}

	g.descendantQueuedQueries--
	if child.isEligibleLocked() {
		g.eligibleSubGroups.Add(child)
	}
	// No updateEligibilityLocked call here by design (spec.md §4.9 step 7):
	// the recursion already updated the leaf, and ancestors are updated as
	// control returns through startInBackgroundLocked's own call.
	return true, nil
}
