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
	"testing"

	"gotest.tools/assert"

	"github.com/apache/incubator-resourcegroup-admission/pkg/refexecutor"
	"github.com/apache/incubator-resourcegroup-admission/pkg/refquery"
)

// Stats/IsRunning/IsQueued are used throughout rather than refquery's own
// State(), because query.Start() runs on the (possibly async) submitter:
// this group's own bookkeeping is what is actually updated synchronously
// under the root lock, and is what these scenarios are really about.

// scenario 1: Basic FIFO. Single leaf, maxRunning=1, maxQueued=2.
func TestBasicFIFO(t *testing.T) {
	root, err := NewRoot("root", 1, 2, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)

	q1, q2, q3, q4 := refquery.New(0), refquery.New(0), refquery.New(0), refquery.New(0)

	ok, err := Add(root, q1)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = Add(root, q2)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = Add(root, q3)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = Add(root, q4)
	assert.NilError(t, err)
	assert.Equal(t, ok, false)

	stats := GetStats(root)
	assert.Equal(t, stats.Running, int64(1))
	assert.Equal(t, stats.Queued, int64(2))
	assert.Assert(t, IsRunning(root, q1))
	assert.Assert(t, IsQueued(root, q2))
	assert.Assert(t, IsQueued(root, q3))

	q1.Finish()
	assert.NilError(t, ProcessQueuedQueries(root))
	assert.Assert(t, IsRunning(root, q2))
	assert.Assert(t, !IsRunning(root, q1))
}

// scenario 2: ancestor gating. Root maxRunning=1, leaves A and B each maxRunning=1.
func TestAncestorGating(t *testing.T) {
	root, err := NewRoot("root", 1, 10, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)
	a, err := GetOrCreateSubGroup(root, "a", 1, 10, 1<<30)
	assert.NilError(t, err)
	b, err := GetOrCreateSubGroup(root, "b", 1, 10, 1<<30)
	assert.NilError(t, err)

	qa := refquery.New(0)
	ok, err := Add(a, qa)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, IsRunning(a, qa))

	qb := refquery.New(0)
	ok, err = Add(b, qb)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, IsQueued(b, qb))

	qa.Finish()
	assert.NilError(t, ProcessQueuedQueries(root))
	assert.Assert(t, IsRunning(b, qb))
}

// scenario 3: round-robin fairness across two leaves with 5 queued queries
// each: one tick starts them alternately, a1,b1,a2,b2,...,a5,b5.
func TestRoundRobinFairness(t *testing.T) {
	root, err := NewRoot("root", 10, 100, 1<<30, syncSubmitter{})
	assert.NilError(t, err)
	a, err := GetOrCreateSubGroup(root, "a", 10, 100, 1<<30)
	assert.NilError(t, err)
	b, err := GetOrCreateSubGroup(root, "b", 10, 100, 1<<30)
	assert.NilError(t, err)

	// Close the gate at the root first so nothing auto-starts on Add;
	// every submission below goes through enqueue instead.
	assert.NilError(t, SetMaxRunningQueries(root, 0))

	// syncSubmitter runs query.Start inline, so this listener records the
	// exact order in which the tick starts queries.
	var started []*refquery.Query
	recordStart := func(q *refquery.Query) {
		q.AddStateChangeListener(func() {
			if q.State() == refquery.StateRunning {
				started = append(started, q)
			}
		})
	}

	var aQueries, bQueries []*refquery.Query
	for i := 0; i < 5; i++ {
		qa := refquery.New(0)
		recordStart(qa)
		aQueries = append(aQueries, qa)
		ok, err := Add(a, qa)
		assert.NilError(t, err)
		assert.Assert(t, ok)

		qb := refquery.New(0)
		recordStart(qb)
		bQueries = append(bQueries, qb)
		ok, err = Add(b, qb)
		assert.NilError(t, err)
		assert.Assert(t, ok)
	}

	assert.NilError(t, SetMaxRunningQueries(root, 10))
	assert.NilError(t, ProcessQueuedQueries(root))

	assert.Equal(t, len(started), 10)
	for i := 0; i < 5; i++ {
		assert.Assert(t, IsRunning(a, aQueries[i]))
		assert.Assert(t, IsRunning(b, bQueries[i]))
		assert.Equal(t, started[2*i], aQueries[i])
		assert.Equal(t, started[2*i+1], bQueries[i])
	}
}

// scenario 4: memory gate. softMemory=100, maxRunning=10; two running queries
// reserve 60 and 50; after a tick, cached usage gates further admission even
// though running < max.
func TestMemoryGate(t *testing.T) {
	root, err := NewRoot("root", 10, 10, 100, refexecutor.Goroutine{})
	assert.NilError(t, err)

	q1 := refquery.New(60)
	ok, err := Add(root, q1)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	q2 := refquery.New(50)
	ok, err = Add(root, q2)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	assert.NilError(t, ProcessQueuedQueries(root))
	stats := GetStats(root)
	assert.Equal(t, stats.CachedMemoryUsageBytes, int64(110))

	q3 := refquery.New(0)
	ok, err = Add(root, q3)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, IsQueued(root, q3))
	assert.Assert(t, !IsRunning(root, q3))
}

// scenario 5: listener race. A query that is already terminal at the
// moment of Add() still ends up fully cleaned up, and Add returns true.
func TestListenerRace(t *testing.T) {
	root, err := NewRoot("root", 1, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)

	q := refquery.New(0)
	q.Finish() // already terminal before Add ever sees it

	ok, err := Add(root, q)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	stats := GetStats(root)
	assert.Equal(t, stats.Running, int64(0))
	assert.Equal(t, stats.Queued, int64(0))
}

// scenario 6: reconfigure opens the gate. maxRunning=0, one queued query;
// raising the limit and ticking starts it.
func TestReconfigureOpensGate(t *testing.T) {
	root, err := NewRoot("root", 0, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)

	q := refquery.New(0)
	ok, err := Add(root, q)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, IsQueued(root, q))

	assert.NilError(t, SetMaxRunningQueries(root, 1))
	assert.NilError(t, ProcessQueuedQueries(root))
	assert.Assert(t, IsRunning(root, q))
}

func TestAddOnInternalGroupRejected(t *testing.T) {
	root, err := NewRoot("root", 1, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)
	_, err = GetOrCreateSubGroup(root, "child", 1, 1, 1<<30)
	assert.NilError(t, err)

	_, err = Add(root, refquery.New(0))
	assert.ErrorContains(t, err, "GroupNotLeaf")
}

func TestGetOrCreateSubGroupOnLeafParentWithQueries(t *testing.T) {
	root, err := NewRoot("root", 1, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)
	ok, err := Add(root, refquery.New(0))
	assert.NilError(t, err)
	assert.Assert(t, ok)

	_, err = GetOrCreateSubGroup(root, "child", 1, 1, 1<<30)
	assert.ErrorContains(t, err, "GroupNotLeaf")
}

func TestGetOrCreateSubGroupIgnoresNewLimitsOnExisting(t *testing.T) {
	root, err := NewRoot("root", 1, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)
	first, err := GetOrCreateSubGroup(root, "child", 5, 5, 5)
	assert.NilError(t, err)

	second, err := GetOrCreateSubGroup(root, "child", 100, 100, 100)
	assert.NilError(t, err)
	assert.Equal(t, first, second)

	stats := GetStats(second)
	assert.Equal(t, stats.MaxRunningQueries, int64(5))
}

func TestQueryFinishedIsIdempotent(t *testing.T) {
	root, err := NewRoot("root", 1, 1, 1<<30, refexecutor.Goroutine{})
	assert.NilError(t, err)
	q := refquery.New(0)
	ok, err := Add(root, q)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	q.Finish()
	QueryFinished(root, q)
	QueryFinished(root, q) // redelivery must be a no-op, not a panic

	stats := GetStats(root)
	assert.Equal(t, stats.Running, int64(0))
}
