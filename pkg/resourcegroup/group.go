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

// Package resourcegroup is the admission/scheduling core: a tree of
// resource groups, each enforcing per-group limits, with a single lock
// per tree guarding every node's mutable state.
package resourcegroup

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/apache/incubator-resourcegroup-admission/pkg/collections"
	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
	"github.com/apache/incubator-resourcegroup-admission/pkg/metrics"
	"github.com/apache/incubator-resourcegroup-admission/pkg/rgerrors"
)

// Group is a vertex in the admission tree. All exported methods acquire
// the tree's root lock for their full duration; unexported "Locked"
// methods assert it is already held.
type Group struct {
	id     ID
	parent *Group // nil iff this is the root
	root   *Group // self, for the root; lock/metrics anchor otherwise

	monitor   *sync.Mutex // only ever non-nil, and only ever locked, on the root
	registry  *metrics.Registry
	metrics   *metrics.GroupMetrics
	submitter Submitter

	subGroups map[string]*Group

	maxRunningQueries    int64
	maxQueuedQueries     int64
	softMemoryLimitBytes int64

	queuedQueries     *collections.LinkedQueue[string, Query]
	runningQueries    map[string]Query
	eligibleSubGroups *collections.LinkedQueue[string, *Group]
	dirtySubGroups    map[string]*Group

	descendantRunningQueries int64
	descendantQueuedQueries  int64
	cachedMemoryUsageBytes   int64

	// queuedSince tracks per-query enqueue time for the wait-time histogram;
	// lazily initialized, only ever populated on leaves.
	queuedSince map[string]time.Time
}

// NewRoot creates the root group of a new tree, with its own limits and
// executor. It lives for the process; there is no destroy operation.
func NewRoot(name string, maxRunningQueries, maxQueuedQueries, softMemoryLimitBytes int64, submitter Submitter) (*Group, error) {
	if err := rgerrors.ValidateName(name); err != nil {
		return nil, err
	}
	if err := rgerrors.ValidateNonNegative(
		rgerrors.FieldCheck{Name: "maxRunningQueries", Value: maxRunningQueries},
		rgerrors.FieldCheck{Name: "maxQueuedQueries", Value: maxQueuedQueries},
		rgerrors.FieldCheck{Name: "softMemoryLimitBytes", Value: softMemoryLimitBytes},
	); err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, rgerrors.New(rgerrors.InvalidArgument, "submitter must not be nil")
	}

	reg := metrics.NewRegistry()
	g := &Group{
		id:                   rootID(name),
		monitor:              &sync.Mutex{},
		registry:             reg,
		submitter:            submitter,
		subGroups:            make(map[string]*Group),
		maxRunningQueries:    maxRunningQueries,
		maxQueuedQueries:     maxQueuedQueries,
		softMemoryLimitBytes: softMemoryLimitBytes,
		runningQueries:       make(map[string]Query),
		dirtySubGroups:       make(map[string]*Group),
	}
	g.root = g
	g.metrics = reg.ForGroup(g.id.String())
	g.queuedQueries = collections.New(func(q Query) string { return q.ID() })
	g.eligibleSubGroups = collections.New(func(c *Group) string { return c.id.String() })

	log.Logger().Info("resource group root created",
		zap.String("group", g.id.String()),
		zap.Int64("maxRunningQueries", maxRunningQueries),
		zap.Int64("maxQueuedQueries", maxQueuedQueries),
		zap.Int64("softMemoryLimitBytes", softMemoryLimitBytes))
	return g, nil
}

// GetOrCreateSubGroup creates (or returns the existing) child of parent
// named name. parent must currently be a leaf holding no queries; see
// spec.md §4.2/§9 for why an existing child's limits are not updated here.
func GetOrCreateSubGroup(parent *Group, name string, maxRunningQueries, maxQueuedQueries, softMemoryLimitBytes int64) (*Group, error) {
	if err := rgerrors.ValidateName(name); err != nil {
		return nil, err
	}
	if err := rgerrors.ValidateNonNegative(
		rgerrors.FieldCheck{Name: "maxRunningQueries", Value: maxRunningQueries},
		rgerrors.FieldCheck{Name: "maxQueuedQueries", Value: maxQueuedQueries},
		rgerrors.FieldCheck{Name: "softMemoryLimitBytes", Value: softMemoryLimitBytes},
	); err != nil {
		return nil, err
	}

	parent.lock()
	defer parent.unlock()

	if existing, ok := parent.subGroups[name]; ok {
		return existing, nil
	}
	if len(parent.subGroups) == 0 && (parent.queuedQueries.Len() > 0 || len(parent.runningQueries) > 0) {
		return nil, rgerrors.New(rgerrors.GroupNotLeaf, "parent leaf holds queries, cannot add a sub-group: "+parent.id.String())
	}

	child := &Group{
		id:                   parent.id.child(name),
		parent:               parent,
		root:                 parent.root,
		registry:             parent.registry,
		subGroups:            make(map[string]*Group),
		maxRunningQueries:    maxRunningQueries,
		maxQueuedQueries:     maxQueuedQueries,
		softMemoryLimitBytes: softMemoryLimitBytes,
		runningQueries:       make(map[string]Query),
		dirtySubGroups:       make(map[string]*Group),
	}
	child.metrics = child.registry.ForGroup(child.id.String())
	child.queuedQueries = collections.New(func(q Query) string { return q.ID() })
	child.eligibleSubGroups = collections.New(func(c *Group) string { return c.id.String() })
	parent.subGroups[name] = child

	log.Logger().Debug("resource group created",
		zap.String("group", child.id.String()),
		zap.Int64("maxRunningQueries", maxRunningQueries),
		zap.Int64("maxQueuedQueries", maxQueuedQueries),
		zap.Int64("softMemoryLimitBytes", softMemoryLimitBytes))
	return child, nil
}

// ID returns this group's immutable identifier.
func (g *Group) ID() ID {
	return g.id
}

// --- locking -----------------------------------------------------------

func (g *Group) lock() {
	g.root.monitor.Lock()
}

func (g *Group) unlock() {
	g.root.monitor.Unlock()
}

// assertLockHeld is the LockNotHeld assertion from spec.md §7: it must
// never observe the lock as free. sync.Mutex.TryLock succeeding means the
// lock was free, i.e. a bug; we immediately release it before panicking so
// we don't wedge the tree on the way down.
func (g *Group) assertLockHeld() {
	if g.root.monitor.TryLock() {
		g.root.monitor.Unlock()
		err := rgerrors.New(rgerrors.LockNotHeld, "private helper invoked without the root lock: "+g.id.String())
		log.Logger().Error("lock assertion failed", zap.String("group", g.id.String()), zap.Error(err))
		panic(err)
	}
}

// --- predicates (spec.md §3 invariants 5 and 6) -------------------------

func (g *Group) isLeafLocked() bool {
	g.assertLockHeld()
	return len(g.subGroups) == 0
}

func (g *Group) canRunMoreLocked() bool {
	g.assertLockHeld()
	running := int64(len(g.runningQueries)) + g.descendantRunningQueries
	return running < g.maxRunningQueries && g.cachedMemoryUsageBytes < g.softMemoryLimitBytes
}

func (g *Group) canQueueMoreLocked() bool {
	g.assertLockHeld()
	queued := int64(g.queuedQueries.Len()) + g.descendantQueuedQueries
	return queued < g.maxQueuedQueries
}

func (g *Group) isEligibleLocked() bool {
	g.assertLockHeld()
	hasWork := g.queuedQueries.Len() > 0 || g.eligibleSubGroups.Len() > 0
	return g.canRunMoreLocked() && hasWork
}

// isDirtyLocked reports whether g has a running query anywhere in its subtree.
func (g *Group) isDirtyLocked() bool {
	g.assertLockHeld()
	return int64(len(g.runningQueries))+g.descendantRunningQueries > 0
}

// properAncestorsLocked returns every ancestor of g, nearest first, root last.
func (g *Group) properAncestorsLocked() []*Group {
	g.assertLockHeld()
	var out []*Group
	for n := g.parent; n != nil; n = n.parent {
		out = append(out, n)
	}
	return out
}

// --- limit setters (spec.md §4.2, §6.3, §9) -----------------------------

// SetMaxRunningQueries updates g's running-query limit.
func SetMaxRunningQueries(g *Group, n int64) error {
	if n < 0 {
		return rgerrors.New(rgerrors.InvalidArgument, "maxRunningQueries must be non-negative")
	}
	g.lock()
	defer g.unlock()
	before := g.canRunMoreLocked()
	g.maxRunningQueries = n
	after := g.canRunMoreLocked()
	if before != after {
		g.updateEligibilityLocked()
	}
	return nil
}

// SetMaxQueuedQueries updates g's queued-query limit. Per spec.md §4.2 the
// eligibility recheck is gated on canRunMore, which a queued-limit change
// can never flip; this mirrors the original algorithm exactly rather than
// special-casing it away.
func SetMaxQueuedQueries(g *Group, n int64) error {
	if n < 0 {
		return rgerrors.New(rgerrors.InvalidArgument, "maxQueuedQueries must be non-negative")
	}
	g.lock()
	defer g.unlock()
	before := g.canRunMoreLocked()
	g.maxQueuedQueries = n
	after := g.canRunMoreLocked()
	if before != after {
		g.updateEligibilityLocked()
	}
	return nil
}

// SetSoftMemoryLimit updates g's advisory memory bound.
func SetSoftMemoryLimit(g *Group, bytes int64) error {
	if bytes < 0 {
		return rgerrors.New(rgerrors.InvalidArgument, "softMemoryLimitBytes must be non-negative")
	}
	g.lock()
	defer g.unlock()
	before := g.canRunMoreLocked()
	g.softMemoryLimitBytes = bytes
	after := g.canRunMoreLocked()
	if before != after {
		g.updateEligibilityLocked()
	}
	return nil
}
