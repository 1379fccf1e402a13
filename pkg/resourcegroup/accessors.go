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

// Stats is a point-in-time, locked snapshot of a group's counters, for
// diagnostics and tests. It is never kept live: re-read it after any
// mutating call if you need fresh numbers.
type Stats struct {
	Running                int64
	DescendantRunning      int64
	Queued                 int64
	DescendantQueued       int64
	CachedMemoryUsageBytes int64
	MaxRunningQueries      int64
	MaxQueuedQueries       int64
	SoftMemoryLimitBytes   int64
	IsLeaf                 bool
	Eligible               bool
}

// GetStats returns a locked snapshot of g's counters.
func GetStats(g *Group) Stats {
	g.lock()
	defer g.unlock()
	return Stats{
		Running:                int64(len(g.runningQueries)),
		DescendantRunning:      g.descendantRunningQueries,
		Queued:                 int64(g.queuedQueries.Len()),
		DescendantQueued:       g.descendantQueuedQueries,
		CachedMemoryUsageBytes: g.cachedMemoryUsageBytes,
		MaxRunningQueries:      g.maxRunningQueries,
		MaxQueuedQueries:       g.maxQueuedQueries,
		SoftMemoryLimitBytes:   g.softMemoryLimitBytes,
		IsLeaf:                 len(g.subGroups) == 0,
		Eligible:               g.isEligibleLocked(),
	}
}

// GetSubGroup returns the named direct child, or nil if none exists.
func GetSubGroup(g *Group, name string) *Group {
	g.lock()
	defer g.unlock()
	return g.subGroups[name]
}

// IsRunning reports whether query is currently bookkept as running on leaf
// g. This reflects the group's own accounting, which is updated
// synchronously inside startInBackgroundLocked, ahead of (and independent
// from) the asynchronous submission that actually calls query.Start().
func IsRunning(g *Group, query Query) bool {
	g.lock()
	defer g.unlock()
	_, ok := g.runningQueries[query.ID()]
	return ok
}

// IsQueued reports whether query currently sits in leaf g's local queue.
func IsQueued(g *Group, query Query) bool {
	g.lock()
	defer g.unlock()
	return g.queuedQueries.Contains(query)
}
