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

// internalRefreshStatsLocked recomputes cachedMemoryUsageBytes top-down,
// pruning dirtySubGroups lazily (spec.md §4.8), and re-checks the
// eligibility of every child whose cached usage changed, since that usage
// feeds canRunMore. Memory accounting is only ever as fresh as the last
// driver tick: that is the definition of "soft".
func (g *Group) internalRefreshStatsLocked() {
	g.assertLockHeld()

	if g.isLeafLocked() {
		var total int64
		for _, q := range g.runningQueries {
			total += q.TotalMemoryReservationBytes()
		}
		g.cachedMemoryUsageBytes = total
		g.metrics.SetCachedMemoryBytes(total)
		return
	}

	for name, child := range g.dirtySubGroups {
		oldChildMemory := child.cachedMemoryUsageBytes
		g.cachedMemoryUsageBytes -= oldChildMemory
		child.internalRefreshStatsLocked()
		g.cachedMemoryUsageBytes += child.cachedMemoryUsageBytes
		if !child.isDirtyLocked() {
			delete(g.dirtySubGroups, name)
		}
		if child.cachedMemoryUsageBytes != oldChildMemory {
			child.updateEligibilityLocked()
		}
	}
	g.metrics.SetCachedMemoryBytes(g.cachedMemoryUsageBytes)
}
