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

// updateEligibilityLocked walks from g to the root, keeping each node's
// membership in its parent's eligibleSubGroups queue in sync with
// isEligibleLocked. Because LinkedQueue.Add/Remove are idempotent this is
// safe to call repeatedly and preserves FIFO order for nodes that stay
// eligible throughout (spec.md §4.6).
func (g *Group) updateEligibilityLocked() {
	g.assertLockHeld()
	if g.parent == nil {
		return
	}
	p := g.parent
	if g.isEligibleLocked() {
		p.eligibleSubGroups.Add(g)
	} else {
		p.eligibleSubGroups.Remove(g)
	}
	p.updateEligibilityLocked()
}

// markDirtyLocked inserts child into g.dirtySubGroups. child must be a
// direct child of g.
func (g *Group) markDirtyLocked(child *Group) {
	g.assertLockHeld()
	g.dirtySubGroups[child.id.Name()] = child
}
