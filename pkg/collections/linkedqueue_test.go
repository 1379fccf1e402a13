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

package collections

import (
	"testing"

	"gotest.tools/assert"
)

func identity(s string) string { return s }

func TestLinkedQueueFIFOOrder(t *testing.T) {
	q := New(identity)
	q.Add("a")
	q.Add("b")
	q.Add("c")
	assert.Equal(t, q.Len(), 3)
	assert.DeepEqual(t, q.Elements(), []string{"a", "b", "c"})
}

func TestLinkedQueueAddIsIdempotent(t *testing.T) {
	q := New(identity)
	q.Add("a")
	q.Add("b")
	q.Add("a")
	assert.Equal(t, q.Len(), 2)
	assert.DeepEqual(t, q.Elements(), []string{"a", "b"})
}

func TestLinkedQueueRemovePreservesOrder(t *testing.T) {
	q := New(identity)
	q.Add("a")
	q.Add("b")
	q.Add("c")
	q.Remove("b")
	assert.Equal(t, q.Len(), 2)
	assert.Equal(t, q.Contains("b"), false)
	assert.DeepEqual(t, q.Elements(), []string{"a", "c"})
}

func TestLinkedQueueRemoveMissingIsNoop(t *testing.T) {
	q := New(identity)
	q.Add("a")
	q.Remove("nope")
	assert.Equal(t, q.Len(), 1)
}

func TestLinkedQueuePollEmpty(t *testing.T) {
	q := New(identity)
	_, ok := q.Poll()
	assert.Equal(t, ok, false)
}

func TestLinkedQueueRoundRobinReAppend(t *testing.T) {
	q := New(identity)
	q.Add("a")
	q.Add("b")
	v, ok := q.Poll()
	assert.Assert(t, ok)
	assert.Equal(t, v, "a")
	q.Add(v) // re-append at tail realizes round-robin fairness
	assert.DeepEqual(t, q.Elements(), []string{"b", "a"})
}
