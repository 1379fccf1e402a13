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

// Package collections holds the FIFO-with-membership container shared by
// the per-leaf queued-query list and the per-node eligible-children queue.
package collections

import "container/list"

// LinkedQueue is an ordered, duplicate-free container with O(1) Add, Poll,
// Remove and Contains. Elements are keyed by K, computed with the key
// function supplied to New. Iteration (Elements) yields elements in
// insertion order, where re-adding an already-present element is a no-op
// and does not move it.
type LinkedQueue[K comparable, V any] struct {
	order *list.List
	index map[K]*list.Element
	keyOf func(V) K
}

// New builds an empty LinkedQueue whose elements are identified by keyOf.
func New[K comparable, V any](keyOf func(V) K) *LinkedQueue[K, V] {
	return &LinkedQueue[K, V]{
		order: list.New(),
		index: make(map[K]*list.Element),
		keyOf: keyOf,
	}
}

// Add appends v at the tail if its key is absent; no-op if already present.
func (q *LinkedQueue[K, V]) Add(v V) {
	k := q.keyOf(v)
	if _, ok := q.index[k]; ok {
		return
	}
	q.index[k] = q.order.PushBack(v)
}

// Poll removes and returns the head element. ok is false if the queue is empty.
func (q *LinkedQueue[K, V]) Poll() (v V, ok bool) {
	front := q.order.Front()
	if front == nil {
		return v, false
	}
	v = front.Value.(V)
	q.order.Remove(front)
	delete(q.index, q.keyOf(v))
	return v, true
}

// Remove deletes v wherever it sits, preserving the relative order of the
// remaining elements. No-op if v's key is absent.
func (q *LinkedQueue[K, V]) Remove(v V) {
	k := q.keyOf(v)
	elem, ok := q.index[k]
	if !ok {
		return
	}
	q.order.Remove(elem)
	delete(q.index, k)
}

// Contains reports whether v's key is currently present.
func (q *LinkedQueue[K, V]) Contains(v V) bool {
	_, ok := q.index[q.keyOf(v)]
	return ok
}

// Len returns the current element count.
func (q *LinkedQueue[K, V]) Len() int {
	return q.order.Len()
}

// Elements returns a snapshot slice in insertion order. Intended for
// diagnostics and tests; the hot paths use Poll/Add/Remove directly.
func (q *LinkedQueue[K, V]) Elements() []V {
	out := make([]V, 0, q.order.Len())
	for e := q.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(V))
	}
	return out
}
