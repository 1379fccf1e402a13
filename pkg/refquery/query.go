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

// Package refquery is a reference implementation of resourcegroup.Query,
// grounded in the teacher's fsm-driven object-lifecycle pattern
// (pkg/cache/queue_info.go's stateMachine/HandleQueueEvent). The
// execution engine this core depends on is out of scope (spec.md §1);
// this is the concrete stand-in every test in this module runs against.
package refquery

import (
	"sync"

	"github.com/looplab/fsm"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
)

// Event names driving the query's state machine.
const (
	EventStart  = "start"
	EventFinish = "finish"
	EventFail   = "fail"
	EventCancel = "cancel"
)

// State names.
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
	StateCancelled = "cancelled"
)

func newQueryStateMachine() *fsm.FSM {
	return fsm.NewFSM(
		StateQueued,
		fsm.Events{
			{Name: EventStart, Src: []string{StateQueued}, Dst: StateRunning},
			{Name: EventFinish, Src: []string{StateQueued, StateRunning}, Dst: StateSucceeded},
			{Name: EventFail, Src: []string{StateQueued, StateRunning}, Dst: StateFailed},
			{Name: EventCancel, Src: []string{StateQueued, StateRunning}, Dst: StateCancelled},
		},
		fsm.Callbacks{},
	)
}

// Query is a reference resourcegroup.Query: it becomes "running" the
// moment Start is called (idempotently) and reaches a terminal state only
// through Finish/Fail/Cancel, which an owning test or harness calls to
// simulate the execution engine.
type Query struct {
	id           string
	mu           sync.Mutex
	stateMachine *fsm.FSM
	memoryBytes  int64
	listeners    []func()
}

// New creates a query in the "queued" state with a fresh ID.
func New(memoryBytes int64) *Query {
	id := uuid.NewV4()
	return &Query{
		id:           id.String(),
		stateMachine: newQueryStateMachine(),
		memoryBytes:  memoryBytes,
	}
}

// ID implements resourcegroup.Query.
func (q *Query) ID() string {
	return q.id
}

// Start implements resourcegroup.Query: idempotent, never blocks or panics.
func (q *Query) Start() {
	q.mu.Lock()
	err := q.stateMachine.Event(EventStart)
	listeners := append([]func(){}, q.listeners...)
	q.mu.Unlock()

	if err != nil && err.Error() != "no transition" {
		log.Logger().Debug("query start no-op", zap.String("queryID", q.id), zap.Error(err))
		return
	}
	for _, fn := range listeners {
		fn()
	}
}

// finishWith drives the state machine to a terminal state and fires listeners.
func (q *Query) finishWith(event string) {
	q.mu.Lock()
	err := q.stateMachine.Event(event)
	listeners := append([]func(){}, q.listeners...)
	q.mu.Unlock()

	if err != nil && err.Error() != "no transition" {
		log.Logger().Debug("query terminal transition no-op", zap.String("queryID", q.id), zap.String("event", event), zap.Error(err))
		return
	}
	for _, fn := range listeners {
		fn()
	}
}

// Finish marks the query as succeeded.
func (q *Query) Finish() { q.finishWith(EventFinish) }

// Fail marks the query as failed.
func (q *Query) Fail() { q.finishWith(EventFail) }

// Cancel marks the query as cancelled.
func (q *Query) Cancel() { q.finishWith(EventCancel) }

// IsDone implements resourcegroup.Query.
func (q *Query) IsDone() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch q.stateMachine.Current() {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// State returns the current state name.
func (q *Query) State() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateMachine.Current()
}

// AddStateChangeListener implements resourcegroup.Query.
func (q *Query) AddStateChangeListener(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

// TotalMemoryReservationBytes implements resourcegroup.Query.
func (q *Query) TotalMemoryReservationBytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.memoryBytes
}

// SetMemoryReservationBytes lets a test simulate memory growth while running.
func (q *Query) SetMemoryReservationBytes(n int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.memoryBytes = n
}
