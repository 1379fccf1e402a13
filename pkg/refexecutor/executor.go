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

// Package refexecutor provides reference implementations of
// resourcegroup.Submitter: the work-execution pool is modeled abstractly
// by spec.md §1/§6.2 and left to the embedding application, but the core
// is untestable without a concrete, non-blocking submission sink.
package refexecutor

import (
	"github.com/apache/incubator-resourcegroup-admission/pkg/log"
)

// Goroutine submits every action on its own goroutine. Submit never
// blocks and never rejects.
type Goroutine struct{}

// Submit implements resourcegroup.Submitter.
func (Goroutine) Submit(action func()) {
	go action()
}

// Pool is a fixed-size worker pool backed by a buffered channel. Submit
// never blocks the caller: when the queue is full, the action is run on
// its own goroutine rather than rejected, since spec.md §6.2 says
// rejection "should be configured away" rather than handled here.
type Pool struct {
	work chan func()
}

// NewPool starts workers goroutines draining a queue of depth queueDepth.
func NewPool(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	p := &Pool{work: make(chan func(), queueDepth)}
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for action := range p.work {
		action()
	}
}

// Submit implements resourcegroup.Submitter.
func (p *Pool) Submit(action func()) {
	select {
	case p.work <- action:
	default:
		log.Logger().Warn("submitter queue full, running action off-pool")
		go action()
	}
}
