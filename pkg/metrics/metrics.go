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

// Package metrics tracks per-group instrumentation for internal use. It
// deliberately never attaches its registry to an HTTP handler: metrics
// export is out of scope for this core, only the bookkeeping is in scope.
package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// GroupMetrics is the set of gauges and the wait-time histogram kept for a
// single resource group. Safe for concurrent use by readers; writers are
// expected to hold the owning group's lock already (the same lock guards
// the counters these gauges mirror).
type GroupMetrics struct {
	running  prometheus.Gauge
	queued   prometheus.Gauge
	memory   prometheus.Gauge
	waitHist *hdrhistogram.Histogram
}

// Registry creates per-group metrics without ever exposing them over HTTP.
type Registry struct {
	reg         *prometheus.Registry
	runningVec  *prometheus.GaugeVec
	queuedVec   *prometheus.GaugeVec
	memoryVec   *prometheus.GaugeVec
}

// NewRegistry builds a private prometheus registry for in-process use only.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		runningVec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "resourcegroup_running_queries",
			Help: "Running queries for a resource group (internal bookkeeping, not exported).",
		}, []string{"group"}),
		queuedVec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "resourcegroup_queued_queries",
			Help: "Queued queries for a resource group (internal bookkeeping, not exported).",
		}, []string{"group"}),
		memoryVec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "resourcegroup_cached_memory_bytes",
			Help: "Cached memory usage for a resource group (internal bookkeeping, not exported).",
		}, []string{"group"}),
	}
	r.reg.MustRegister(r.runningVec, r.queuedVec, r.memoryVec)
	return r
}

// ForGroup returns (creating if needed) the metrics handle for the given
// fully-qualified group path.
func (r *Registry) ForGroup(path string) *GroupMetrics {
	return &GroupMetrics{
		running:  r.runningVec.WithLabelValues(path),
		queued:   r.queuedVec.WithLabelValues(path),
		memory:   r.memoryVec.WithLabelValues(path),
		waitHist: hdrhistogram.New(0, (10 * time.Minute).Microseconds(), 3),
	}
}

// SetRunning records the current running-query count (own + descendants).
func (g *GroupMetrics) SetRunning(n int64) {
	g.running.Set(float64(n))
}

// SetQueued records the current queued-query count (own + descendants).
func (g *GroupMetrics) SetQueued(n int64) {
	g.queued.Set(float64(n))
}

// SetCachedMemoryBytes records the cached memory usage at the last refresh.
func (g *GroupMetrics) SetCachedMemoryBytes(n int64) {
	g.memory.Set(float64(n))
}

// RecordWait records how long a query sat in queuedQueries before starting.
func (g *GroupMetrics) RecordWait(d time.Duration) {
	_ = g.waitHist.RecordValue(d.Microseconds())
}

// WaitSnapshot returns a point-in-time copy of the wait-time histogram for
// diagnostics; this is the only way this module surfaces the histogram,
// never via an HTTP exporter.
func (g *GroupMetrics) WaitSnapshot() *hdrhistogram.Histogram {
	return hdrhistogram.Import(g.waitHist.Export())
}
