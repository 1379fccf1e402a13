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

// Package engine is the surface an embedding query coordinator actually
// imports: it exposes exactly the seven operations of spec.md §6.3 and
// nothing else. Everything else in this module is an implementation
// detail reachable through resourcegroup directly if needed.
package engine

import (
	"github.com/apache/incubator-resourcegroup-admission/pkg/resourcegroup"
)

// Group re-exports resourcegroup.Group so callers need only import engine.
type Group = resourcegroup.Group

// Query re-exports resourcegroup.Query.
type Query = resourcegroup.Query

// Submitter re-exports resourcegroup.Submitter.
type Submitter = resourcegroup.Submitter

// CreateRoot creates the root of a new tree.
func CreateRoot(name string, maxRunning, maxQueued, softMemoryLimitBytes int64, submitter Submitter) (*Group, error) {
	return resourcegroup.NewRoot(name, maxRunning, maxQueued, softMemoryLimitBytes, submitter)
}

// GetOrCreateSubGroup creates, or returns the existing, named child of parent.
func GetOrCreateSubGroup(parent *Group, name string, maxRunning, maxQueued, softMemoryLimitBytes int64) (*Group, error) {
	return resourcegroup.GetOrCreateSubGroup(parent, name, maxRunning, maxQueued, softMemoryLimitBytes)
}

// SetMaxRunningQueries updates group's running-query limit.
func SetMaxRunningQueries(group *Group, n int64) error {
	return resourcegroup.SetMaxRunningQueries(group, n)
}

// SetMaxQueuedQueries updates group's queued-query limit.
func SetMaxQueuedQueries(group *Group, n int64) error {
	return resourcegroup.SetMaxQueuedQueries(group, n)
}

// SetSoftMemoryLimit updates group's advisory memory bound.
func SetSoftMemoryLimit(group *Group, bytes int64) error {
	return resourcegroup.SetSoftMemoryLimit(group, bytes)
}

// Add attempts to admit query to group.
func Add(group *Group, query Query) (bool, error) {
	return resourcegroup.Add(group, query)
}

// ProcessQueuedQueries runs one driver tick on root.
func ProcessQueuedQueries(root *Group) error {
	return resourcegroup.ProcessQueuedQueries(root)
}
