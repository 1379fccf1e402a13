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

package config

import (
	"strings"
	"testing"

	"gotest.tools/assert"

	"github.com/apache/incubator-resourcegroup-admission/pkg/refexecutor"
	"github.com/apache/incubator-resourcegroup-admission/pkg/refquery"
	"github.com/apache/incubator-resourcegroup-admission/pkg/resourcegroup"
)

const sampleYAML = `
name: root
maxRunningQueries: 10
maxQueuedQueries: 100
softMemoryLimitBytes: 1073741824
children:
  - name: etl
    maxRunningQueries: 4
    maxQueuedQueries: 20
    softMemoryLimitBytes: 536870912
    children:
      - name: batch
        maxRunningQueries: 2
        maxQueuedQueries: 10
        softMemoryLimitBytes: 268435456
  - name: adhoc
    maxRunningQueries: 2
    maxQueuedQueries: 10
    softMemoryLimitBytes: 268435456
`

func TestBuildMaterializesLiveTree(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleYAML))
	assert.NilError(t, err)

	root, err := Build(cfg, refexecutor.Goroutine{})
	assert.NilError(t, err)

	rootStats := resourcegroup.GetStats(root)
	assert.Equal(t, rootStats.MaxRunningQueries, int64(10))

	etl := resourcegroup.GetSubGroup(root, "etl")
	assert.Assert(t, etl != nil)
	etlStats := resourcegroup.GetStats(etl)
	assert.Equal(t, etlStats.MaxRunningQueries, int64(4))
	assert.Equal(t, etlStats.IsLeaf, false)

	batch := resourcegroup.GetSubGroup(etl, "batch")
	assert.Assert(t, batch != nil)
	batchStats := resourcegroup.GetStats(batch)
	assert.Equal(t, batchStats.MaxRunningQueries, int64(2))
	assert.Equal(t, batchStats.IsLeaf, true)

	adhoc := resourcegroup.GetSubGroup(root, "adhoc")
	assert.Assert(t, adhoc != nil)

	q := refquery.New(0)
	ok, err := resourcegroup.Add(batch, q)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, resourcegroup.IsRunning(batch, q))
}

func TestBuildRejectsInvalidLimits(t *testing.T) {
	_, err := Build(&GroupConfig{Name: "root", MaxRunningQueries: -1}, refexecutor.Goroutine{})
	assert.ErrorContains(t, err, "InvalidArgument")
}
