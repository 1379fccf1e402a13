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

// Package config builds an initial resource-group tree from a static YAML
// description. It is not a reconfiguration system: reloading, watching
// files and live config diffing are all out of scope for this core, the
// same way they are out of scope for the admission/dispatch algorithms
// themselves (see spec.md §1). Once built, a tree is only ever mutated
// through resourcegroup.SetMax*/SetSoftMemoryLimit and GetOrCreateSubGroup.
package config

import (
	"io"

	"gopkg.in/yaml.v2"

	"github.com/apache/incubator-resourcegroup-admission/pkg/resourcegroup"
	"github.com/apache/incubator-resourcegroup-admission/pkg/rgerrors"
)

// GroupConfig describes one node of the tree to build, root included.
type GroupConfig struct {
	Name                 string        `yaml:"name"`
	MaxRunningQueries    int64         `yaml:"maxRunningQueries"`
	MaxQueuedQueries     int64         `yaml:"maxQueuedQueries"`
	SoftMemoryLimitBytes int64         `yaml:"softMemoryLimitBytes"`
	Children             []GroupConfig `yaml:"children,omitempty"`
}

// Load parses a GroupConfig tree out of r.
func Load(r io.Reader) (*GroupConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.InvalidArgument, err, "reading config")
	}
	var cfg GroupConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, rgerrors.Wrap(rgerrors.InvalidArgument, err, "parsing config yaml")
	}
	return &cfg, nil
}

// Build walks cfg and produces a live tree rooted at a freshly created
// resourcegroup.Group, recursing into Children with GetOrCreateSubGroup.
// It is the declarative counterpart of calling GetOrCreateSubGroup
// directly; anything built this way is still only ever mutated afterward
// through resourcegroup's own SetMax*/SetSoftMemoryLimit and
// GetOrCreateSubGroup.
func Build(cfg *GroupConfig, submitter resourcegroup.Submitter) (*resourcegroup.Group, error) {
	root, err := resourcegroup.NewRoot(cfg.Name, cfg.MaxRunningQueries, cfg.MaxQueuedQueries, cfg.SoftMemoryLimitBytes, submitter)
	if err != nil {
		return nil, err
	}
	for _, child := range cfg.Children {
		if err := buildChildren(root, child); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func buildChildren(parent *resourcegroup.Group, cfg GroupConfig) error {
	group, err := resourcegroup.GetOrCreateSubGroup(parent, cfg.Name, cfg.MaxRunningQueries, cfg.MaxQueuedQueries, cfg.SoftMemoryLimitBytes)
	if err != nil {
		return err
	}
	for _, child := range cfg.Children {
		if err := buildChildren(group, child); err != nil {
			return err
		}
	}
	return nil
}
