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

import (
	"slices"
	"strings"
)

// ID is an immutable, structural identifier: the ordered path of name
// segments from the root to this group, e.g. {"root", "etl", "batch"}.
type ID struct {
	segments []string
}

// rootID is the identifier of a tree's root group.
func rootID(name string) ID {
	return ID{segments: []string{name}}
}

// child returns the identifier of a direct child named name.
func (id ID) child(name string) ID {
	segs := make([]string, len(id.segments)+1)
	copy(segs, id.segments)
	segs[len(id.segments)] = name
	return ID{segments: segs}
}

// Segments returns a copy of the path segments, root first.
func (id ID) Segments() []string {
	out := make([]string, len(id.segments))
	copy(out, id.segments)
	return out
}

// Name returns the last segment, i.e. this group's own name.
func (id ID) Name() string {
	if len(id.segments) == 0 {
		return ""
	}
	return id.segments[len(id.segments)-1]
}

// String renders the dot-joined path, matching the teacher's QueuePath convention.
func (id ID) String() string {
	return strings.Join(id.segments, ".")
}

// Equal reports structural equality.
func (id ID) Equal(other ID) bool {
	return slices.Equal(id.segments, other.segments)
}
