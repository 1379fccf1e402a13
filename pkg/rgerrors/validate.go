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

package rgerrors

import (
	"fmt"

	"go.uber.org/multierr"
)

// FieldCheck is one named non-negative-integer validation to run.
type FieldCheck struct {
	Name  string
	Value int64
}

// ValidateNonNegative combines all failing checks into a single
// InvalidArgument error, so a caller that passes three bad limits at once
// gets one error instead of three sequential rejections.
func ValidateNonNegative(checks ...FieldCheck) error {
	var combined error
	for _, c := range checks {
		if c.Value < 0 {
			combined = multierr.Append(combined, fmt.Errorf("%s must be non-negative, got %d", c.Name, c.Value))
		}
	}
	if combined == nil {
		return nil
	}
	return Wrap(InvalidArgument, combined, "invalid limit")
}

// ValidateName rejects an empty segment/group name.
func ValidateName(name string) error {
	if name == "" {
		return New(InvalidArgument, "name must not be empty")
	}
	return nil
}
