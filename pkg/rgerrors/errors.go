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

// Package rgerrors defines the programmer-error kinds raised by the
// resource-group admission core. None of these are user-recoverable:
// InvalidArgument and GroupNotLeaf are rejected at the call site,
// LockNotHeld and InvariantViolated are assertion-fatal bugs.
package rgerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a programmer error raised by this module.
type Kind int

const (
	// InvalidArgument marks a negative limit, empty name, or other bad input.
	InvalidArgument Kind = iota
	// GroupNotLeaf marks add() on an internal group or getOrCreateSubGroup on a non-empty leaf.
	GroupNotLeaf
	// LockNotHeld marks a private helper invoked without the root lock.
	LockNotHeld
	// InvariantViolated marks a bug: internalStartNext recursed into an eligible
	// child that failed to start anything.
	InvariantViolated
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case GroupNotLeaf:
		return "GroupNotLeaf"
	case LockNotHeld:
		return "LockNotHeld"
	case InvariantViolated:
		return "InvariantViolated"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type for all kinds above.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs an Error of the given kind with no further cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind wrapping cause with context.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.WithMessage(cause, message)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
