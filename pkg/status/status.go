// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package status defines the error classes shared by the configuration
// manager, the table generators and the table manager.
//
// A Code is itself an error, so callers classify failures with
// errors.Is(err, status.NotFound). Detailed error types in this and other
// packages match their Code through an Is method.
package status

import (
	"fmt"
)

// Code classifies an error.
type Code int

// The error classes.
const (
	// InvalidParameter means malformed or missing arguments, inconsistent
	// source data or a table revision outside the supported range.
	InvalidParameter = Code(iota + 1)
	// NotFound means a mandatory configuration object, a generator or a
	// table is absent.
	NotFound
	// OutOfMemory means a buffer could not be allocated.
	OutOfMemory
	// Unsupported means a recognised but unimplemented variant.
	Unsupported
	// BufferTooSmall means an internal sizing mismatch. It is a programming
	// defect, not a user-facing condition.
	BufferTooSmall
	// AlreadyRegistered means a generator is already registered for a table.
	AlreadyRegistered
	// CapacityExceeded means a string table was sized too small by its
	// caller.
	CapacityExceeded
	// UnsupportedRevision means a table revision outside the range a
	// generator supports. Errors of this class also match InvalidParameter.
	UnsupportedRevision
)

var codeNames = map[Code]string{
	InvalidParameter:  "invalid parameter",
	NotFound:          "not found",
	OutOfMemory:       "out of memory",
	Unsupported:       "unsupported",
	BufferTooSmall:    "buffer too small",
	AlreadyRegistered: "already registered",
	CapacityExceeded:  "capacity exceeded",

	UnsupportedRevision: "unsupported revision",
}

// Error implements error.
func (c Code) Error() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("status code %d", int(c))
}

// ErrNotFound describes a situation when particular item is not found.
type ErrNotFound struct {
	Item string
}

// Error implements error.
func (err ErrNotFound) Error() string {
	return fmt.Sprintf("'%s' is not found", err.Item)
}

// Is implements errors.Is.
func (err ErrNotFound) Is(target error) bool {
	return target == NotFound
}

// ErrInvalidParameter means an argument or a source object is malformed.
type ErrInvalidParameter struct {
	Reason string
}

// Error implements error.
func (err ErrInvalidParameter) Error() string {
	return "invalid parameter: " + err.Reason
}

// Is implements errors.Is.
func (err ErrInvalidParameter) Is(target error) bool {
	return target == InvalidParameter
}

// Invalidf returns an ErrInvalidParameter with a formatted reason.
func Invalidf(format string, args ...interface{}) error {
	return ErrInvalidParameter{Reason: fmt.Sprintf(format, args...)}
}

// ErrUnsupported means a recognised value selects a variant which is not
// implemented.
type ErrUnsupported struct {
	What  string
	Value uint64
}

// Error implements error.
func (err ErrUnsupported) Error() string {
	return fmt.Sprintf("unsupported %s: %#x", err.What, err.Value)
}

// Is implements errors.Is.
func (err ErrUnsupported) Is(target error) bool {
	return target == Unsupported
}

// ErrOutOfMemory means an allocation of Size bytes failed.
type ErrOutOfMemory struct {
	Size int
}

// Error implements error.
func (err ErrOutOfMemory) Error() string {
	return fmt.Sprintf("unable to allocate %d bytes", err.Size)
}

// Is implements errors.Is.
func (err ErrOutOfMemory) Is(target error) bool {
	return target == OutOfMemory
}
