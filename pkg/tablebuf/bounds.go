// Copyright 2017-2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablebuf

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/linuxboot/tablegen/pkg/status"
)

// ErrStartLessThanZero means `startIdx` has negative value
type ErrStartLessThanZero struct {
	StartIdx int
}

func (err *ErrStartLessThanZero) Error() string {
	return fmt.Sprintf("start index is less than zero: %d", err.StartIdx)
}

// ErrEndLessThanStart means `endIdx` value is less than `startIdx` value
type ErrEndLessThanStart struct {
	StartIdx int
	EndIdx   int
}

func (err *ErrEndLessThanStart) Error() string {
	return fmt.Sprintf("end index is less than start index: %d < %d",
		err.EndIdx, err.StartIdx)
}

// ErrEndGreaterThanLength means `endIdx` is greater than the buffer length.
type ErrEndGreaterThanLength struct {
	Length int
	EndIdx int
}

func (err *ErrEndGreaterThanLength) Error() string {
	return fmt.Sprintf("end index is outside of the bounds: %d > %d",
		err.EndIdx, err.Length)
}

// ErrOutOfBounds wraps the violations of a single access.
type ErrOutOfBounds struct {
	Offset int
	Size   int
	Err    error
}

func (err *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("access of %d bytes at offset %#x: %v", err.Size, err.Offset, err.Err)
}

func (err *ErrOutOfBounds) Unwrap() error {
	return err.Err
}

// Is implements errors.Is. An out of bounds access is a sizing defect.
func (err *ErrOutOfBounds) Is(target error) bool {
	return target == status.BufferTooSmall
}

func bounds(length, startIdx, endIdx int) error {
	var result *multierror.Error
	if startIdx < 0 {
		result = multierror.Append(result, &ErrStartLessThanZero{StartIdx: startIdx})
	}
	if endIdx < startIdx {
		result = multierror.Append(result, &ErrEndLessThanStart{StartIdx: startIdx, EndIdx: endIdx})
	}
	if endIdx > length {
		result = multierror.Append(result, &ErrEndGreaterThanLength{Length: length, EndIdx: endIdx})
	}

	return result.ErrorOrNil()
}

// CheckRange checks that [off, off+size) lies within a buffer of the given
// length.
func CheckRange(length, off, size int) error {
	if err := bounds(length, off, off+size); err != nil {
		return &ErrOutOfBounds{Offset: off, Size: size, Err: err}
	}
	return nil
}
