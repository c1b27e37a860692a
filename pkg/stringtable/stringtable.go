// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stringtable packs the text fields of an SMBIOS structure into the
// string pool which trails the formatted area.
//
// Fields of the formatted area reference strings by a 1-based index; index
// 0 means "no string". The pool is a sequence of NUL-terminated strings
// followed by one extra NUL. A structure without strings still ends with
// two NUL bytes.
package stringtable

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/linuxboot/tablegen/pkg/status"
)

// MaxStrings is the number of strings a single structure can reference:
// string references are one byte wide.
const MaxStrings = 255

// ErrCapacityExceeded means more distinct strings were added than the table
// was initialized for. This is a sizing bug of the caller.
type ErrCapacityExceeded struct {
	Capacity int
	Value    string
}

func (err *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("string table capacity %d exceeded while adding %q", err.Capacity, err.Value)
}

// Is implements errors.Is.
func (err *ErrCapacityExceeded) Is(target error) bool {
	return target == status.CapacityExceeded
}

// ErrBufferTooSmall means the destination of Publish cannot hold the pool.
type ErrBufferTooSmall struct {
	Required  int
	Available int
}

func (err *ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("string pool needs %d bytes, destination has %d", err.Required, err.Available)
}

// Is implements errors.Is.
func (err *ErrBufferTooSmall) Is(target error) bool {
	return target == status.BufferTooSmall
}

// Table accumulates the distinct strings of one structure.
//
// The zero value is an uninitialized table; Initialize (or New) must be
// called before Add.
type Table struct {
	capacity int
	strs     []string
	index    map[string]uint8
}

// New returns a table initialized for up to maxStrings distinct strings.
func New(maxStrings int) (*Table, error) {
	t := &Table{}
	if err := t.Initialize(maxStrings); err != nil {
		return nil, err
	}
	return t, nil
}

// Initialize reserves room for up to maxStrings distinct strings, dropping
// anything the table held before.
func (t *Table) Initialize(maxStrings int) error {
	if maxStrings < 0 || maxStrings > MaxStrings {
		return status.Invalidf("string table capacity %d is outside [0, %d]", maxStrings, MaxStrings)
	}
	t.capacity = maxStrings
	t.strs = make([]string, 0, maxStrings)
	t.index = make(map[string]uint8, maxStrings)
	return nil
}

// Add adds s to the table and returns its 1-based reference. Empty strings
// return 0 and are not stored; a string equal to one already present
// returns the reference assigned the first time.
func (t *Table) Add(s string) (uint8, error) {
	if t.index == nil {
		return 0, status.Invalidf("string table is not initialized")
	}
	if s == "" {
		return 0, nil
	}
	if strings.IndexByte(s, 0) >= 0 {
		return 0, status.Invalidf("string %q contains a NUL byte", s)
	}
	if ref, ok := t.index[s]; ok {
		return ref, nil
	}
	if len(t.strs) >= t.capacity {
		return 0, &ErrCapacityExceeded{Capacity: t.capacity, Value: s}
	}
	t.strs = append(t.strs, s)
	ref := uint8(len(t.strs))
	t.index[s] = ref
	return ref, nil
}

// Count returns the number of distinct strings in the table.
func (t *Table) Count() int {
	return len(t.strs)
}

// Strings returns the stored strings in reference order (index i holds
// reference i+1).
func (t *Table) Strings() []string {
	return append([]string(nil), t.strs...)
}

// Size returns the number of bytes Publish writes.
func (t *Table) Size() int {
	if len(t.strs) == 0 {
		return 2
	}
	size := 1
	for _, s := range t.strs {
		size += len(s) + 1
	}
	return size
}

// Publish writes the pool to dst and returns the number of bytes written.
func (t *Table) Publish(dst []byte) (int, error) {
	size := t.Size()
	if len(dst) < size {
		return 0, &ErrBufferTooSmall{Required: size, Available: len(dst)}
	}
	if len(t.strs) == 0 {
		dst[0], dst[1] = 0, 0
		return 2, nil
	}
	n := 0
	for _, s := range t.strs {
		n += copy(dst[n:], s)
		dst[n] = 0
		n++
	}
	dst[n] = 0
	n++
	return n, nil
}

// Release drops the table contents. It is idempotent and may be called on a
// table which was never (or unsuccessfully) initialized.
func (t *Table) Release() {
	t.capacity = 0
	t.strs = nil
	t.index = nil
}

// Parse reads a published pool from the beginning of b. It returns the
// strings in reference order and the number of bytes the pool occupies.
func Parse(b []byte) ([]string, int, error) {
	if len(b) < 2 {
		return nil, 0, status.Invalidf("string pool is truncated: %d bytes", len(b))
	}
	if b[0] == 0 {
		if b[1] != 0 {
			return nil, 0, status.Invalidf("empty string pool is not terminated by two NUL bytes")
		}
		return nil, 2, nil
	}
	var result []string
	off := 0
	for {
		end := bytes.IndexByte(b[off:], 0)
		if end < 0 {
			return nil, 0, status.Invalidf("string pool is not terminated")
		}
		if end == 0 {
			return result, off + 1, nil
		}
		result = append(result, string(b[off:off+end]))
		off += end + 1
	}
}
