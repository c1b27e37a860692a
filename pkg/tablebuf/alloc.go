// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablebuf

import (
	"github.com/linuxboot/tablegen/pkg/status"
)

// Allocator provides the memory table buffers live in. Every slice returned
// by Alloc is handed back to Free exactly once.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, status.Invalidf("negative allocation size %d", size)
	}
	return make([]byte, size), nil
}

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}

// Heap is the default allocator.
var Heap Allocator = HeapAllocator{}
