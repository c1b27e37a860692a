// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alloctest provides allocators for tests: one tracking live
// allocations and one failing after a number of allocations.
package alloctest

import (
	"fmt"
	"sync"

	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// TrackingAllocator records every live allocation. Freeing memory it did not
// hand out, or freeing twice, is recorded as a misuse.
type TrackingAllocator struct {
	mu      sync.Mutex
	live    map[*byte]int
	allocs  int
	frees   int
	misuses []string
}

var _ tablebuf.Allocator = (*TrackingAllocator)(nil)

// NewTrackingAllocator returns an empty TrackingAllocator.
func NewTrackingAllocator() *TrackingAllocator {
	return &TrackingAllocator{live: map[*byte]int{}}
}

func key(b []byte) *byte {
	if cap(b) == 0 {
		return nil
	}
	return &b[:1][0]
}

// Alloc implements tablebuf.Allocator.
func (a *TrackingAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, status.Invalidf("negative allocation size %d", size)
	}
	// At least one byte of capacity so that every allocation has an identity.
	b := make([]byte, size, size+1)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[key(b)] = size
	a.allocs++
	return b, nil
}

// Free implements tablebuf.Allocator.
func (a *TrackingAllocator) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	k := key(b)
	if _, ok := a.live[k]; !ok {
		a.misuses = append(a.misuses, fmt.Sprintf("free of unknown or already freed buffer (len %d)", len(b)))
		return
	}
	delete(a.live, k)
	a.frees++
}

// Live returns the number of allocations not freed yet.
func (a *TrackingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// LiveBytes returns the total size of the allocations not freed yet.
func (a *TrackingAllocator) LiveBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, size := range a.live {
		total += size
	}
	return total
}

// Allocs returns the number of successful allocations.
func (a *TrackingAllocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Misuses returns descriptions of invalid Free calls.
func (a *TrackingAllocator) Misuses() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.misuses...)
}

// LimitAllocator forwards to Backend until Limit allocations succeeded, then
// fails with an out of memory error.
type LimitAllocator struct {
	Backend tablebuf.Allocator
	Limit   int

	count int
}

var _ tablebuf.Allocator = (*LimitAllocator)(nil)

// Alloc implements tablebuf.Allocator.
func (a *LimitAllocator) Alloc(size int) ([]byte, error) {
	if a.count >= a.Limit {
		return nil, status.ErrOutOfMemory{Size: size}
	}
	a.count++
	return a.Backend.Alloc(size)
}

// Free implements tablebuf.Allocator.
func (a *LimitAllocator) Free(b []byte) {
	a.Backend.Free(b)
}
