// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table defines the contract between table generators and the table
// manager: table IDs and descriptors, build requests and results, and the
// registry mapping table IDs to generators.
package table

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Info describes a requested table.
type Info struct {
	ID ID

	// Revision is the table revision to build; 0 selects the newest
	// revision the generator supports.
	Revision uint8

	// OEMID, OEMTableID and OEMRevision are stamped into ACPI headers.
	OEMID       string
	OEMTableID  string
	OEMRevision uint32
}

// Request is the input of Generator.Build.
type Request struct {
	Info

	// Source is queried for the facts the table is built from.
	Source cm.Manager

	// Alloc provides the table memory. nil means tablebuf.Heap.
	Alloc tablebuf.Allocator
}

// Allocator returns the allocator of the request.
func (req *Request) Allocator() tablebuf.Allocator {
	if req.Alloc == nil {
		return tablebuf.Heap
	}
	return req.Alloc
}

// Result is the output of Generator.Build: one buffer per emitted table or
// structure and the token of the object each was built from. Single-instance
// generators return exactly one buffer.
type Result struct {
	ID      ID
	Buffers [][]byte
	Tokens  []cm.Token

	alloc  tablebuf.Allocator
	issued bool
}

// NewResult returns an empty result for req with room for n buffers.
func NewResult(req *Request, n int) *Result {
	return &Result{
		ID:      req.ID,
		Buffers: make([][]byte, 0, n),
		Tokens:  make([]cm.Token, 0, n),
		alloc:   req.Allocator(),
	}
}

// Len returns the number of buffers.
func (res *Result) Len() int {
	return len(res.Buffers)
}

// Append adds a detached buffer and the token of its source object.
func (res *Result) Append(buf *tablebuf.Buffer, token cm.Token) {
	res.Buffers = append(res.Buffers, buf.Detach())
	res.Tokens = append(res.Tokens, token)
}

// Discard releases the buffers of a result which was not issued to the
// caller. It is meant to be deferred right after NewResult.
func (res *Result) Discard() {
	if res.issued {
		return
	}
	res.release()
}

func (res *Result) release() {
	for _, b := range res.Buffers {
		res.alloc.Free(b)
	}
	res.Buffers = nil
	res.Tokens = nil
}

// Generator builds one table type.
type Generator interface {
	// Descriptor returns the table type the generator builds.
	Descriptor() *Descriptor

	// Build queries req.Source and returns the finished table(s). On error
	// nothing stays allocated.
	Build(req *Request) (*Result, error)

	// Free releases a result returned by Build of the same generator.
	// Results not issued by this generator, or already freed, are
	// rejected with an invalid parameter error.
	Free(res *Result) error
}

// Ledger tracks the results a generator issued and not yet freed. The zero
// value is ready to use.
type Ledger struct {
	issued map[*Result]struct{}
}

// Issue records res as handed to the caller and returns it.
func (l *Ledger) Issue(res *Result) *Result {
	if l.issued == nil {
		l.issued = map[*Result]struct{}{}
	}
	res.issued = true
	l.issued[res] = struct{}{}
	return res
}

// Outstanding returns the number of issued results not yet freed.
func (l *Ledger) Outstanding() int {
	return len(l.issued)
}

// Free releases every buffer of res and forgets it.
func (l *Ledger) Free(res *Result) error {
	if res == nil {
		return status.Invalidf("nil table result")
	}
	if _, ok := l.issued[res]; !ok {
		return status.Invalidf("%v result was not issued by this generator or is already freed", res.ID)
	}
	delete(l.issued, res)
	res.release()
	return nil
}

// Base implements the bookkeeping part of Generator. Generators embed it and
// implement Build.
type Base struct {
	Desc   Descriptor
	Ledger Ledger
}

// Descriptor implements Generator.
func (b *Base) Descriptor() *Descriptor {
	return &b.Desc
}

// Free implements Generator.
func (b *Base) Free(res *Result) error {
	if res != nil && res.ID != b.Desc.ID {
		return status.Invalidf("%v result passed to the %v generator", res.ID, b.Desc.ID)
	}
	return b.Ledger.Free(res)
}

// Issue records res as built by this generator.
func (b *Base) Issue(res *Result) *Result {
	return b.Ledger.Issue(res)
}
