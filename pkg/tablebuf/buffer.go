// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tablebuf implements the zero-initialised byte buffer a generator
// fills in. All fields are written at explicit little-endian offsets and
// every access is bounds-checked.
//
// A Buffer owns its memory until Detach is called. The usual pattern is
//
//	buf, err := tablebuf.New(alloc, size)
//	if err != nil {
//		return nil, err
//	}
//	defer buf.Release()
//	... fill ...
//	if err := buf.Err(); err != nil {
//		return nil, err
//	}
//	return buf.Detach(), nil
//
// so that every early return hands the memory back to the allocator.
package tablebuf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"

	"github.com/linuxboot/tablegen/pkg/status"
)

// Buffer is a fixed-size table buffer.
//
// The Put methods do not return errors: the first failing access is
// remembered and reported by Err, later Puts are ignored.
type Buffer struct {
	b     []byte
	alloc Allocator
	err   error
	owned bool
}

// New allocates size zeroed bytes from alloc.
func New(alloc Allocator, size int) (*Buffer, error) {
	if alloc == nil {
		alloc = Heap
	}
	if size <= 0 {
		return nil, status.Invalidf("table buffer size must be positive, got %d", size)
	}
	b, err := alloc.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("unable to allocate a table buffer of %d bytes: %w", size, err)
	}
	if len(b) != size {
		alloc.Free(b)
		return nil, status.ErrOutOfMemory{Size: size}
	}
	for i := range b {
		b[i] = 0
	}
	return &Buffer{b: b, alloc: alloc, owned: true}, nil
}

// Wrap returns a read-only view over an existing table, e.g. to decode it.
// Release on a wrapped buffer is a no-op.
func Wrap(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Len returns the buffer size.
func (buf *Buffer) Len() int {
	return len(buf.b)
}

// Bytes returns the underlying memory. It stays owned by the Buffer.
func (buf *Buffer) Bytes() []byte {
	return buf.b
}

// Err returns the first failed access, if any.
func (buf *Buffer) Err() error {
	return buf.err
}

func (buf *Buffer) fail(err error) {
	if buf.err == nil {
		buf.err = err
	}
}

func (buf *Buffer) span(off, size int) []byte {
	if buf.err != nil {
		return nil
	}
	if err := CheckRange(len(buf.b), off, size); err != nil {
		buf.fail(err)
		return nil
	}
	return buf.b[off : off+size]
}

// PutUint8 writes v at off.
func (buf *Buffer) PutUint8(off int, v uint8) {
	if s := buf.span(off, 1); s != nil {
		s[0] = v
	}
}

// PutUint16 writes v at off.
func (buf *Buffer) PutUint16(off int, v uint16) {
	if s := buf.span(off, 2); s != nil {
		binary.LittleEndian.PutUint16(s, v)
	}
}

// PutUint32 writes v at off.
func (buf *Buffer) PutUint32(off int, v uint32) {
	if s := buf.span(off, 4); s != nil {
		binary.LittleEndian.PutUint32(s, v)
	}
}

// PutUint64 writes v at off.
func (buf *Buffer) PutUint64(off int, v uint64) {
	if s := buf.span(off, 8); s != nil {
		binary.LittleEndian.PutUint64(s, v)
	}
}

// PutBytes copies p to off.
func (buf *Buffer) PutBytes(off int, p []byte) {
	if s := buf.span(off, len(p)); s != nil {
		copy(s, p)
	}
}

// PutString writes s into a fixed-width field of the given width, padding
// with pad. A string longer than the field is an invalid parameter.
func (buf *Buffer) PutString(off, width int, s string, pad byte) {
	if len(s) > width {
		buf.fail(status.Invalidf("%q does not fit a %d byte field", s, width))
		return
	}
	if f := buf.span(off, width); f != nil {
		n := copy(f, s)
		for i := n; i < width; i++ {
			f[i] = pad
		}
	}
}

// Write encodes the fixed-size value v at off.
func (buf *Buffer) Write(off int, v interface{}) {
	size := binary.Size(v)
	if size < 0 {
		buf.fail(status.Invalidf("%T is not a fixed-size value", v))
		return
	}
	if buf.span(off, size) == nil {
		return
	}
	rws := bytesextra.NewReadWriteSeeker(buf.b)
	if _, err := rws.Seek(int64(off), io.SeekStart); err != nil {
		buf.fail(fmt.Errorf("unable to Seek(%d, io.SeekStart): %w", off, err))
		return
	}
	if err := binary.Write(rws, binary.LittleEndian, v); err != nil {
		buf.fail(fmt.Errorf("unable to write %T at %#x: %w", v, off, err))
	}
}

// Read decodes the fixed-size value pointed to by v from off.
func (buf *Buffer) Read(off int, v interface{}) error {
	size := binary.Size(v)
	if size < 0 {
		return status.Invalidf("%T is not a fixed-size value", v)
	}
	if err := CheckRange(len(buf.b), off, size); err != nil {
		return err
	}
	rws := bytesextra.NewReadWriteSeeker(buf.b)
	if _, err := rws.Seek(int64(off), io.SeekStart); err != nil {
		return fmt.Errorf("unable to Seek(%d, io.SeekStart): %w", off, err)
	}
	if err := binary.Read(rws, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("unable to read %T at %#x: %w", v, off, err)
	}
	return nil
}

// Slice returns size bytes at off.
func (buf *Buffer) Slice(off, size int) ([]byte, error) {
	if err := CheckRange(len(buf.b), off, size); err != nil {
		return nil, err
	}
	return buf.b[off : off+size], nil
}

// Uint8 reads the byte at off.
func (buf *Buffer) Uint8(off int) (uint8, error) {
	s, err := buf.Slice(off, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// Uint16 reads a little-endian uint16 at off.
func (buf *Buffer) Uint16(off int) (uint16, error) {
	s, err := buf.Slice(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s), nil
}

// Uint32 reads a little-endian uint32 at off.
func (buf *Buffer) Uint32(off int) (uint32, error) {
	s, err := buf.Slice(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s), nil
}

// Uint64 reads a little-endian uint64 at off.
func (buf *Buffer) Uint64(off int) (uint64, error) {
	s, err := buf.Slice(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(s), nil
}

// Detach transfers ownership of the memory to the caller. A later Release
// does nothing.
func (buf *Buffer) Detach() []byte {
	buf.owned = false
	return buf.b
}

// Release returns the memory to the allocator unless it was detached. It is
// idempotent.
func (buf *Buffer) Release() {
	if !buf.owned {
		return
	}
	buf.owned = false
	buf.alloc.Free(buf.b)
	buf.b = nil
}
