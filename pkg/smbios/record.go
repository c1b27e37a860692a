// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package smbios implements generators of SMBIOS structures.
//
// Every structure is a formatted area starting with a Header, followed by
// the string pool of its text fields. Generators leave the handle at
// HandlePending; the installer assigns the final handle with SetHandle.
package smbios

import (
	"fmt"

	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/stringtable"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// HeaderSize is the size of the structure header.
const HeaderSize = 4

// HandlePending marks a structure whose handle is not assigned yet.
const HandlePending = uint16(0xFFFE)

// TypeEndOfTable is the type of the structure terminating the table.
const TypeEndOfTable = uint8(127)

// Version of the SMBIOS specification the structures follow. The major
// version is the revision of every SMBIOS generator.
const (
	VersionMajor = uint8(3)
	VersionMinor = uint8(2)
)

// Header is the header of every structure.
type Header struct {
	Type   uint8
	Length uint8
	Handle uint16
}

func (h Header) String() string {
	return fmt.Sprintf("type %d, length %#x, handle %#04x", h.Type, h.Length, h.Handle)
}

// ParseHeader decodes the header of the structure at the start of rec.
func ParseHeader(rec []byte) (Header, error) {
	var h Header
	if err := tablebuf.Wrap(rec).Read(0, &h); err != nil {
		return h, fmt.Errorf("unable to read the structure header: %w", err)
	}
	if int(h.Length) < HeaderSize {
		return h, status.Invalidf("structure length %d is less than the header size", h.Length)
	}
	return h, nil
}

// SetHandle stores the handle of the structure rec.
func SetHandle(rec []byte, handle uint16) error {
	buf := tablebuf.Wrap(rec)
	buf.PutUint16(2, handle)
	return buf.Err()
}

// textFields collects the strings of one structure. Add errors are sticky
// and reported by Err.
type textFields struct {
	table stringtable.Table
	err   error
}

func newTextFields(maxStrings int) *textFields {
	f := &textFields{}
	f.err = f.table.Initialize(maxStrings)
	return f
}

// Add returns the string reference of s.
func (f *textFields) Add(s string) uint8 {
	if f.err != nil {
		return 0
	}
	ref, err := f.table.Add(s)
	if err != nil {
		f.err = err
		return 0
	}
	return ref
}

func (f *textFields) Err() error {
	return f.err
}

func (f *textFields) Release() {
	f.table.Release()
}

// newRecord allocates a structure with a formatted area of length bytes
// followed by the pool of fields, and writes the header and the pool. The
// caller owns the returned buffer.
func newRecord(req *table.Request, typ uint8, length int, fields *textFields) (*tablebuf.Buffer, error) {
	if err := fields.Err(); err != nil {
		return nil, err
	}
	if length < HeaderSize || length > 0xFF {
		return nil, status.Invalidf("type %d structure length %d is outside [%d, 255]", typ, length, HeaderSize)
	}
	buf, err := tablebuf.New(req.Allocator(), length+fields.table.Size())
	if err != nil {
		return nil, err
	}
	buf.Write(0, Header{Type: typ, Length: uint8(length), Handle: HandlePending})
	if _, err := fields.table.Publish(buf.Bytes()[length:]); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// finish returns buf unless one of its writes failed, in which case buf is
// released.
func finish(buf *tablebuf.Buffer) (*tablebuf.Buffer, error) {
	if err := buf.Err(); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// EndOfTable returns the structure terminating the table.
func EndOfTable() []byte {
	return []byte{TypeEndOfTable, HeaderSize, byte(HandlePending & 0xFF), byte(HandlePending >> 8), 0, 0}
}
