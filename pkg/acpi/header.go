// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package acpi implements generators of ACPI system description tables.
package acpi

import (
	"fmt"

	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// HeaderSize is the size of the common table header.
const HeaderSize = 36

// Values written to the creator fields of every generated table.
const (
	CreatorID       = "LNXB"
	CreatorRevision = uint32(1)
)

const checksumOffset = 9

// Header is the common header of all system description tables.
type Header struct {
	Signature       [4]byte
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       [4]byte
	CreatorRevision uint32
}

func (h *Header) String() string {
	return fmt.Sprintf("%s rev %d, %d bytes, OEM %q/%q/%#x",
		h.Signature[:], h.Revision, h.Length, h.OEMID[:], h.OEMTableID[:], h.OEMRevision)
}

func padded(dst []byte, s, field string) error {
	if len(s) > len(dst) {
		return status.Invalidf("%s %q is longer than %d characters", field, s, len(dst))
	}
	n := copy(dst, s)
	for ; n < len(dst); n++ {
		dst[n] = ' '
	}
	return nil
}

// newHeader fills the header of a table of the given length. An empty
// OEMTableID defaults to the creator ID followed by the signature.
func newHeader(sig string, length int, rev uint8, info *table.Info) (Header, error) {
	h := Header{
		Length:          uint32(length),
		Revision:        rev,
		OEMRevision:     info.OEMRevision,
		CreatorRevision: CreatorRevision,
	}
	copy(h.Signature[:], sig)
	copy(h.CreatorID[:], CreatorID)
	if err := padded(h.OEMID[:], info.OEMID, "OEM ID"); err != nil {
		return h, err
	}
	oemTableID := info.OEMTableID
	if oemTableID == "" {
		oemTableID = CreatorID + sig
	}
	if err := padded(h.OEMTableID[:], oemTableID, "OEM table ID"); err != nil {
		return h, err
	}
	return h, nil
}

// newTable allocates a zeroed table of the given length and writes its
// header. The caller owns the returned buffer.
func newTable(req *table.Request, sig string, length int, rev uint8) (*tablebuf.Buffer, error) {
	h, err := newHeader(sig, length, rev, &req.Info)
	if err != nil {
		return nil, err
	}
	buf, err := tablebuf.New(req.Allocator(), length)
	if err != nil {
		return nil, err
	}
	buf.Write(0, h)
	return buf, nil
}

// Checksum returns the byte sum of b.
func Checksum(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return sum
}

// SetChecksum stores the checksum making the table sum to zero. It must be
// called after the last field is written.
func SetChecksum(buf *tablebuf.Buffer) {
	buf.PutUint8(checksumOffset, 0)
	if buf.Err() != nil {
		return
	}
	buf.PutUint8(checksumOffset, -Checksum(buf.Bytes()))
}

// ParseHeader decodes the header of a table and checks its length and
// checksum.
func ParseHeader(b []byte) (*Header, error) {
	var h Header
	if err := tablebuf.Wrap(b).Read(0, &h); err != nil {
		return nil, fmt.Errorf("unable to read the table header: %w", err)
	}
	if int(h.Length) != len(b) {
		return nil, status.Invalidf("%s table length is %d, but %d bytes were given", h.Signature[:], h.Length, len(b))
	}
	if sum := Checksum(b); sum != 0 {
		return nil, status.Invalidf("%s table checksum is off by %#x", h.Signature[:], sum)
	}
	return &h, nil
}
