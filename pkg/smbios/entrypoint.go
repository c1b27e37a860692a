// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"bytes"

	dosmbios "github.com/digitalocean/go-smbios/smbios"

	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// EntryPointSize is the size of the 64-bit entry point.
const EntryPointSize = 24

const (
	entryPointAnchor   = "_SM3_"
	entryPointChecksum = 5
	entryPointRevision = 1
)

type entryPoint64 struct {
	Anchor                [5]byte
	Checksum              uint8
	Length                uint8
	Major                 uint8
	Minor                 uint8
	DocRevision           uint8
	EntryPointRevision    uint8
	Reserved              uint8
	StructureTableMaxSize uint32
	StructureTableAddress uint64
}

// EntryPoint64 returns the SMBIOS 3.0 entry point of a structure table of
// tableSize bytes placed at tableAddress.
func EntryPoint64(tableAddress uint64, tableSize uint32) ([]byte, error) {
	ep := entryPoint64{
		Length:                EntryPointSize,
		Major:                 VersionMajor,
		Minor:                 VersionMinor,
		EntryPointRevision:    entryPointRevision,
		StructureTableMaxSize: tableSize,
		StructureTableAddress: tableAddress,
	}
	copy(ep.Anchor[:], entryPointAnchor)

	buf := tablebuf.Wrap(make([]byte, EntryPointSize))
	buf.Write(0, ep)
	var sum uint8
	for _, b := range buf.Bytes() {
		sum += b
	}
	buf.PutUint8(entryPointChecksum, -sum)
	if err := buf.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseEntryPoint64 decodes and verifies a 64-bit entry point.
func ParseEntryPoint64(b []byte) (*dosmbios.EntryPoint64Bit, error) {
	ep, err := dosmbios.ParseEntryPoint(bytes.NewReader(b))
	if err != nil {
		return nil, status.Invalidf("unable to parse the SMBIOS entry point: %v", err)
	}
	ep64, ok := ep.(*dosmbios.EntryPoint64Bit)
	if !ok {
		return nil, status.Invalidf("SMBIOS entry point is %T, not a 64-bit one", ep)
	}
	return ep64, nil
}
