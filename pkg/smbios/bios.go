// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 0 (BIOS Information) layout.
const (
	biosLength             = 0x1A
	biosVendor             = 0x04
	biosVersion            = 0x05
	biosStartingSegment    = 0x06
	biosReleaseDate        = 0x08
	biosROMSize            = 0x09
	biosCharacteristics    = 0x0A
	biosCharacteristicsExt = 0x12
	biosSystemMajor        = 0x14
	biosSystemMinor        = 0x15
	biosECMajor            = 0x16
	biosECMinor            = 0x17
	biosExtendedROMSize    = 0x18
)

// romSize encodes a BIOS ROM size in KiB, rounding up. Sizes which do not
// fit the 64 KiB unit byte are only representable in the extended field, in
// MiB or GiB units.
func romSize(kib uint32) (uint8, uint16) {
	if kib == 0 {
		return 0, 0
	}
	if units := (uint64(kib) + 63) / 64; units <= 0xFF {
		return uint8(units - 1), 0
	}
	mib := (uint64(kib) + 1023) / 1024
	if mib <= 0x3FFF {
		return 0xFF, uint16(mib)
	}
	return 0xFF, 1<<14 | uint16((mib+1023)/1024)
}

func encodeBIOS(req *table.Request, info *cm.BIOSInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(3)
	defer fields.Release()
	vendor := fields.Add(info.Vendor)
	version := fields.Add(info.Version)
	date := fields.Add(info.ReleaseDate)

	buf, err := newRecord(req, 0, biosLength, fields)
	if err != nil {
		return nil, err
	}
	size, extSize := romSize(info.ROMSize)
	buf.PutUint8(biosVendor, vendor)
	buf.PutUint8(biosVersion, version)
	buf.PutUint16(biosStartingSegment, info.StartingSegment)
	buf.PutUint8(biosReleaseDate, date)
	buf.PutUint8(biosROMSize, size)
	buf.PutUint64(biosCharacteristics, info.Characteristics)
	buf.PutBytes(biosCharacteristicsExt, info.CharacteristicsExt[:])
	buf.PutUint8(biosSystemMajor, info.SystemBIOSMajor)
	buf.PutUint8(biosSystemMinor, info.SystemBIOSMinor)
	buf.PutUint8(biosECMajor, info.ECFirmwareMajor)
	buf.PutUint8(biosECMinor, info.ECFirmwareMinor)
	buf.PutUint16(biosExtendedROMSize, extSize)
	return finish(buf)
}

// NewBIOSInfo returns the generator of the type 0 structure.
func NewBIOSInfo() *Generator[*cm.BIOSInfo] {
	return NewGenerator[*cm.BIOSInfo](0, "BIOS Information", false, encodeBIOS)
}
