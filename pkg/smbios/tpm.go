// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 43 (TPM Device) layout.
const (
	tpmLength           = 0x1F
	tpmVendorID         = 0x04
	tpmVendorIDSize     = 4
	tpmMajorSpecVersion = 0x08
	tpmMinorSpecVersion = 0x09
	tpmFirmwareVersion1 = 0x0A
	tpmFirmwareVersion2 = 0x0E
	tpmDescription      = 0x12
	tpmCharacteristics  = 0x13
	tpmOEMDefined       = 0x1B
)

// The vendor ID is NUL padded; a longer one is an invalid parameter.
func encodeTPM(req *table.Request, info *cm.TPMDeviceInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(1)
	defer fields.Release()
	description := fields.Add(info.Description)

	buf, err := newRecord(req, 43, tpmLength, fields)
	if err != nil {
		return nil, err
	}
	buf.PutString(tpmVendorID, tpmVendorIDSize, info.VendorID, 0)
	buf.PutUint8(tpmMajorSpecVersion, info.MajorSpecVersion)
	buf.PutUint8(tpmMinorSpecVersion, info.MinorSpecVersion)
	buf.PutUint32(tpmFirmwareVersion1, info.FirmwareVersion1)
	buf.PutUint32(tpmFirmwareVersion2, info.FirmwareVersion2)
	buf.PutUint8(tpmDescription, description)
	buf.PutUint64(tpmCharacteristics, info.Characteristics)
	buf.PutUint32(tpmOEMDefined, info.OEMDefined)
	return finish(buf)
}

// NewTPMDeviceInfo returns the generator of the type 43 structure.
func NewTPMDeviceInfo() *Generator[*cm.TPMDeviceInfo] {
	return NewGenerator[*cm.TPMDeviceInfo](43, "TPM Device", false, encodeTPM)
}
