// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 38 (IPMI Device Information) layout.
const (
	ipmiLength                 = 0x12
	ipmiInterfaceType          = 0x04
	ipmiSpecRevision           = 0x05
	ipmiI2CTargetAddress       = 0x06
	ipmiNVStorageDeviceAddress = 0x07
	ipmiBaseAddress            = 0x08
	ipmiBaseAddressModifier    = 0x10
	ipmiInterruptNumber        = 0x11
)

func encodeIPMI(req *table.Request, info *cm.IPMIDeviceInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(0)
	defer fields.Release()

	buf, err := newRecord(req, 38, ipmiLength, fields)
	if err != nil {
		return nil, err
	}
	buf.PutUint8(ipmiInterfaceType, info.InterfaceType)
	buf.PutUint8(ipmiSpecRevision, info.SpecRevision)
	buf.PutUint8(ipmiI2CTargetAddress, info.I2CTargetAddress)
	buf.PutUint8(ipmiNVStorageDeviceAddress, info.NVStorageDeviceAddress)
	buf.PutUint64(ipmiBaseAddress, info.BaseAddress)
	buf.PutUint8(ipmiBaseAddressModifier, info.BaseAddressModifier)
	buf.PutUint8(ipmiInterruptNumber, info.InterruptNumber)
	return finish(buf)
}

// NewIPMIDeviceInfo returns the generator of the type 38 structure.
func NewIPMIDeviceInfo() *Generator[*cm.IPMIDeviceInfo] {
	return NewGenerator[*cm.IPMIDeviceInfo](38, "IPMI Device Information", false, encodeIPMI)
}
