// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 1 (System Information) layout.
const (
	systemLength       = 0x1B
	systemManufacturer = 0x04
	systemProductName  = 0x05
	systemVersion      = 0x06
	systemSerialNumber = 0x07
	systemUUID         = 0x08
	systemWakeUpType   = 0x18
	systemSKUNumber    = 0x19
	systemFamily       = 0x1A
)

// The UUID is stored in the same mixed-endian byte order as a GUID.
func encodeSystem(req *table.Request, info *cm.SystemInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(6)
	defer fields.Release()
	manufacturer := fields.Add(info.Manufacturer)
	product := fields.Add(info.ProductName)
	version := fields.Add(info.Version)
	serial := fields.Add(info.SerialNumber)
	sku := fields.Add(info.SKUNumber)
	family := fields.Add(info.Family)

	buf, err := newRecord(req, 1, systemLength, fields)
	if err != nil {
		return nil, err
	}
	buf.PutUint8(systemManufacturer, manufacturer)
	buf.PutUint8(systemProductName, product)
	buf.PutUint8(systemVersion, version)
	buf.PutUint8(systemSerialNumber, serial)
	buf.PutBytes(systemUUID, info.UUID[:])
	buf.PutUint8(systemWakeUpType, info.WakeUpType)
	buf.PutUint8(systemSKUNumber, sku)
	buf.PutUint8(systemFamily, family)
	return finish(buf)
}

// NewSystemInfo returns the generator of the type 1 structure.
func NewSystemInfo() *Generator[*cm.SystemInfo] {
	return NewGenerator[*cm.SystemInfo](1, "System Information", false, encodeSystem)
}
