// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 32 (System Boot Information) layout.
const (
	bootFixedLength = 0x0A
	bootStatus      = 0x0A

	maxBootStatus = 10
)

// BootNoErrors is the boot status reported when none is configured.
const BootNoErrors = uint8(0)

func encodeBoot(req *table.Request, info *cm.SystemBootInfo) (*tablebuf.Buffer, error) {
	bootStatusBytes := info.BootStatus
	if len(bootStatusBytes) == 0 {
		bootStatusBytes = []uint8{BootNoErrors}
	}
	if len(bootStatusBytes) > maxBootStatus {
		return nil, status.Invalidf("boot status is %d bytes, at most %d are allowed", len(bootStatusBytes), maxBootStatus)
	}

	fields := newTextFields(0)
	defer fields.Release()

	buf, err := newRecord(req, 32, bootFixedLength+len(bootStatusBytes), fields)
	if err != nil {
		return nil, err
	}
	buf.PutBytes(bootStatus, bootStatusBytes)
	return finish(buf)
}

// NewSystemBootInfo returns the generator of the type 32 structure.
func NewSystemBootInfo() *Generator[*cm.SystemBootInfo] {
	return NewGenerator[*cm.SystemBootInfo](32, "System Boot Information", false, encodeBoot)
}
