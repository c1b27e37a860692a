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

// Type 41 (Onboard Devices Extended Information) layout.
const (
	onboardLength               = 0x0B
	onboardReferenceDesignation = 0x04
	onboardDeviceType           = 0x05
	onboardDeviceTypeInstance   = 0x06
	onboardSegmentGroup         = 0x07
	onboardBus                  = 0x09
	onboardDeviceFunction       = 0x0A

	onboardEnabled = uint8(0x80)
)

func encodeOnboard(req *table.Request, info *cm.OnboardDeviceInfo) (*tablebuf.Buffer, error) {
	if info.DeviceType&onboardEnabled != 0 {
		return nil, status.Invalidf("onboard device type %#x does not fit 7 bits", info.DeviceType)
	}
	if info.Device > 0x1F || info.Function > 0x07 {
		return nil, status.Invalidf("invalid PCI device/function %d/%d", info.Device, info.Function)
	}

	fields := newTextFields(1)
	defer fields.Release()
	ref := fields.Add(info.ReferenceDesignation)

	buf, err := newRecord(req, 41, onboardLength, fields)
	if err != nil {
		return nil, err
	}
	deviceType := info.DeviceType
	if info.Enabled {
		deviceType |= onboardEnabled
	}
	buf.PutUint8(onboardReferenceDesignation, ref)
	buf.PutUint8(onboardDeviceType, deviceType)
	buf.PutUint8(onboardDeviceTypeInstance, info.DeviceTypeInstance)
	buf.PutUint16(onboardSegmentGroup, info.SegmentGroup)
	buf.PutUint8(onboardBus, info.Bus)
	buf.PutUint8(onboardDeviceFunction, info.Device<<3|info.Function)
	return finish(buf)
}

// NewOnboardDeviceInfo returns the generator of the type 41 structures, one
// per onboard device.
func NewOnboardDeviceInfo() *Generator[*cm.OnboardDeviceInfo] {
	return NewGenerator[*cm.OnboardDeviceInfo](41, "Onboard Devices Extended Information", true, encodeOnboard)
}
