// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 8 (Port Connector Information) layout.
const (
	portLength                = 0x09
	portInternalReference     = 0x04
	portInternalConnectorType = 0x05
	portExternalReference     = 0x06
	portExternalConnectorType = 0x07
	portType                  = 0x08
)

func encodePort(req *table.Request, info *cm.PortConnectorInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(2)
	defer fields.Release()
	internal := fields.Add(info.InternalReference)
	external := fields.Add(info.ExternalReference)

	buf, err := newRecord(req, 8, portLength, fields)
	if err != nil {
		return nil, err
	}
	buf.PutUint8(portInternalReference, internal)
	buf.PutUint8(portInternalConnectorType, info.InternalConnectorType)
	buf.PutUint8(portExternalReference, external)
	buf.PutUint8(portExternalConnectorType, info.ExternalConnectorType)
	buf.PutUint8(portType, info.PortType)
	return finish(buf)
}

// NewPortConnectorInfo returns the generator of the type 8 structures, one
// per port connector.
func NewPortConnectorInfo() *Generator[*cm.PortConnectorInfo] {
	return NewGenerator[*cm.PortConnectorInfo](8, "Port Connector Information", true, encodePort)
}
