// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
)

// IPMI interface types.
const (
	InterfaceKCS  = uint8(1)
	InterfaceSMIC = uint8(2)
	InterfaceBT   = uint8(3)
	InterfaceSSIF = uint8(4)
)

// SPMISize is the size of a revision 5 SPMI table.
const SPMISize = 65

// Field offsets of the SPMI table.
const (
	spmiInterfaceType = 36
	spmiReserved1     = 37
	spmiSpecRevision  = 38
	spmiInterruptType = 40
	spmiGPE           = 41
	spmiPCIDeviceFlag = 43
	spmiGSI           = 44
	spmiBaseAddress   = 48
	spmiUID           = 60
)

// SPMI generates the Service Processor Management Interface table from the
// SPMIInterfaceInfo object.
type SPMI struct {
	table.Base
}

// NewSPMI returns an SPMI generator.
func NewSPMI() *SPMI {
	return &SPMI{Base: table.Base{Desc: table.Descriptor{
		ID:          table.ACPISPMI,
		Name:        "SPMI",
		Description: "Service Processor Management Interface Table",
		MinRevision: 5,
		MaxRevision: 5,
	}}}
}

// Build implements table.Generator.
func (g *SPMI) Build(req *table.Request) (*table.Result, error) {
	rev, err := g.Desc.CheckRequest(req)
	if err != nil {
		return nil, err
	}

	info, err := cm.GetObject[*cm.SPMIInterfaceInfo](req.Source, cm.NullToken)
	if err != nil {
		return nil, err
	}

	res := table.NewResult(req, 1)
	defer res.Discard()

	buf, err := newTable(req, "SPMI", SPMISize, rev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	buf.PutUint8(spmiInterfaceType, info.InterfaceType)
	buf.PutUint8(spmiReserved1, 1)
	buf.PutUint16(spmiSpecRevision, info.SpecRevision)

	switch info.InterfaceType {
	case InterfaceKCS, InterfaceSMIC, InterfaceBT:
		buf.PutUint8(spmiInterruptType, info.InterruptType)
		buf.PutUint8(spmiGPE, info.GPE)
		buf.PutUint8(spmiPCIDeviceFlag, info.PCIDeviceFlag)
		buf.PutUint32(spmiGSI, info.GlobalSystemInterrupt)
		buf.Write(spmiBaseAddress, genericAddress(info.BaseAddress))
		buf.PutBytes(spmiUID, info.UID[:])
	case InterfaceSSIF:
		if info.InterruptType != 0 || info.GlobalSystemInterrupt != 0 {
			log.Debugf("SPMI: SSIF interface has no interrupt, ignoring the configured one")
		}
		buf.Write(spmiBaseAddress, GenericAddress{
			SpaceID: SpaceSMBus,
			Address: uint64(info.SSIFTargetAddress),
		})
	default:
		return nil, status.ErrUnsupported{What: "IPMI interface type", Value: uint64(info.InterfaceType)}
	}

	SetChecksum(buf)
	if err := buf.Err(); err != nil {
		return nil, err
	}
	res.Append(buf, info.ObjectToken())
	return g.Issue(res), nil
}
