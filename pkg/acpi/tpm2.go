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

// MaxStartMethodParameters is the size of the start method specific
// parameter area.
const MaxStartMethodParameters = 12

// Field offsets of the TPM2 table.
const (
	tpm2PlatformClass     = 36
	tpm2ControlArea       = 40
	tpm2StartMethod       = 48
	tpm2StartMethodParams = 52
	tpm2FixedSize         = 52
	tpm2LogAreaMinLength  = tpm2StartMethodParams + MaxStartMethodParameters
	tpm2LogAreaStart      = tpm2LogAreaMinLength + 4
	tpm2SizeWithLogArea   = tpm2LogAreaStart + 8

	tpm2FirstLogAreaRevision = 4
)

// TPM2 generates the Trusted Platform Module 2 table from the
// TPM2InterfaceInfo object.
type TPM2 struct {
	table.Base
}

// NewTPM2 returns a TPM2 generator.
func NewTPM2() *TPM2 {
	return &TPM2{Base: table.Base{Desc: table.Descriptor{
		ID:          table.ACPITPM2,
		Name:        "TPM2",
		Description: "Trusted Platform Module 2 Table",
		MinRevision: 3,
		MaxRevision: 4,
	}}}
}

// Build implements table.Generator.
func (g *TPM2) Build(req *table.Request) (*table.Result, error) {
	rev, err := g.Desc.CheckRequest(req)
	if err != nil {
		return nil, err
	}

	info, err := cm.GetObject[*cm.TPM2InterfaceInfo](req.Source, cm.NullToken)
	if err != nil {
		return nil, err
	}
	if len(info.StartMethodParameters) > MaxStartMethodParameters {
		return nil, status.Invalidf("TPM2 start method parameters are %d bytes, at most %d are allowed",
			len(info.StartMethodParameters), MaxStartMethodParameters)
	}

	// The log area fields follow the full parameter area.
	size := tpm2FixedSize + len(info.StartMethodParameters)
	logArea := info.LogAreaMinLength != 0
	switch {
	case logArea && rev < tpm2FirstLogAreaRevision:
		log.Debugf("TPM2: revision %d has no log area fields, omitting them", rev)
		logArea = false
	case logArea:
		size = tpm2SizeWithLogArea
	}

	res := table.NewResult(req, 1)
	defer res.Discard()

	buf, err := newTable(req, "TPM2", size, rev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	buf.PutUint16(tpm2PlatformClass, info.PlatformClass)
	buf.PutUint64(tpm2ControlArea, info.ControlAreaAddress)
	buf.PutUint32(tpm2StartMethod, info.StartMethod)
	buf.PutBytes(tpm2StartMethodParams, info.StartMethodParameters)
	if logArea {
		buf.PutUint32(tpm2LogAreaMinLength, info.LogAreaMinLength)
		buf.PutUint64(tpm2LogAreaStart, info.LogAreaStartAddress)
	}

	SetChecksum(buf)
	if err := buf.Err(); err != nil {
		return nil, err
	}
	res.Append(buf, info.ObjectToken())
	return g.Issue(res), nil
}
