// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/stringtable"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 11 (OEM Strings) layout.
const (
	oemStringsLength = 0x05
	oemStringsCount  = 0x04
)

// The count field holds the number of distinct strings in the pool, as
// identical strings share one entry.
func encodeOEMStrings(req *table.Request, info *cm.OEMStrings) (*tablebuf.Buffer, error) {
	if len(info.Strings) > stringtable.MaxStrings {
		return nil, status.Invalidf("%d OEM strings, at most %d are allowed", len(info.Strings), stringtable.MaxStrings)
	}
	fields := newTextFields(len(info.Strings))
	defer fields.Release()
	for idx, s := range info.Strings {
		if s == "" {
			log.Debugf("OEM string %d is empty, skipping it", idx)
			continue
		}
		fields.Add(s)
	}

	buf, err := newRecord(req, 11, oemStringsLength, fields)
	if err != nil {
		return nil, err
	}
	buf.PutUint8(oemStringsCount, uint8(fields.table.Count()))
	return finish(buf)
}

// NewOEMStrings returns the generator of the type 11 structure.
func NewOEMStrings() *Generator[*cm.OEMStrings] {
	return NewGenerator[*cm.OEMStrings](11, "OEM Strings", false, encodeOEMStrings)
}
