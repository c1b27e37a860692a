// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/stringtable"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 13 (BIOS Language Information) layout.
const (
	languageLength      = 0x16
	languageInstallable = 0x04
	languageFlags       = 0x05
	languageCurrent     = 0x15

	languageAbbreviated = uint8(1)
)

// An empty current language selects the first one.
func encodeLanguage(req *table.Request, info *cm.BIOSLanguageInfo) (*tablebuf.Buffer, error) {
	if len(info.Languages) == 0 {
		return nil, status.Invalidf("no installable BIOS languages")
	}
	if len(info.Languages) > stringtable.MaxStrings {
		return nil, status.Invalidf("%d BIOS languages, at most %d are allowed", len(info.Languages), stringtable.MaxStrings)
	}
	current := info.Current
	if current == "" {
		current = info.Languages[0]
	}
	found := false
	for _, l := range info.Languages {
		if l == "" {
			return nil, status.Invalidf("empty BIOS language name")
		}
		found = found || l == current
	}
	if !found {
		return nil, status.Invalidf("current BIOS language %q is not installable", current)
	}

	fields := newTextFields(len(info.Languages))
	defer fields.Release()
	for _, l := range info.Languages {
		fields.Add(l)
	}
	currentRef := fields.Add(current)

	buf, err := newRecord(req, 13, languageLength, fields)
	if err != nil {
		return nil, err
	}
	var flags uint8
	if info.Abbreviated {
		flags |= languageAbbreviated
	}
	buf.PutUint8(languageInstallable, uint8(fields.table.Count()))
	buf.PutUint8(languageFlags, flags)
	buf.PutUint8(languageCurrent, currentRef)
	return finish(buf)
}

// NewBIOSLanguageInfo returns the generator of the type 13 structure.
func NewBIOSLanguageInfo() *Generator[*cm.BIOSLanguageInfo] {
	return NewGenerator[*cm.BIOSLanguageInfo](13, "BIOS Language Information", false, encodeLanguage)
}
