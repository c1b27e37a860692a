// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxboot/tablegen/pkg/status"
)

// Namespace is the family a table belongs to.
type Namespace uint8

// Supported namespaces.
const (
	NamespaceACPI = Namespace(iota)
	NamespaceSMBIOS
)

func (ns Namespace) String() string {
	switch ns {
	case NamespaceACPI:
		return "acpi"
	case NamespaceSMBIOS:
		return "smbios"
	}
	return fmt.Sprintf("ns%d", uint8(ns))
}

// ID identifies a table type: the namespace in the upper byte, the index
// within the namespace below.
type ID uint32

// ACPI table IDs.
const (
	ACPISLIT = ID(uint32(NamespaceACPI)<<24 | iota + 1)
	ACPISPMI
	ACPITPM2
)

var acpiNames = map[ID]string{
	ACPISLIT: "slit",
	ACPISPMI: "spmi",
	ACPITPM2: "tpm2",
}

// SMBIOSType returns the ID of the SMBIOS structure type t.
func SMBIOSType(t uint8) ID {
	return ID(uint32(NamespaceSMBIOS)<<24 | uint32(t))
}

// Namespace returns the namespace of the ID.
func (id ID) Namespace() Namespace {
	return Namespace(id >> 24)
}

// Index returns the ID within its namespace; for SMBIOS it is the
// structure type.
func (id ID) Index() uint32 {
	return uint32(id) & 0xFFFFFF
}

func (id ID) String() string {
	if id.Namespace() == NamespaceACPI {
		if name, ok := acpiNames[id]; ok {
			return "acpi:" + name
		}
	}
	return fmt.Sprintf("%s:%d", id.Namespace(), id.Index())
}

// ParseID parses the text form of an ID, e.g. "acpi:slit" or "smbios:7".
func ParseID(s string) (ID, error) {
	ns, name, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if !ok {
		return 0, status.Invalidf("table id %q is not in the form 'namespace:name'", s)
	}
	switch ns {
	case "acpi":
		for id, n := range acpiNames {
			if n == name {
				return id, nil
			}
		}
		return 0, status.ErrNotFound{Item: "ACPI table " + name}
	case "smbios":
		t, err := strconv.ParseUint(name, 10, 8)
		if err != nil {
			return 0, status.Invalidf("SMBIOS type %q: %v", name, err)
		}
		return SMBIOSType(uint8(t)), nil
	}
	return 0, status.Invalidf("unknown table namespace %q", ns)
}
