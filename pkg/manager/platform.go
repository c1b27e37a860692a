// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"fmt"

	"github.com/linuxboot/tablegen/pkg/acpi"
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/smbios"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
)

// Installer publishes finished tables to the platform.
type Installer interface {
	// Install adds buf, built from the object identified by token, to the
	// platform tables. The buffer stays owned by the caller.
	Install(id table.ID, buf []byte, token cm.Token) error

	// Uninstall removes a previously installed buffer.
	Uninstall(id table.ID, buf []byte) error
}

// Installed is a table or structure held by PlatformTables.
type Installed struct {
	ID     table.ID
	Buffer []byte
	Token  cm.Token

	// Handle is the SMBIOS structure handle; zero for ACPI tables.
	Handle uint16
}

// PlatformTables is an in-memory Installer. ACPI tables are checked for a
// valid header; SMBIOS structures are validated and get a unique handle.
type PlatformTables struct {
	acpi       []Installed
	smbios     []Installed
	nextHandle uint16
}

var _ Installer = (*PlatformTables)(nil)

// NewPlatformTables returns an empty table set.
func NewPlatformTables() *PlatformTables {
	return &PlatformTables{}
}

func sameBuffer(a, b []byte) bool {
	return len(a) != 0 && len(b) != 0 && &a[0] == &b[0]
}

// Install implements Installer.
func (p *PlatformTables) Install(id table.ID, buf []byte, token cm.Token) error {
	switch id.Namespace() {
	case table.NamespaceACPI:
		if _, err := acpi.ParseHeader(buf); err != nil {
			return fmt.Errorf("%v: %w", id, err)
		}
		p.acpi = append(p.acpi, Installed{ID: id, Buffer: buf, Token: token})
		return nil

	case table.NamespaceSMBIOS:
		s, err := smbios.Validate(buf)
		if err != nil {
			return fmt.Errorf("%v: %w", id, err)
		}
		if uint32(s.Header.Type) != id.Index() {
			return status.Invalidf("%v: structure has type %d", id, s.Header.Type)
		}
		handle, err := p.allocHandle()
		if err != nil {
			return err
		}
		if err := smbios.SetHandle(buf, handle); err != nil {
			return err
		}
		p.smbios = append(p.smbios, Installed{ID: id, Buffer: buf, Token: token, Handle: handle})
		return nil
	}
	return status.ErrUnsupported{What: "table namespace", Value: uint64(id.Namespace())}
}

// Handles 0xFFFE and 0xFFFF are reserved.
func (p *PlatformTables) allocHandle() (uint16, error) {
	if p.nextHandle >= smbios.HandlePending {
		return 0, status.CapacityExceeded
	}
	h := p.nextHandle
	p.nextHandle++
	return h, nil
}

// Uninstall implements Installer.
func (p *PlatformTables) Uninstall(id table.ID, buf []byte) error {
	list := &p.acpi
	if id.Namespace() == table.NamespaceSMBIOS {
		list = &p.smbios
	}
	for idx, inst := range *list {
		if inst.ID == id && sameBuffer(inst.Buffer, buf) {
			*list = append((*list)[:idx], (*list)[idx+1:]...)
			return nil
		}
	}
	return status.ErrNotFound{Item: fmt.Sprintf("installed %v table", id)}
}

// ACPI returns the installed ACPI tables in installation order.
func (p *PlatformTables) ACPI() []Installed {
	return append([]Installed(nil), p.acpi...)
}

// Structures returns the installed SMBIOS structures in installation order.
func (p *PlatformTables) Structures() []Installed {
	return append([]Installed(nil), p.smbios...)
}

// Handle returns the handle of the SMBIOS structure built from the object
// identified by token.
func (p *PlatformTables) Handle(token cm.Token) (uint16, error) {
	for _, inst := range p.smbios {
		if inst.Token == token {
			return inst.Handle, nil
		}
	}
	return 0, status.ErrNotFound{Item: fmt.Sprintf("SMBIOS structure of token %v", token)}
}

// SMBIOS assembles the structure table, terminated by an end-of-table
// structure, and its 64-bit entry point for a table placed at address.
func (p *PlatformTables) SMBIOS(address uint64) (entryPoint, structures []byte, err error) {
	if p.nextHandle >= smbios.HandlePending {
		return nil, nil, status.CapacityExceeded
	}
	for _, inst := range p.smbios {
		structures = append(structures, inst.Buffer...)
	}
	end := smbios.EndOfTable()
	if err := smbios.SetHandle(end, p.nextHandle); err != nil {
		return nil, nil, err
	}
	structures = append(structures, end...)

	entryPoint, err = smbios.EntryPoint64(address, uint32(len(structures)))
	if err != nil {
		return nil, nil, err
	}
	return entryPoint, structures, nil
}
