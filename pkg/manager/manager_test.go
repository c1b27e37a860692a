// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	dosmbios "github.com/digitalocean/go-smbios/smbios"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/tablegen/pkg/acpi"
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/smbios"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf/alloctest"
)

type recordingLogger struct {
	warnings []string
	errors   []string
}

func (l *recordingLogger) Debugf(string, ...interface{}) {}
func (l *recordingLogger) Infof(string, ...interface{})  {}
func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func registry(t *testing.T) *table.Registry {
	reg := table.NewRegistry()
	require.NoError(t, acpi.Register(reg))
	require.NoError(t, smbios.Register(reg))
	return reg
}

func platform() *cm.Repository {
	repo := cm.NewRepository()
	repo.Add(&cm.ConfigurationManagerInfo{OEMID: "LNXBT"})
	repo.Add(&cm.BIOSInfo{Vendor: "Acme", Version: "1.0", ReleaseDate: "01/01/2024"})
	repo.Add(&cm.SystemInfo{Manufacturer: "Acme", ProductName: "Box"})
	repo.Add(&cm.CacheInfo{SocketDesignation: "L1"})
	repo.Add(&cm.CacheInfo{SocketDesignation: "L2"})
	repo.Add(&cm.TPM2InterfaceInfo{StartMethod: 7})
	return repo
}

func newManager(t *testing.T, repo *cm.Repository) (*Manager, *PlatformTables, *alloctest.TrackingAllocator, *recordingLogger) {
	inst := NewPlatformTables()
	alloc := alloctest.NewTrackingAllocator()
	logger := &recordingLogger{}
	m := New(registry(t), repo, inst)
	m.Alloc = alloc
	m.Logger = logger
	return m, inst, alloc, logger
}

func TestRequestAndRelease(t *testing.T) {
	repo := platform()
	m, inst, alloc, _ := newManager(t, repo)

	tpm2, err := m.RequestTable(table.ACPITPM2, 0)
	require.NoError(t, err)
	h, err := acpi.ParseHeader(tpm2.Buffers[0])
	require.NoError(t, err)
	require.Equal(t, "LNXBT ", string(h.OEMID[:]))

	caches, err := m.RequestTable(table.SMBIOSType(7), 0)
	require.NoError(t, err)
	require.Equal(t, 2, caches.Len())
	require.Len(t, inst.Structures(), 2)
	require.Len(t, inst.ACPI(), 1)

	first, err := inst.Handle(caches.Tokens[0])
	require.NoError(t, err)
	second, err := inst.Handle(caches.Tokens[1])
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	hdr, err := smbios.ParseHeader(caches.Buffers[1])
	require.NoError(t, err)
	require.Equal(t, second, hdr.Handle)

	require.Equal(t, 3, alloc.Live())
	require.ErrorIs(t, m.ReleaseTable(table.ACPITPM2, caches), status.InvalidParameter)

	require.NoError(t, m.ReleaseTable(table.SMBIOSType(7), caches))
	require.Empty(t, inst.Structures())
	require.ErrorIs(t, m.ReleaseTable(table.SMBIOSType(7), caches), status.InvalidParameter)

	require.NoError(t, m.ReleaseTable(table.ACPITPM2, tpm2))
	require.Empty(t, inst.ACPI())
	require.Zero(t, alloc.Live())
	require.Empty(t, alloc.Misuses())
}

func TestRequestErrorsPassThrough(t *testing.T) {
	m, _, alloc, _ := newManager(t, platform())

	_, err := m.RequestTable(table.ACPITPM2, 2)
	require.ErrorIs(t, err, status.UnsupportedRevision)
	var revErr *table.ErrUnsupportedRevision
	require.ErrorAs(t, err, &revErr)

	_, err = m.RequestTable(table.ACPISPMI, 0)
	require.ErrorIs(t, err, status.NotFound)

	_, err = m.RequestTable(table.SMBIOSType(4), 0)
	require.ErrorIs(t, err, status.NotFound)

	require.Zero(t, alloc.Allocs())
	require.Empty(t, m.Built())
}

type failingInstaller struct {
	*PlatformTables
	failAfter int
}

func (f *failingInstaller) Install(id table.ID, buf []byte, token cm.Token) error {
	if f.failAfter == 0 {
		return errors.New("table list is full")
	}
	f.failAfter--
	return f.PlatformTables.Install(id, buf, token)
}

func TestInstallFailureFreesResult(t *testing.T) {
	repo := platform()
	inst := &failingInstaller{PlatformTables: NewPlatformTables(), failAfter: 1}
	alloc := alloctest.NewTrackingAllocator()
	m := New(registry(t), repo, inst)
	m.Alloc = alloc

	_, err := m.RequestTable(table.SMBIOSType(7), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "table list is full")
	require.Empty(t, inst.Structures())
	require.Zero(t, alloc.Live())
	require.Empty(t, m.Built())
}

func TestBuildAllOmitsFailures(t *testing.T) {
	repo := platform()
	repo.Add(&cm.TableInfo{Table: "smbios:0"})
	repo.Add(&cm.TableInfo{Table: "acpi:spmi"})
	repo.Add(&cm.TableInfo{Table: "acpi:tpm2", Revision: 3, OEMTableID: "BOXTPM"})
	repo.Add(&cm.TableInfo{Table: "smbios:7"})
	repo.Add(&cm.SPMIInterfaceInfo{InterfaceType: 9})
	m, inst, alloc, logger := newManager(t, repo)

	err := m.BuildAll()
	require.ErrorIs(t, err, status.Unsupported)
	var merr interface{ WrappedErrors() []error }
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.WrappedErrors(), 1)
	require.Len(t, logger.warnings, 1)
	require.Contains(t, logger.warnings[0], "acpi:spmi")

	require.Len(t, m.Built(), 3)
	require.Len(t, inst.ACPI(), 1)
	h, err := acpi.ParseHeader(inst.ACPI()[0].Buffer)
	require.NoError(t, err)
	require.Equal(t, uint8(3), h.Revision)
	require.Equal(t, "BOXTPM  ", string(h.OEMTableID[:]))
	require.Len(t, inst.Structures(), 3)

	require.NoError(t, m.ReleaseAll())
	require.Empty(t, m.Built())
	require.Zero(t, alloc.Live())
	require.Empty(t, alloc.Misuses())
}

func TestBuildAllDefaultsToRegistry(t *testing.T) {
	m, inst, alloc, logger := newManager(t, platform())
	err := m.BuildAll()
	require.Error(t, err)

	// SLIT, SPMI and the single-instance structures without source
	// objects are omitted.
	require.Len(t, inst.ACPI(), 1)
	require.Len(t, inst.Structures(), 4)
	require.NotEmpty(t, logger.warnings)

	require.NoError(t, m.ReleaseAll())
	require.Zero(t, alloc.Live())
}

func TestBuildAllBadTableID(t *testing.T) {
	repo := cm.NewRepository()
	repo.Add(&cm.TableInfo{Table: "acpi"})
	m, _, _, _ := newManager(t, repo)
	require.ErrorIs(t, m.BuildAll(), status.InvalidParameter)
}

func TestPlatformSMBIOS(t *testing.T) {
	m, inst, _, _ := newManager(t, platform())
	_, err := m.RequestTable(table.SMBIOSType(0), 0)
	require.NoError(t, err)
	_, err = m.RequestTable(table.SMBIOSType(1), 0)
	require.NoError(t, err)

	ep, structures, err := inst.SMBIOS(0x1000)
	require.NoError(t, err)
	parsed, err := smbios.ParseEntryPoint64(ep)
	require.NoError(t, err)
	require.Equal(t, uint32(len(structures)), parsed.StructureTableMaxSize)
	require.Equal(t, uint64(0x1000), parsed.StructureTableAddress)

	decoded, err := dosmbios.NewDecoder(bytes.NewReader(structures)).Decode()
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	handles := map[uint16]bool{}
	for _, s := range decoded {
		require.False(t, handles[s.Header.Handle], "duplicate handle %#x", s.Header.Handle)
		handles[s.Header.Handle] = true
	}
	require.Equal(t, uint8(0), decoded[0].Header.Type)
	require.Equal(t, []string{"Acme", "1.0", "01/01/2024"}, decoded[0].Strings)
	require.Equal(t, smbios.TypeEndOfTable, decoded[2].Header.Type)
}

func TestPlatformInstallChecks(t *testing.T) {
	inst := NewPlatformTables()
	require.ErrorIs(t, inst.Install(table.ACPISLIT, make([]byte, 40), cm.NullToken), status.InvalidParameter)

	rec := []byte{8, 9, 0xFE, 0xFF, 0, 0, 0, 0, 0, 0, 0}
	require.ErrorIs(t, inst.Install(table.SMBIOSType(7), rec, cm.NullToken), status.InvalidParameter)
	require.NoError(t, inst.Install(table.SMBIOSType(8), rec, cm.NullToken))

	require.ErrorIs(t, inst.Uninstall(table.SMBIOSType(8), []byte{8}), status.NotFound)
	require.NoError(t, inst.Uninstall(table.SMBIOSType(8), rec))

	_, err := inst.Handle(cm.Token(42))
	require.ErrorIs(t, err, status.NotFound)
}

func TestPlatformHandlesExhausted(t *testing.T) {
	inst := NewPlatformTables()
	inst.nextHandle = smbios.HandlePending - 1

	rec := []byte{8, 9, 0xFE, 0xFF, 0, 0, 0, 0, 0, 0, 0}
	require.NoError(t, inst.Install(table.SMBIOSType(8), rec, cm.NullToken))
	require.Equal(t, smbios.HandlePending-1, inst.Structures()[0].Handle)

	// No handle is left for the end-of-table structure.
	_, _, err := inst.SMBIOS(0)
	require.ErrorIs(t, err, status.CapacityExceeded)

	other := append([]byte(nil), rec...)
	require.ErrorIs(t, inst.Install(table.SMBIOSType(8), other, cm.NullToken), status.CapacityExceeded)
}
