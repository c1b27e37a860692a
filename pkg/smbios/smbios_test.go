// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	dosmbios "github.com/digitalocean/go-smbios/smbios"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/guid"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
	"github.com/linuxboot/tablegen/pkg/tablebuf/alloctest"
)

func request(g table.Generator, src cm.Manager, alloc tablebuf.Allocator) *table.Request {
	return &table.Request{
		Info:   table.Info{ID: g.Descriptor().ID},
		Source: src,
		Alloc:  alloc,
	}
}

func buildOne(t *testing.T, g table.Generator, objs ...cm.Object) []byte {
	t.Helper()
	repo := cm.NewRepository()
	for _, obj := range objs {
		repo.Add(obj)
	}
	res, err := g.Build(request(g, repo, nil))
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	rec := append([]byte(nil), res.Buffers[0]...)
	require.NoError(t, g.Free(res))
	_, err = Validate(rec)
	require.NoError(t, err)
	return rec
}

func TestBIOSInfoStringPool(t *testing.T) {
	alloc := alloctest.NewTrackingAllocator()
	repo := cm.NewRepository()
	tok := repo.Add(&cm.BIOSInfo{Vendor: "Acme", Version: "1.0", ReleaseDate: "01/01/2024"})
	g := NewBIOSInfo()

	res, err := g.Build(request(g, repo, alloc))
	require.NoError(t, err)
	require.Equal(t, []cm.Token{tok}, res.Tokens)
	rec := res.Buffers[0]

	require.Equal(t, "Acme\x001.0\x0001/01/2024\x00\x00", string(rec[biosLength:]))
	require.Equal(t, uint8(1), rec[biosVendor])
	require.Equal(t, uint8(2), rec[biosVersion])
	require.Equal(t, uint8(3), rec[biosReleaseDate])

	h, err := ParseHeader(rec)
	require.NoError(t, err)
	require.Equal(t, Header{Type: 0, Length: biosLength, Handle: HandlePending}, h)

	require.NoError(t, g.Free(res))
	require.Zero(t, alloc.Live())
	require.Empty(t, alloc.Misuses())
}

func TestBIOSInfoFields(t *testing.T) {
	rec := buildOne(t, NewBIOSInfo(), &cm.BIOSInfo{
		Vendor:             "Acme",
		Version:            "Acme",
		StartingSegment:    0xE800,
		ROMSize:            32 * 1024,
		Characteristics:    0x08,
		CharacteristicsExt: [2]uint8{0x03, 0x0C},
		SystemBIOSMajor:    1,
		SystemBIOSMinor:    2,
		ECFirmwareMajor:    0xFF,
		ECFirmwareMinor:    0xFF,
	})
	// Identical vendor and version share one string.
	require.Equal(t, uint8(1), rec[biosVendor])
	require.Equal(t, uint8(1), rec[biosVersion])
	require.Zero(t, rec[biosReleaseDate])
	require.Equal(t, "Acme\x00\x00", string(rec[biosLength:]))

	require.Equal(t, uint16(0xE800), binary.LittleEndian.Uint16(rec[biosStartingSegment:]))
	require.Equal(t, uint8(0xFF), rec[biosROMSize])
	require.Equal(t, uint16(32), binary.LittleEndian.Uint16(rec[biosExtendedROMSize:]))
	require.Equal(t, uint64(0x08), binary.LittleEndian.Uint64(rec[biosCharacteristics:]))
	require.Equal(t, []byte{0x03, 0x0C, 1, 2, 0xFF, 0xFF}, rec[biosCharacteristicsExt:biosExtendedROMSize])
}

func TestROMSize(t *testing.T) {
	for _, tc := range []struct {
		kib     uint32
		size    uint8
		extSize uint16
	}{
		{0, 0, 0},
		{64, 0, 0},
		{1024, 15, 0},
		{0xFF * 64, 0xFE, 0},
		{0xFF*64 + 1, 0xFF, 16},
		{16*1024 - 1, 0xFF, 16},
		{16 * 1024, 0xFF, 16},
		{16*1024 + 512, 0xFF, 17},
		{0x3FFF * 1024, 0xFF, 0x3FFF},
		{0x4000 * 1024, 0xFF, 1<<14 | 16},
		{0x4000*1024 + 1, 0xFF, 1<<14 | 17},
		{math.MaxUint32, 0xFF, 1<<14 | 4096},
	} {
		t.Run(fmt.Sprint(tc.kib), func(t *testing.T) {
			size, extSize := romSize(tc.kib)
			require.Equal(t, tc.size, size)
			require.Equal(t, tc.extSize, extSize)
		})
	}
}

func TestSystemInfo(t *testing.T) {
	uuid := guid.MustParse("12345678-9ABC-DEF0-1234-56789ABCDEF0")
	rec := buildOne(t, NewSystemInfo(), &cm.SystemInfo{
		Manufacturer: "Acme",
		ProductName:  "Box",
		SerialNumber: "S1",
		UUID:         *uuid,
		WakeUpType:   6,
		Family:       "Acme",
	})
	s, err := Validate(rec)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Acme", "Box", "S1"}, s.Strings); diff != "" {
		t.Errorf("strings mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []byte{1, 2, 0, 3}, rec[systemManufacturer:systemUUID])
	require.Equal(t, []byte{0x78, 0x56, 0x34, 0x12, 0xBC, 0x9A, 0xF0, 0xDE}, rec[systemUUID:systemUUID+8])
	require.Equal(t, uint8(6), rec[systemWakeUpType])
	require.Zero(t, rec[systemSKUNumber])
	require.Equal(t, uint8(1), rec[systemFamily])
}

func TestCacheSize(t *testing.T) {
	for _, tc := range []struct {
		kib    uint32
		size16 uint16
		size32 uint32
	}{
		{0, 0, 0},
		{32, 32, 32},
		{0x7FFF, 0x7FFF, 0x7FFF},
		{0x8000, 0x8200, 0x80000200},
		{64 * 0x7FFF, 0xFFFF, 0x80007FFF},
		{64 * 0x8000, 0xFFFF, 64 * 0x8000},
		{0x80000000, 0xFFFF, 0x80000000 | 0x80000000/64},
	} {
		t.Run(fmt.Sprint(tc.kib), func(t *testing.T) {
			size16, size32 := cacheSize(tc.kib)
			require.Equal(t, tc.size16, size16)
			require.Equal(t, tc.size32, size32)
		})
	}
}

func TestMultiInstanceNoLeaks(t *testing.T) {
	type factory struct {
		gen  func() table.Generator
		add  func(repo *cm.Repository, i int) cm.Token
		name string
	}
	for _, f := range []factory{
		{
			name: "cache",
			gen:  func() table.Generator { return NewCacheInfo() },
			add: func(repo *cm.Repository, i int) cm.Token {
				return repo.Add(&cm.CacheInfo{SocketDesignation: "L1 Cache", InstalledSize: uint32(32 << i)})
			},
		},
		{
			name: "port",
			gen:  func() table.Generator { return NewPortConnectorInfo() },
			add: func(repo *cm.Repository, i int) cm.Token {
				return repo.Add(&cm.PortConnectorInfo{ExternalReference: fmt.Sprintf("USB%d", i), PortType: 0x10})
			},
		},
		{
			name: "onboard",
			gen:  func() table.Generator { return NewOnboardDeviceInfo() },
			add: func(repo *cm.Repository, i int) cm.Token {
				return repo.Add(&cm.OnboardDeviceInfo{ReferenceDesignation: "NIC", DeviceType: 5, Enabled: true, Bus: uint8(i)})
			},
		},
	} {
		for _, k := range []int{0, 1, 7} {
			t.Run(fmt.Sprintf("%s/%d", f.name, k), func(t *testing.T) {
				alloc := alloctest.NewTrackingAllocator()
				repo := cm.NewRepository()
				var tokens []cm.Token
				for i := 0; i < k; i++ {
					tokens = append(tokens, f.add(repo, i))
				}
				g := f.gen()
				res, err := g.Build(request(g, repo, alloc))
				require.NoError(t, err)
				require.Equal(t, k, res.Len())
				require.Len(t, res.Tokens, k)
				require.Equal(t, k, cap(res.Tokens))
				for i := range tokens {
					require.Equal(t, tokens[i], res.Tokens[i])
					_, err := Validate(res.Buffers[i])
					require.NoError(t, err)
				}
				require.Equal(t, k, alloc.Live())

				require.NoError(t, g.Free(res))
				require.Zero(t, alloc.Live())
				require.Empty(t, alloc.Misuses())
			})
		}
	}
}

func TestMultiInstancePartialFailure(t *testing.T) {
	alloc := alloctest.NewTrackingAllocator()
	repo := cm.NewRepository()
	repo.Add(&cm.OnboardDeviceInfo{ReferenceDesignation: "A"})
	repo.Add(&cm.OnboardDeviceInfo{ReferenceDesignation: "B"})
	repo.Add(&cm.OnboardDeviceInfo{ReferenceDesignation: "C", Function: 9})
	g := NewOnboardDeviceInfo()

	_, err := g.Build(request(g, repo, alloc))
	require.ErrorIs(t, err, status.InvalidParameter)
	require.Equal(t, 2, alloc.Allocs())
	require.Zero(t, alloc.Live())
	require.Zero(t, g.Ledger.Outstanding())

	limit := &alloctest.LimitAllocator{Backend: alloc, Limit: 1}
	repo = cm.NewRepository()
	repo.Add(&cm.CacheInfo{})
	repo.Add(&cm.CacheInfo{})
	c := NewCacheInfo()
	_, err = c.Build(request(c, repo, limit))
	require.ErrorIs(t, err, status.OutOfMemory)
	require.Zero(t, alloc.Live())
}

func TestCacheInfo(t *testing.T) {
	rec := buildOne(t, NewCacheInfo(), &cm.CacheInfo{
		SocketDesignation:   "L2",
		Configuration:       0x0181,
		MaximumSize:         1024,
		InstalledSize:       64 * 1024,
		SupportedSRAMType:   0x20,
		CurrentSRAMType:     0x20,
		ErrorCorrectionType: 5,
		SystemCacheType:     5,
		Associativity:       8,
	})
	require.Len(t, rec, cacheLength+4)
	require.Equal(t, uint8(1), rec[cacheSocketDesignation])
	require.Equal(t, uint16(0x0181), binary.LittleEndian.Uint16(rec[cacheConfiguration:]))
	require.Equal(t, uint16(1024), binary.LittleEndian.Uint16(rec[cacheMaximumSize:]))
	require.Equal(t, uint16(0x8400), binary.LittleEndian.Uint16(rec[cacheInstalledSize:]))
	require.Equal(t, uint32(1024), binary.LittleEndian.Uint32(rec[cacheMaximumSize2:]))
	require.Equal(t, uint32(0x80000400), binary.LittleEndian.Uint32(rec[cacheInstalledSize2:]))
	require.Equal(t, []byte{0, 5, 5, 8}, rec[cacheSpeed:cacheMaximumSize2])
}

func TestPortConnectorInfo(t *testing.T) {
	rec := buildOne(t, NewPortConnectorInfo(), &cm.PortConnectorInfo{
		InternalReference:     "J1",
		InternalConnectorType: 0x0B,
		ExternalConnectorType: 0x12,
		PortType:              0x10,
	})
	require.Equal(t, []byte{1, 0x0B, 0, 0x12, 0x10}, rec[portInternalReference:portLength])
	require.Equal(t, "J1\x00\x00", string(rec[portLength:]))
}

func TestOEMStrings(t *testing.T) {
	rec := buildOne(t, NewOEMStrings(), &cm.OEMStrings{Strings: []string{"a", "", "b", "a"}})
	require.Equal(t, uint8(2), rec[oemStringsCount])
	require.Equal(t, "a\x00b\x00\x00", string(rec[oemStringsLength:]))

	rec = buildOne(t, NewOEMStrings(), &cm.OEMStrings{})
	require.Zero(t, rec[oemStringsCount])
	require.Equal(t, []byte{0, 0}, rec[oemStringsLength:])

	repo := cm.NewRepository()
	repo.Add(&cm.OEMStrings{Strings: make([]string, 256)})
	g := NewOEMStrings()
	_, err := g.Build(request(g, repo, nil))
	require.ErrorIs(t, err, status.InvalidParameter)
}

func TestBIOSLanguageInfo(t *testing.T) {
	rec := buildOne(t, NewBIOSLanguageInfo(), &cm.BIOSLanguageInfo{
		Languages:   []string{"enUS", "frFR", "deDE"},
		Current:     "frFR",
		Abbreviated: true,
	})
	require.Equal(t, uint8(3), rec[languageInstallable])
	require.Equal(t, languageAbbreviated, rec[languageFlags])
	require.Equal(t, make([]byte, 15), rec[languageFlags+1:languageCurrent])
	require.Equal(t, uint8(2), rec[languageCurrent])
	require.Equal(t, "enUS\x00frFR\x00deDE\x00\x00", string(rec[languageLength:]))

	rec = buildOne(t, NewBIOSLanguageInfo(), &cm.BIOSLanguageInfo{Languages: []string{"en|US|iso8859-1"}})
	require.Equal(t, uint8(1), rec[languageCurrent])

	for name, info := range map[string]*cm.BIOSLanguageInfo{
		"no_languages":    {},
		"unknown_current": {Languages: []string{"enUS"}, Current: "jaJP"},
		"empty_language":  {Languages: []string{"enUS", ""}},
	} {
		t.Run(name, func(t *testing.T) {
			alloc := alloctest.NewTrackingAllocator()
			repo := cm.NewRepository()
			repo.Add(info)
			g := NewBIOSLanguageInfo()
			_, err := g.Build(request(g, repo, alloc))
			require.ErrorIs(t, err, status.InvalidParameter)
			require.Zero(t, alloc.Allocs())
		})
	}
}

func TestSystemBootInfo(t *testing.T) {
	rec := buildOne(t, NewSystemBootInfo(), &cm.SystemBootInfo{})
	require.Len(t, rec, bootFixedLength+1+2)
	require.Equal(t, uint8(bootFixedLength+1), rec[1])
	require.Equal(t, BootNoErrors, rec[bootStatus])

	rec = buildOne(t, NewSystemBootInfo(), &cm.SystemBootInfo{BootStatus: []uint8{0x80, 1, 2}})
	require.Equal(t, uint8(bootFixedLength+3), rec[1])
	require.Equal(t, []byte{0x80, 1, 2, 0, 0}, rec[bootStatus:])

	repo := cm.NewRepository()
	repo.Add(&cm.SystemBootInfo{BootStatus: make([]uint8, 11)})
	g := NewSystemBootInfo()
	_, err := g.Build(request(g, repo, nil))
	require.ErrorIs(t, err, status.InvalidParameter)
}

func TestIPMIDeviceInfo(t *testing.T) {
	rec := buildOne(t, NewIPMIDeviceInfo(), &cm.IPMIDeviceInfo{
		InterfaceType:          1,
		SpecRevision:           0x20,
		I2CTargetAddress:       0x20,
		NVStorageDeviceAddress: 0xFF,
		BaseAddress:            0xCA3,
		BaseAddressModifier:    0x10,
		InterruptNumber:        0,
	})
	require.Len(t, rec, ipmiLength+2)
	require.Equal(t, []byte{1, 0x20, 0x20, 0xFF}, rec[ipmiInterfaceType:ipmiBaseAddress])
	require.Equal(t, uint64(0xCA3), binary.LittleEndian.Uint64(rec[ipmiBaseAddress:]))
	require.Equal(t, uint8(0x10), rec[ipmiBaseAddressModifier])
}

func TestOnboardDeviceInfo(t *testing.T) {
	rec := buildOne(t, NewOnboardDeviceInfo(), &cm.OnboardDeviceInfo{
		ReferenceDesignation: "Onboard LAN",
		DeviceType:           5,
		Enabled:              true,
		DeviceTypeInstance:   1,
		SegmentGroup:         0,
		Bus:                  3,
		Device:               0x1F,
		Function:             2,
	})
	require.Equal(t, uint8(1), rec[onboardReferenceDesignation])
	require.Equal(t, uint8(0x85), rec[onboardDeviceType])
	require.Equal(t, uint8(1), rec[onboardDeviceTypeInstance])
	require.Equal(t, uint8(3), rec[onboardBus])
	require.Equal(t, uint8(0xFA), rec[onboardDeviceFunction])

	rec = buildOne(t, NewOnboardDeviceInfo(), &cm.OnboardDeviceInfo{DeviceType: 5})
	require.Equal(t, uint8(5), rec[onboardDeviceType])
}

func TestTPMDeviceInfo(t *testing.T) {
	rec := buildOne(t, NewTPMDeviceInfo(), &cm.TPMDeviceInfo{
		VendorID:         "IFX",
		MajorSpecVersion: 2,
		FirmwareVersion1: 0x00070055,
		Description:      "TPM 2.0",
		Characteristics:  1 << 4,
		OEMDefined:       0xAA55,
	})
	require.Equal(t, []byte{'I', 'F', 'X', 0}, rec[tpmVendorID:tpmMajorSpecVersion])
	require.Equal(t, uint8(2), rec[tpmMajorSpecVersion])
	require.Equal(t, uint32(0x00070055), binary.LittleEndian.Uint32(rec[tpmFirmwareVersion1:]))
	require.Equal(t, uint8(1), rec[tpmDescription])
	require.Equal(t, uint64(1<<4), binary.LittleEndian.Uint64(rec[tpmCharacteristics:]))
	require.Equal(t, uint32(0xAA55), binary.LittleEndian.Uint32(rec[tpmOEMDefined:]))

	alloc := alloctest.NewTrackingAllocator()
	repo := cm.NewRepository()
	repo.Add(&cm.TPMDeviceInfo{VendorID: "TOOLONG"})
	g := NewTPMDeviceInfo()
	_, err := g.Build(request(g, repo, alloc))
	require.ErrorIs(t, err, status.InvalidParameter)
	require.Equal(t, 1, alloc.Allocs())
	require.Zero(t, alloc.Live())
}

func TestSingleInstanceMissingObject(t *testing.T) {
	for _, g := range Generators() {
		gen := g
		if mi, ok := gen.(interface{ MultiInstance() bool }); ok && mi.MultiInstance() {
			continue
		}
		t.Run(gen.Descriptor().Name, func(t *testing.T) {
			alloc := alloctest.NewTrackingAllocator()
			_, err := gen.Build(request(gen, cm.NewRepository(), alloc))
			require.ErrorIs(t, err, status.NotFound)
			require.Zero(t, alloc.Allocs())
		})
	}
}

func TestRevision(t *testing.T) {
	repo := cm.NewRepository()
	repo.Add(&cm.BIOSInfo{})
	g := NewBIOSInfo()
	req := request(g, repo, nil)
	req.Revision = 2
	_, err := g.Build(req)
	require.ErrorIs(t, err, status.UnsupportedRevision)
}

func TestValidate(t *testing.T) {
	rec := buildOne(t, NewPortConnectorInfo(), &cm.PortConnectorInfo{InternalReference: "J1", ExternalReference: "USB"})
	s, err := Validate(rec)
	require.NoError(t, err)
	want := &dosmbios.Structure{
		Header:    dosmbios.Header{Type: 8, Length: portLength, Handle: HandlePending},
		Formatted: rec[HeaderSize:portLength],
		Strings:   []string{"J1", "USB"},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("decoded structure mismatch (-want +got):\n%s", diff)
	}
	ref, err := StringRef(s, rec[portExternalReference])
	require.NoError(t, err)
	require.Equal(t, "USB", ref)
	_, err = StringRef(s, 3)
	require.ErrorIs(t, err, status.InvalidParameter)

	_, err = Validate(rec[:len(rec)-1])
	require.ErrorIs(t, err, status.InvalidParameter)
	_, err = Validate(append(append([]byte(nil), rec...), 0))
	require.ErrorIs(t, err, status.InvalidParameter)
	_, err = Validate([]byte{8, 2, 0, 0, 0, 0})
	require.ErrorIs(t, err, status.InvalidParameter)
}

func TestSetHandle(t *testing.T) {
	rec := buildOne(t, NewIPMIDeviceInfo(), &cm.IPMIDeviceInfo{})
	require.NoError(t, SetHandle(rec, 0x0042))
	h, err := ParseHeader(rec)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0042), h.Handle)
	require.ErrorIs(t, SetHandle(rec[:3], 1), status.BufferTooSmall)
}

func TestEntryPoint64(t *testing.T) {
	b, err := EntryPoint64(0x7F000000, 0x1234)
	require.NoError(t, err)
	require.Len(t, b, EntryPointSize)
	ep, err := ParseEntryPoint64(b)
	require.NoError(t, err)
	require.Equal(t, "_SM3_", ep.Anchor)
	major, minor, _ := ep.Version()
	require.Equal(t, int(VersionMajor), major)
	require.Equal(t, int(VersionMinor), minor)
	require.Equal(t, uint32(0x1234), ep.StructureTableMaxSize)
	require.Equal(t, uint64(0x7F000000), ep.StructureTableAddress)

	b[EntryPointSize-1]++
	_, err = ParseEntryPoint64(b)
	require.ErrorIs(t, err, status.InvalidParameter)
}

func TestRegister(t *testing.T) {
	reg := table.NewRegistry()
	require.NoError(t, Register(reg))
	for _, typ := range []uint8{0, 1, 7, 8, 11, 13, 32, 38, 41, 43} {
		_, err := reg.Lookup(table.SMBIOSType(typ))
		require.NoError(t, err, "type %d", typ)
	}
	require.ErrorIs(t, Register(reg), status.AlreadyRegistered)
}
