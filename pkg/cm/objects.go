// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cm

import (
	"github.com/linuxboot/tablegen/pkg/guid"
)

// Object IDs.
var (
	IDConfigurationManagerInfo = objectID(NamespaceStandard, 0)
	IDTableInfo                = objectID(NamespaceStandard, 1)

	IDProximityDomainInfo         = objectID(NamespaceArchCommon, 0)
	IDProximityDomainRelationInfo = objectID(NamespaceArchCommon, 1)
	IDSPMIInterfaceInfo           = objectID(NamespaceArchCommon, 2)
	IDTPM2InterfaceInfo           = objectID(NamespaceArchCommon, 3)

	IDBIOSInfo          = objectID(NamespaceSMBIOS, 0)
	IDSystemInfo        = objectID(NamespaceSMBIOS, 1)
	IDCacheInfo         = objectID(NamespaceSMBIOS, 7)
	IDPortConnectorInfo = objectID(NamespaceSMBIOS, 8)
	IDOEMStrings        = objectID(NamespaceSMBIOS, 11)
	IDBIOSLanguageInfo  = objectID(NamespaceSMBIOS, 13)
	IDSystemBootInfo    = objectID(NamespaceSMBIOS, 32)
	IDIPMIDeviceInfo    = objectID(NamespaceSMBIOS, 38)
	IDOnboardDeviceInfo = objectID(NamespaceSMBIOS, 41)
	IDTPMDeviceInfo     = objectID(NamespaceSMBIOS, 43)
)

var objectNames = map[ObjectID]string{
	IDConfigurationManagerInfo:    "ConfigurationManagerInfo",
	IDTableInfo:                   "TableInfo",
	IDProximityDomainInfo:         "ProximityDomainInfo",
	IDProximityDomainRelationInfo: "ProximityDomainRelationInfo",
	IDSPMIInterfaceInfo:           "SPMIInterfaceInfo",
	IDTPM2InterfaceInfo:           "TPM2InterfaceInfo",
	IDBIOSInfo:                    "BIOSInfo",
	IDSystemInfo:                  "SystemInfo",
	IDCacheInfo:                   "CacheInfo",
	IDPortConnectorInfo:           "PortConnectorInfo",
	IDOEMStrings:                  "OEMStrings",
	IDBIOSLanguageInfo:            "BIOSLanguageInfo",
	IDSystemBootInfo:              "SystemBootInfo",
	IDIPMIDeviceInfo:              "IPMIDeviceInfo",
	IDOnboardDeviceInfo:           "OnboardDeviceInfo",
	IDTPMDeviceInfo:               "TPMDeviceInfo",
}

// ConfigurationManagerInfo describes the platform as a whole.
type ConfigurationManagerInfo struct {
	Ref `yaml:"-"`

	Revision uint32 `yaml:"revision"`

	// OEMID is stamped into every ACPI table header (6 characters max).
	OEMID string `yaml:"oemId"`
}

// ObjectID implements Object.
func (*ConfigurationManagerInfo) ObjectID() ObjectID { return IDConfigurationManagerInfo }

// TableInfo requests one table to be built.
type TableInfo struct {
	Ref `yaml:"-"`

	// Table is the table identifier in text form, e.g. "acpi:slit" or
	// "smbios:0".
	Table string `yaml:"table"`

	// Revision selects the table revision; 0 selects the newest one the
	// generator supports.
	Revision    uint8  `yaml:"revision"`
	OEMTableID  string `yaml:"oemTableId"`
	OEMRevision uint32 `yaml:"oemRevision"`
}

// ObjectID implements Object.
func (*TableInfo) ObjectID() ObjectID { return IDTableInfo }

// ProximityDomainInfo declares a NUMA proximity domain.
type ProximityDomainInfo struct {
	Ref `yaml:"-"`

	DomainID uint32 `yaml:"id"`
}

// ObjectID implements Object.
func (*ProximityDomainInfo) ObjectID() ObjectID { return IDProximityDomainInfo }

// ProximityDomainRelationInfo is the relative distance between two
// proximity domains, referenced by their tokens.
type ProximityDomainRelationInfo struct {
	Ref `yaml:"-"`

	First    Token
	Second   Token
	Distance uint8
}

// ObjectID implements Object.
func (*ProximityDomainRelationInfo) ObjectID() ObjectID { return IDProximityDomainRelationInfo }

// GenericAddress is an ACPI Generic Address Structure.
type GenericAddress struct {
	SpaceID    uint8  `yaml:"spaceId"`
	BitWidth   uint8  `yaml:"bitWidth"`
	BitOffset  uint8  `yaml:"bitOffset"`
	AccessSize uint8  `yaml:"accessSize"`
	Address    uint64 `yaml:"address"`
}

// SPMIInterfaceInfo describes the IPMI interface advertised in the SPMI
// table.
type SPMIInterfaceInfo struct {
	Ref `yaml:"-"`

	InterfaceType uint8 `yaml:"interfaceType"`

	// SpecRevision is the IPMI specification revision in BCD, e.g. 0x0200.
	SpecRevision          uint16         `yaml:"specRevision"`
	InterruptType         uint8          `yaml:"interruptType"`
	GPE                   uint8          `yaml:"gpe"`
	PCIDeviceFlag         uint8          `yaml:"pciDeviceFlag"`
	GlobalSystemInterrupt uint32         `yaml:"globalSystemInterrupt"`
	BaseAddress           GenericAddress `yaml:"baseAddress"`

	// UID holds either the PCI segment, bus, device and function or the
	// _UID of the device, depending on PCIDeviceFlag.
	UID [4]uint8 `yaml:"uid"`

	// SSIFTargetAddress is the SMBus address of an SSIF interface.
	SSIFTargetAddress uint8 `yaml:"ssifTargetAddress"`
}

// ObjectID implements Object.
func (*SPMIInterfaceInfo) ObjectID() ObjectID { return IDSPMIInterfaceInfo }

// TPM2InterfaceInfo describes the TPM 2.0 device for the TPM2 table.
type TPM2InterfaceInfo struct {
	Ref `yaml:"-"`

	PlatformClass         uint16  `yaml:"platformClass"`
	ControlAreaAddress    uint64  `yaml:"controlAreaAddress"`
	StartMethod           uint32  `yaml:"startMethod"`
	StartMethodParameters []uint8 `yaml:"startMethodParameters"`

	// LogAreaMinLength and LogAreaStartAddress are optional; a zero length
	// means there is no event log area.
	LogAreaMinLength    uint32 `yaml:"logAreaMinLength"`
	LogAreaStartAddress uint64 `yaml:"logAreaStartAddress"`
}

// ObjectID implements Object.
func (*TPM2InterfaceInfo) ObjectID() ObjectID { return IDTPM2InterfaceInfo }

// BIOSInfo is the source of SMBIOS type 0.
type BIOSInfo struct {
	Ref `yaml:"-"`

	Vendor          string `yaml:"vendor"`
	Version         string `yaml:"version"`
	StartingSegment uint16 `yaml:"startingSegment"`
	ReleaseDate     string `yaml:"releaseDate"`

	// ROMSize is the size of the BIOS ROM in KiB.
	ROMSize            uint32   `yaml:"romSize"`
	Characteristics    uint64   `yaml:"characteristics"`
	CharacteristicsExt [2]uint8 `yaml:"characteristicsExt"`
	SystemBIOSMajor    uint8    `yaml:"systemBiosMajor"`
	SystemBIOSMinor    uint8    `yaml:"systemBiosMinor"`
	ECFirmwareMajor    uint8    `yaml:"ecFirmwareMajor"`
	ECFirmwareMinor    uint8    `yaml:"ecFirmwareMinor"`
}

// ObjectID implements Object.
func (*BIOSInfo) ObjectID() ObjectID { return IDBIOSInfo }

// SystemInfo is the source of SMBIOS type 1.
type SystemInfo struct {
	Ref `yaml:"-"`

	Manufacturer string    `yaml:"manufacturer"`
	ProductName  string    `yaml:"productName"`
	Version      string    `yaml:"version"`
	SerialNumber string    `yaml:"serialNumber"`
	UUID         guid.GUID `yaml:"uuid"`
	WakeUpType   uint8     `yaml:"wakeUpType"`
	SKUNumber    string    `yaml:"skuNumber"`
	Family       string    `yaml:"family"`
}

// ObjectID implements Object.
func (*SystemInfo) ObjectID() ObjectID { return IDSystemInfo }

// CacheInfo is the source of one SMBIOS type 7 structure.
type CacheInfo struct {
	Ref `yaml:"-"`

	SocketDesignation string `yaml:"socketDesignation"`
	Configuration     uint16 `yaml:"configuration"`

	// MaximumSize and InstalledSize are in KiB.
	MaximumSize         uint32 `yaml:"maximumSize"`
	InstalledSize       uint32 `yaml:"installedSize"`
	SupportedSRAMType   uint16 `yaml:"supportedSramType"`
	CurrentSRAMType     uint16 `yaml:"currentSramType"`
	Speed               uint8  `yaml:"speed"`
	ErrorCorrectionType uint8  `yaml:"errorCorrectionType"`
	SystemCacheType     uint8  `yaml:"systemCacheType"`
	Associativity       uint8  `yaml:"associativity"`
}

// ObjectID implements Object.
func (*CacheInfo) ObjectID() ObjectID { return IDCacheInfo }

// PortConnectorInfo is the source of one SMBIOS type 8 structure.
type PortConnectorInfo struct {
	Ref `yaml:"-"`

	InternalReference     string `yaml:"internalReference"`
	InternalConnectorType uint8  `yaml:"internalConnectorType"`
	ExternalReference     string `yaml:"externalReference"`
	ExternalConnectorType uint8  `yaml:"externalConnectorType"`
	PortType              uint8  `yaml:"portType"`
}

// ObjectID implements Object.
func (*PortConnectorInfo) ObjectID() ObjectID { return IDPortConnectorInfo }

// OEMStrings is the source of SMBIOS type 11.
type OEMStrings struct {
	Ref `yaml:"-"`

	Strings []string `yaml:"strings"`
}

// ObjectID implements Object.
func (*OEMStrings) ObjectID() ObjectID { return IDOEMStrings }

// BIOSLanguageInfo is the source of SMBIOS type 13.
type BIOSLanguageInfo struct {
	Ref `yaml:"-"`

	Languages []string `yaml:"languages"`

	// Current must be one of Languages.
	Current     string `yaml:"current"`
	Abbreviated bool   `yaml:"abbreviated"`
}

// ObjectID implements Object.
func (*BIOSLanguageInfo) ObjectID() ObjectID { return IDBIOSLanguageInfo }

// SystemBootInfo is the source of SMBIOS type 32.
type SystemBootInfo struct {
	Ref `yaml:"-"`

	// BootStatus is the boot status code followed by optional
	// vendor-specific bytes. An empty status means "no errors detected".
	BootStatus []uint8 `yaml:"bootStatus"`
}

// ObjectID implements Object.
func (*SystemBootInfo) ObjectID() ObjectID { return IDSystemBootInfo }

// IPMIDeviceInfo is the source of SMBIOS type 38.
type IPMIDeviceInfo struct {
	Ref `yaml:"-"`

	InterfaceType uint8 `yaml:"interfaceType"`

	// SpecRevision is the IPMI revision in BCD: major in the high nibble.
	SpecRevision     uint8 `yaml:"specRevision"`
	I2CTargetAddress uint8 `yaml:"i2cTargetAddress"`

	// NVStorageDeviceAddress is 0xFF when there is no storage device.
	NVStorageDeviceAddress uint8  `yaml:"nvStorageDeviceAddress"`
	BaseAddress            uint64 `yaml:"baseAddress"`
	BaseAddressModifier    uint8  `yaml:"baseAddressModifier"`
	InterruptNumber        uint8  `yaml:"interruptNumber"`
}

// ObjectID implements Object.
func (*IPMIDeviceInfo) ObjectID() ObjectID { return IDIPMIDeviceInfo }

// OnboardDeviceInfo is the source of one SMBIOS type 41 structure.
type OnboardDeviceInfo struct {
	Ref `yaml:"-"`

	ReferenceDesignation string `yaml:"referenceDesignation"`
	DeviceType           uint8  `yaml:"deviceType"`
	Enabled              bool   `yaml:"enabled"`
	DeviceTypeInstance   uint8  `yaml:"deviceTypeInstance"`
	SegmentGroup         uint16 `yaml:"segmentGroup"`
	Bus                  uint8  `yaml:"bus"`
	Device               uint8  `yaml:"device"`
	Function             uint8  `yaml:"function"`
}

// ObjectID implements Object.
func (*OnboardDeviceInfo) ObjectID() ObjectID { return IDOnboardDeviceInfo }

// TPMDeviceInfo is the source of SMBIOS type 43.
type TPMDeviceInfo struct {
	Ref `yaml:"-"`

	// VendorID is the 4 character TCG vendor ID.
	VendorID         string `yaml:"vendorId"`
	MajorSpecVersion uint8  `yaml:"majorSpecVersion"`
	MinorSpecVersion uint8  `yaml:"minorSpecVersion"`
	FirmwareVersion1 uint32 `yaml:"firmwareVersion1"`
	FirmwareVersion2 uint32 `yaml:"firmwareVersion2"`
	Description      string `yaml:"description"`
	Characteristics  uint64 `yaml:"characteristics"`
	OEMDefined       uint32 `yaml:"oemDefined"`
}

// ObjectID implements Object.
func (*TPMDeviceInfo) ObjectID() ObjectID { return IDTPMDeviceInfo }
