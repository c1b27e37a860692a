// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linuxboot/tablegen/pkg/status"
)

// Distance is a proximity relation as written in a platform file: the
// domains are referenced by their IDs rather than by tokens.
type Distance struct {
	From     uint32 `yaml:"from"`
	To       uint32 `yaml:"to"`
	Distance uint8  `yaml:"distance"`
}

// Platform is the layout of a platform description file.
type Platform struct {
	OEMID    string      `yaml:"oemId"`
	Revision uint32      `yaml:"revision"`
	Tables   []TableInfo `yaml:"tables"`

	ProximityDomains []ProximityDomainInfo `yaml:"proximityDomains"`
	Distances        []Distance            `yaml:"distances"`
	SPMI             *SPMIInterfaceInfo    `yaml:"spmi"`
	TPM2             *TPM2InterfaceInfo    `yaml:"tpm2"`

	BIOS           *BIOSInfo           `yaml:"bios"`
	System         *SystemInfo         `yaml:"system"`
	Caches         []CacheInfo         `yaml:"caches"`
	PortConnectors []PortConnectorInfo `yaml:"portConnectors"`
	OEMStrings     *OEMStrings         `yaml:"oemStrings"`
	BIOSLanguage   *BIOSLanguageInfo   `yaml:"biosLanguage"`
	SystemBoot     *SystemBootInfo     `yaml:"systemBoot"`
	IPMIDevice     *IPMIDeviceInfo     `yaml:"ipmiDevice"`
	OnboardDevices []OnboardDeviceInfo `yaml:"onboardDevices"`
	TPMDevice      *TPMDeviceInfo      `yaml:"tpmDevice"`
}

// LoadFile reads a platform description from path.
func LoadFile(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open platform file '%s': %w", path, err)
	}
	defer f.Close()

	repo, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("platform file '%s': %w", path, err)
	}
	return repo, nil
}

// LoadYAML decodes a platform description and returns a repository holding
// its objects. Unknown keys are rejected.
func LoadYAML(r io.Reader) (*Repository, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Platform
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return NewRepository(), nil
		}
		return nil, status.Invalidf("unable to decode platform description: %v", err)
	}
	return p.Repository()
}

// Repository converts the platform description into a repository.
func (p *Platform) Repository() (*Repository, error) {
	repo := NewRepository()
	repo.Add(&ConfigurationManagerInfo{Revision: p.Revision, OEMID: p.OEMID})
	for idx := range p.Tables {
		repo.Add(&p.Tables[idx])
	}

	domains := map[uint32]Token{}
	for idx := range p.ProximityDomains {
		d := &p.ProximityDomains[idx]
		if _, ok := domains[d.DomainID]; ok {
			return nil, status.Invalidf("proximity domain %d is declared twice", d.DomainID)
		}
		domains[d.DomainID] = repo.Add(d)
	}
	for _, dist := range p.Distances {
		first, ok := domains[dist.From]
		if !ok {
			return nil, status.ErrNotFound{Item: fmt.Sprintf("proximity domain %d", dist.From)}
		}
		second, ok := domains[dist.To]
		if !ok {
			return nil, status.ErrNotFound{Item: fmt.Sprintf("proximity domain %d", dist.To)}
		}
		repo.Add(&ProximityDomainRelationInfo{First: first, Second: second, Distance: dist.Distance})
	}

	if p.SPMI != nil {
		repo.Add(p.SPMI)
	}
	if p.TPM2 != nil {
		repo.Add(p.TPM2)
	}
	if p.BIOS != nil {
		repo.Add(p.BIOS)
	}
	if p.System != nil {
		repo.Add(p.System)
	}
	if p.OEMStrings != nil {
		repo.Add(p.OEMStrings)
	}
	if p.BIOSLanguage != nil {
		repo.Add(p.BIOSLanguage)
	}
	if p.SystemBoot != nil {
		repo.Add(p.SystemBoot)
	}
	if p.IPMIDevice != nil {
		repo.Add(p.IPMIDevice)
	}
	if p.TPMDevice != nil {
		repo.Add(p.TPMDevice)
	}
	for idx := range p.Caches {
		repo.Add(&p.Caches[idx])
	}
	for idx := range p.PortConnectors {
		repo.Add(&p.PortConnectors[idx])
	}
	for idx := range p.OnboardDevices {
		repo.Add(&p.OnboardDevices[idx])
	}
	return repo, nil
}
