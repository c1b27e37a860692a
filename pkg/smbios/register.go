// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/table"
)

// Generators returns a new instance of every generator of this package.
func Generators() []table.Generator {
	return []table.Generator{
		NewBIOSInfo(),
		NewSystemInfo(),
		NewCacheInfo(),
		NewPortConnectorInfo(),
		NewOEMStrings(),
		NewBIOSLanguageInfo(),
		NewSystemBootInfo(),
		NewIPMIDeviceInfo(),
		NewOnboardDeviceInfo(),
		NewTPMDeviceInfo(),
	}
}

// Register adds the generators of this package to reg.
func Register(reg *table.Registry) error {
	for _, g := range Generators() {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
