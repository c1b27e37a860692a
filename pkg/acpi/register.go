// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/linuxboot/tablegen/pkg/table"
)

// Register adds the generators of this package to reg.
func Register(reg *table.Registry) error {
	for _, g := range []table.Generator{NewSLIT(), NewSPMI(), NewTPM2()} {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
