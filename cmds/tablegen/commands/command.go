// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/tablegen/pkg/acpi"
	"github.com/linuxboot/tablegen/pkg/smbios"
	"github.com/linuxboot/tablegen/pkg/table"
)

// Command is an interface of implementations of verbs
// (like "build" of "tablegen build")
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line
	ShortDescription() string

	// LongDescription explains what this verb does (without limitation in amount of lines)
	LongDescription() string
}

// Registry returns a registry holding every ACPI and SMBIOS generator.
func Registry() (*table.Registry, error) {
	reg := table.NewRegistry()
	if err := acpi.Register(reg); err != nil {
		return nil, err
	}
	if err := smbios.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
