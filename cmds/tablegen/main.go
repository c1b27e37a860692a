// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tablegen builds ACPI tables and SMBIOS structures from a platform
// description.
//
// Synopsis:
//     tablegen list
//     tablegen build -c PLATFORM_FILE -o OUTPUT_DIR [options]
//
// An example:
//     tablegen build -c platform.yaml -o out --probe
//     smbiosdump -d out/dmi
//
// Description:
//     list:  Print the registered table generators
//     build: Build the tables requested by the platform file and write
//            them in the layout of /sys/firmware: OUTPUT_DIR/acpi/<SIG>,
//            OUTPUT_DIR/dmi/smbios_entry_point and OUTPUT_DIR/dmi/DMI
package main

import (
	"log"

	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/tablegen/cmds/tablegen/commands"
	"github.com/linuxboot/tablegen/cmds/tablegen/commands/build"
	"github.com/linuxboot/tablegen/cmds/tablegen/commands/list"
)

var (
	knownCommands = map[string]commands.Command{
		"list":  &list.Command{},
		"build": &build.Command{},
	}
)

func main() {
	flagsParser := flags.NewParser(nil, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}

	if _, err := flagsParser.Parse(); err != nil {
		log.Fatal(err)
	}
}
