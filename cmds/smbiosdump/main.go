// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// smbiosdump decodes an SMBIOS table as written by "tablegen build" or
// exported by Linux in /sys/firmware/dmi/tables.
//
// Synopsis:
//     smbiosdump [-d DIR] [-t TYPE]...
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"
	"github.com/u-root/u-root/pkg/smbios"
)

var (
	flagDir   = flag.StringP("dir", "d", "/sys/firmware/dmi/tables", "directory holding smbios_entry_point and DMI")
	flagTypes = flag.StringSliceP("type", "t", nil, "only print the structures of these types")
)

func parseTypes(typeStrings []string) (map[smbios.TableType]bool, error) {
	types := map[smbios.TableType]bool{}
	for _, ts := range typeStrings {
		u, err := strconv.ParseUint(ts, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid type '%s': %w", ts, err)
		}
		types[smbios.TableType(u)] = true
	}
	return types, nil
}

func dump(out io.Writer, dir string, types map[smbios.TableType]bool) error {
	entryData, err := os.ReadFile(filepath.Join(dir, "smbios_entry_point"))
	if err != nil {
		return fmt.Errorf("unable to read the entry point: %w", err)
	}
	tableData, err := os.ReadFile(filepath.Join(dir, "DMI"))
	if err != nil {
		return fmt.Errorf("unable to read the structure table: %w", err)
	}

	si, err := smbios.ParseInfo(entryData, tableData)
	if err != nil {
		return fmt.Errorf("unable to parse the SMBIOS table: %w", err)
	}
	if si.Entry64 != nil {
		fmt.Fprintf(out, "SMBIOS %d.%d.%d present.\n\n", si.MajorVersion(), si.MinorVersion(), si.DocRev())
	} else {
		fmt.Fprintf(out, "SMBIOS %d.%d present.\n\n", si.MajorVersion(), si.MinorVersion())
	}

	for _, t := range si.Tables {
		if len(types) != 0 && !types[t.Type] {
			continue
		}
		pt, err := smbios.ParseTypedTable(t)
		if err != nil {
			if err != smbios.ErrUnsupportedTableType {
				log.Printf("%v", err)
			}
			pt = t
		}
		fmt.Fprintf(out, "%s\n\n", pt)
	}
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		log.Fatal("unexpected arguments")
	}

	types, err := parseTypes(*flagTypes)
	if err != nil {
		log.Fatal(err)
	}
	if err := dump(os.Stdout, *flagDir, types); err != nil {
		log.Fatal(err)
	}
}
