// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linuxboot/tablegen/cmds/tablegen/commands"
	"github.com/linuxboot/tablegen/pkg/acpi"
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/manager"
)

// Names of the files written below the output directory.
const (
	ACPIDir        = "acpi"
	DMIDir         = "dmi"
	EntryPointFile = "smbios_entry_point"
	DMIFile        = "DMI"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	PlatformPath string `short:"c" long:"config" description:"path to the platform description (YAML)" required:"true"`
	OutputDir    string `short:"o" long:"output" description:"directory to write the tables to" required:"true"`
	Probe        bool   `long:"probe" description:"fill missing BIOS and system information from the running host"`
	Address      uint64 `long:"smbios-address" description:"physical address of the SMBIOS structure table" default:"0"`
	Verbose      bool   `short:"v" long:"verbose" description:"print debug messages"`

	stdout io.Writer
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "builds the tables of a platform description"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return `Builds the tables listed by the "tables" key of the platform description,
or every registered table if the key is absent. Tables which cannot be built
are omitted with a warning. The output directory mirrors /sys/firmware:
acpi/<SIGNATURE>, dmi/smbios_entry_point and dmi/DMI.`
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("there are extra arguments")}
	}
	log.SetVerbose(cmd.Verbose)

	repo, err := cm.LoadFile(cmd.PlatformPath)
	if err != nil {
		return err
	}
	if cmd.Probe {
		if err := cm.ProbeHost(repo); err != nil {
			return fmt.Errorf("unable to probe the host: %w", err)
		}
	}

	reg, err := commands.Registry()
	if err != nil {
		return fmt.Errorf("unable to register the generators: %w", err)
	}
	tables := manager.NewPlatformTables()
	m := manager.New(reg, repo, tables)
	defer func() {
		if err := m.ReleaseAll(); err != nil {
			log.Errorf("unable to release the tables: %v", err)
		}
	}()

	buildErr := m.BuildAll()
	if len(m.Built()) == 0 {
		if buildErr == nil {
			buildErr = fmt.Errorf("no table was requested")
		}
		return commands.ErrNothingBuilt{Err: buildErr}
	}

	files, err := cmd.write(tables)
	if err != nil {
		return err
	}

	out := cmd.stdout
	if out == nil {
		out = os.Stdout
	}
	summary(out, files)
	return nil
}

type writtenFile struct {
	Path string
	Size int
}

func (cmd *Command) write(tables *manager.PlatformTables) ([]writtenFile, error) {
	var files []writtenFile
	put := func(dir, name string, data []byte) error {
		dir = filepath.Join(cmd.OutputDir, dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory '%s': %w", dir, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("unable to write '%s': %w", path, err)
		}
		files = append(files, writtenFile{Path: path, Size: len(data)})
		return nil
	}

	for _, inst := range tables.ACPI() {
		h, err := acpi.ParseHeader(inst.Buffer)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", inst.ID, err)
		}
		if err := put(ACPIDir, string(h.Signature[:]), inst.Buffer); err != nil {
			return nil, err
		}
	}

	if len(tables.Structures()) == 0 {
		return files, nil
	}
	entryPoint, structures, err := tables.SMBIOS(cmd.Address)
	if err != nil {
		return nil, fmt.Errorf("unable to assemble the SMBIOS table: %w", err)
	}
	if err := put(DMIDir, EntryPointFile, entryPoint); err != nil {
		return nil, err
	}
	if err := put(DMIDir, DMIFile, structures); err != nil {
		return nil, err
	}
	return files, nil
}

func summary(out io.Writer, files []writtenFile) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Written tables")
	t.AppendHeader(table.Row{"File", "Size"})
	total := 0
	for _, f := range files {
		t.AppendRow([]interface{}{f.Path, humanize.IBytes(uint64(f.Size))})
		total += f.Size
	}
	t.AppendFooter(table.Row{"Total", humanize.IBytes(uint64(total))})
	t.Render()
}
