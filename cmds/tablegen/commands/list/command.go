// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package list

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linuxboot/tablegen/cmds/tablegen/commands"
	tg "github.com/linuxboot/tablegen/pkg/table"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	stdout io.Writer
}

type multiInstance interface {
	MultiInstance() bool
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the registered table generators"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return ""
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("there are extra arguments")}
	}
	reg, err := commands.Registry()
	if err != nil {
		return fmt.Errorf("unable to register the generators: %w", err)
	}

	out := cmd.stdout
	if out == nil {
		out = os.Stdout
	}
	Render(out, reg)
	return nil
}

// Render prints the generators of reg as a table.
func Render(out io.Writer, reg *tg.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Table generators")
	t.AppendHeader(table.Row{"ID", "Name", "Revisions", "Instances", "Description"})
	for _, gen := range reg.Generators() {
		desc := gen.Descriptor()
		instances := "single"
		if m, ok := gen.(multiInstance); ok && m.MultiInstance() {
			instances = "multiple"
		}
		revisions := fmt.Sprintf("%d", desc.MinRevision)
		if desc.MaxRevision != desc.MinRevision {
			revisions = fmt.Sprintf("%d-%d", desc.MinRevision, desc.MaxRevision)
		}
		t.AppendRow([]interface{}{desc.ID, desc.Name, revisions, instances, desc.Description})
	}
	t.Render()
}
