// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manager implements the table manager: it asks the registered
// generators for tables, installs what they build and releases every table
// through the generator which built it.
package manager

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

type built struct {
	gen table.Generator
	res *table.Result
}

// Manager builds and installs tables. It is not safe for concurrent use.
type Manager struct {
	Registry  *table.Registry
	Source    cm.Manager
	Installer Installer

	// Alloc provides the table memory; nil means tablebuf.Heap.
	Alloc tablebuf.Allocator

	// Logger receives the diagnostics of omitted tables; nil means
	// log.DefaultLogger.
	Logger log.Logger

	built []built
}

// New returns a manager building tables with the generators of reg from
// the objects of src and installing them with inst.
func New(reg *table.Registry, src cm.Manager, inst Installer) *Manager {
	return &Manager{
		Registry:  reg,
		Source:    src,
		Installer: inst,
	}
}

func (m *Manager) logger() log.Logger {
	if m.Logger == nil {
		return log.DefaultLogger
	}
	return m.Logger
}

// RequestTable builds and installs the table id at the given revision (0
// for the newest one). OEM fields are taken from the
// ConfigurationManagerInfo object, if any.
func (m *Manager) RequestTable(id table.ID, revision uint8) (*table.Result, error) {
	return m.Request(table.Info{ID: id, Revision: revision})
}

// Request builds and installs the table described by info. A generator
// error is returned unchanged. If the installation fails, the built
// result is freed.
func (m *Manager) Request(info table.Info) (*table.Result, error) {
	gen, err := m.Registry.Lookup(info.ID)
	if err != nil {
		return nil, err
	}
	if info.OEMID == "" {
		info.OEMID = m.oemID()
	}

	res, err := gen.Build(&table.Request{Info: info, Source: m.Source, Alloc: m.Alloc})
	if err != nil {
		return nil, err
	}
	if len(res.Buffers) != len(res.Tokens) {
		m.free(gen, res)
		return nil, status.Invalidf("%v generator returned %d buffers and %d tokens", info.ID, len(res.Buffers), len(res.Tokens))
	}

	for idx, buf := range res.Buffers {
		if err := m.Installer.Install(info.ID, buf, res.Tokens[idx]); err != nil {
			for undo := idx - 1; undo >= 0; undo-- {
				if uerr := m.Installer.Uninstall(info.ID, res.Buffers[undo]); uerr != nil {
					m.logger().Errorf("unable to uninstall %v buffer %d: %v", info.ID, undo, uerr)
				}
			}
			m.free(gen, res)
			return nil, fmt.Errorf("unable to install %v: %w", info.ID, err)
		}
	}

	m.built = append(m.built, built{gen: gen, res: res})
	m.logger().Debugf("installed %v: %d buffer(s)", info.ID, res.Len())
	return res, nil
}

func (m *Manager) free(gen table.Generator, res *table.Result) {
	if err := gen.Free(res); err != nil {
		m.logger().Errorf("unable to free %v: %v", res.ID, err)
	}
}

func (m *Manager) oemID() string {
	info, err := cm.GetObject[*cm.ConfigurationManagerInfo](m.Source, cm.NullToken)
	if err != nil {
		return ""
	}
	return info.OEMID
}

// ReleaseTable uninstalls res and frees it with the generator of id. It
// must be called once for every result returned by RequestTable.
func (m *Manager) ReleaseTable(id table.ID, res *table.Result) error {
	if res == nil {
		return status.Invalidf("nil table result")
	}
	gen, err := m.Registry.Lookup(id)
	if err != nil {
		return err
	}
	idx := -1
	for i, b := range m.built {
		if b.res == res {
			idx = i
			break
		}
	}
	if idx < 0 || m.built[idx].gen != gen {
		return status.Invalidf("%v result was not requested from this manager", id)
	}

	return m.release(idx)
}

// release uninstalls and frees m.built[idx] and forgets it.
func (m *Manager) release(idx int) error {
	b := m.built[idx]
	m.built = append(m.built[:idx], m.built[idx+1:]...)

	var result *multierror.Error
	for _, buf := range b.res.Buffers {
		if err := m.Installer.Uninstall(b.res.ID, buf); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := b.gen.Free(b.res); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Built returns the results requested and not yet released.
func (m *Manager) Built() []*table.Result {
	result := make([]*table.Result, 0, len(m.built))
	for _, b := range m.built {
		result = append(result, b.res)
	}
	return result
}

// requested returns the tables listed by the TableInfo objects, or every
// registered table when there are none.
func (m *Manager) requested() ([]table.Info, error) {
	infos, err := cm.GetObjects[*cm.TableInfo](m.Source, cm.NullToken)
	switch {
	case errors.Is(err, status.NotFound):
		var result []table.Info
		for _, gen := range m.Registry.Generators() {
			result = append(result, table.Info{ID: gen.Descriptor().ID})
		}
		return result, nil
	case err != nil:
		return nil, err
	}

	result := make([]table.Info, 0, len(infos))
	for _, info := range infos {
		id, err := table.ParseID(info.Table)
		if err != nil {
			return nil, err
		}
		result = append(result, table.Info{
			ID:          id,
			Revision:    info.Revision,
			OEMTableID:  info.OEMTableID,
			OEMRevision: info.OEMRevision,
		})
	}
	return result, nil
}

// BuildAll requests every table listed by the TableInfo objects of the
// source, or every registered table if there are none. A table which
// fails is omitted with a warning and does not stop the others; the
// failures are returned together.
func (m *Manager) BuildAll() error {
	infos, err := m.requested()
	if err != nil {
		return fmt.Errorf("unable to list the requested tables: %w", err)
	}

	var result *multierror.Error
	for _, info := range infos {
		if _, err := m.Request(info); err != nil {
			m.logger().Warnf("omitting %v: %v", info.ID, err)
			result = multierror.Append(result, fmt.Errorf("%v: %w", info.ID, err))
		}
	}
	return result.ErrorOrNil()
}

// ReleaseAll releases every built result, newest first.
func (m *Manager) ReleaseAll() error {
	var result *multierror.Error
	for len(m.built) > 0 {
		if err := m.release(len(m.built) - 1); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
