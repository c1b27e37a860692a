// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"errors"
	"fmt"

	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Encoder builds the structure of one source object. The returned buffer
// is owned by the caller; on error nothing stays allocated.
type Encoder[T cm.Object] func(req *table.Request, obj T) (*tablebuf.Buffer, error)

// Generator builds structures of one SMBIOS type from the objects of type T.
//
// A single-instance generator requires exactly one object. A multi-instance
// generator emits one structure per object, in Configuration Manager
// order, and an empty result when there are none.
type Generator[T cm.Object] struct {
	table.Base

	multi  bool
	encode Encoder[T]
}

// NewGenerator returns a generator for the SMBIOS type typ.
func NewGenerator[T cm.Object](typ uint8, description string, multi bool, encode Encoder[T]) *Generator[T] {
	return &Generator[T]{
		Base: table.Base{Desc: table.Descriptor{
			ID:          table.SMBIOSType(typ),
			Name:        fmt.Sprintf("Type %d", typ),
			Description: description,
			MinRevision: VersionMajor,
			MaxRevision: VersionMajor,
		}},
		multi:  multi,
		encode: encode,
	}
}

// MultiInstance reports whether the generator emits one structure per
// object.
func (g *Generator[T]) MultiInstance() bool {
	return g.multi
}

func (g *Generator[T]) objects(src cm.Manager) ([]T, error) {
	if !g.multi {
		obj, err := cm.GetObject[T](src, cm.NullToken)
		if err != nil {
			return nil, err
		}
		return []T{obj}, nil
	}
	objs, err := cm.GetObjects[T](src, cm.NullToken)
	if errors.Is(err, status.NotFound) {
		log.Debugf("%s: no source objects, nothing to build", g.Desc.Name)
		return nil, nil
	}
	return objs, err
}

// Build implements table.Generator.
func (g *Generator[T]) Build(req *table.Request) (*table.Result, error) {
	if _, err := g.Desc.CheckRequest(req); err != nil {
		return nil, err
	}
	objs, err := g.objects(req.Source)
	if err != nil {
		return nil, err
	}

	res := table.NewResult(req, len(objs))
	defer res.Discard()

	for idx, obj := range objs {
		buf, err := g.encode(req, obj)
		if err != nil {
			return nil, fmt.Errorf("%s structure %d: %w", g.Desc.Name, idx, err)
		}
		res.Append(buf, obj.ObjectToken())
	}
	return g.Issue(res), nil
}
