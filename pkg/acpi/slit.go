// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acpi

import (
	"errors"

	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/log"
	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/table"
)

// SLIT distances.
const (
	LocalDistance       = uint8(10)
	UnreachableDistance = uint8(0xFF)
)

const slitCountOffset = HeaderSize

// SLIT generates the System Locality Information Table from the
// ProximityDomainInfo and ProximityDomainRelationInfo objects.
type SLIT struct {
	table.Base
}

// NewSLIT returns a SLIT generator.
func NewSLIT() *SLIT {
	return &SLIT{Base: table.Base{Desc: table.Descriptor{
		ID:          table.ACPISLIT,
		Name:        "SLIT",
		Description: "System Locality Information Table",
		MinRevision: 1,
		MaxRevision: 1,
	}}}
}

// distanceMatrix returns the row-major locality matrix. Relations apply in
// both directions; pairs without a relation are unreachable.
func distanceMatrix(domains []*cm.ProximityDomainInfo, relations []*cm.ProximityDomainRelationInfo) ([]uint8, error) {
	n := len(domains)
	index := make(map[cm.Token]int, n)
	ids := make(map[uint32]struct{}, n)
	for i, d := range domains {
		if _, ok := ids[d.DomainID]; ok {
			return nil, status.Invalidf("proximity domain %d is declared twice", d.DomainID)
		}
		ids[d.DomainID] = struct{}{}
		index[d.ObjectToken()] = i
	}

	matrix := make([]uint8, n*n)
	for i := range matrix {
		matrix[i] = UnreachableDistance
	}
	for i := 0; i < n; i++ {
		matrix[i*n+i] = LocalDistance
	}

	set := make([]bool, n*n)
	for _, rel := range relations {
		i, ok := index[rel.First]
		if !ok {
			return nil, status.Invalidf("distance references unknown proximity domain token %v", rel.First)
		}
		j, ok := index[rel.Second]
		if !ok {
			return nil, status.Invalidf("distance references unknown proximity domain token %v", rel.Second)
		}
		if i == j {
			if rel.Distance != LocalDistance {
				return nil, status.Invalidf("distance of domain %d to itself must be %d, got %d",
					domains[i].DomainID, LocalDistance, rel.Distance)
			}
			continue
		}
		if rel.Distance < LocalDistance {
			return nil, status.Invalidf("distance between domains %d and %d is %d, less than %d",
				domains[i].DomainID, domains[j].DomainID, rel.Distance, LocalDistance)
		}
		for _, pos := range []int{i*n + j, j*n + i} {
			if set[pos] && matrix[pos] != rel.Distance {
				return nil, status.Invalidf("conflicting distances %d and %d between domains %d and %d",
					matrix[pos], rel.Distance, domains[i].DomainID, domains[j].DomainID)
			}
			matrix[pos] = rel.Distance
			set[pos] = true
		}
	}
	return matrix, nil
}

// Build implements table.Generator.
func (g *SLIT) Build(req *table.Request) (*table.Result, error) {
	rev, err := g.Desc.CheckRequest(req)
	if err != nil {
		return nil, err
	}

	domains, err := cm.GetObjects[*cm.ProximityDomainInfo](req.Source, cm.NullToken)
	if err != nil {
		return nil, err
	}
	relations, err := cm.GetObjects[*cm.ProximityDomainRelationInfo](req.Source, cm.NullToken)
	switch {
	case errors.Is(err, status.NotFound):
		log.Debugf("SLIT: no proximity domain distances, all remote domains are unreachable")
	case err != nil:
		return nil, err
	}

	matrix, err := distanceMatrix(domains, relations)
	if err != nil {
		return nil, err
	}

	res := table.NewResult(req, 1)
	defer res.Discard()

	buf, err := newTable(req, "SLIT", HeaderSize+8+len(matrix), rev)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	buf.PutUint64(slitCountOffset, uint64(len(domains)))
	buf.PutBytes(slitCountOffset+8, matrix)
	SetChecksum(buf)
	if err := buf.Err(); err != nil {
		return nil, err
	}
	res.Append(buf, cm.NullToken)
	return g.Issue(res), nil
}
