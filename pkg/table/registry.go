// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"
	"sort"

	"github.com/linuxboot/tablegen/pkg/status"
)

// ErrAlreadyRegistered means a generator for the table is registered
// already.
type ErrAlreadyRegistered struct {
	ID ID
}

func (err *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("a generator for %v is already registered", err.ID)
}

// Is implements errors.Is.
func (err *ErrAlreadyRegistered) Is(target error) bool {
	return target == status.AlreadyRegistered
}

// Registry maps table IDs to generators, at most one per ID.
//
// Registration is expected to happen before any table is built; a Registry
// is not safe for concurrent modification.
type Registry struct {
	generators map[ID]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: map[ID]Generator{}}
}

// Register adds g for the table ID of its descriptor.
func (r *Registry) Register(g Generator) error {
	if g == nil || g.Descriptor() == nil {
		return status.Invalidf("nil generator")
	}
	id := g.Descriptor().ID
	if _, ok := r.generators[id]; ok {
		return &ErrAlreadyRegistered{ID: id}
	}
	r.generators[id] = g
	return nil
}

// Unregister removes the generator of id.
func (r *Registry) Unregister(id ID) error {
	if _, ok := r.generators[id]; !ok {
		return status.ErrNotFound{Item: "generator for " + id.String()}
	}
	delete(r.generators, id)
	return nil
}

// Lookup returns the generator of id.
func (r *Registry) Lookup(id ID) (Generator, error) {
	g, ok := r.generators[id]
	if !ok {
		return nil, status.ErrNotFound{Item: "generator for " + id.String()}
	}
	return g, nil
}

// Generators returns the registered generators ordered by table ID.
func (r *Registry) Generators() []Generator {
	result := make([]Generator, 0, len(r.generators))
	for _, g := range r.generators {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Descriptor().ID < result[j].Descriptor().ID
	})
	return result
}
