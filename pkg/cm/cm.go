// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cm implements the Configuration Manager: the source of platform
// facts the table generators query.
//
// Objects are grouped by ObjectID. Each stored object carries a Token which
// identifies it (and therefore the table built from it) for later lookups.
package cm

import (
	"fmt"

	"github.com/linuxboot/tablegen/pkg/status"
)

// Namespace groups object IDs.
type Namespace uint8

// Supported namespaces.
const (
	NamespaceStandard = Namespace(iota)
	NamespaceArchCommon
	NamespaceSMBIOS
	NamespaceOEM
)

func (ns Namespace) String() string {
	switch ns {
	case NamespaceStandard:
		return "Std"
	case NamespaceArchCommon:
		return "ArchCommon"
	case NamespaceSMBIOS:
		return "Smbios"
	case NamespaceOEM:
		return "Oem"
	}
	return fmt.Sprintf("Namespace(%d)", uint8(ns))
}

// ObjectID identifies a kind of object: the namespace in the upper byte,
// the per-namespace index below.
type ObjectID uint32

func objectID(ns Namespace, index uint16) ObjectID {
	return ObjectID(uint32(ns)<<24 | uint32(index))
}

// Namespace returns the namespace of the ID.
func (id ObjectID) Namespace() Namespace {
	return Namespace(id >> 24)
}

// Index returns the per-namespace part of the ID.
func (id ObjectID) Index() uint16 {
	return uint16(id)
}

func (id ObjectID) String() string {
	if name, ok := objectNames[id]; ok {
		return name
	}
	return fmt.Sprintf("%s.%d", id.Namespace(), id.Index())
}

// Token is an opaque handle identifying one object. It is the provenance
// token of the tables built from that object.
type Token uint64

// NullToken selects all objects of an ObjectID.
const NullToken = Token(0)

func (t Token) String() string {
	return fmt.Sprintf("%#x", uint64(t))
}

// Object is a Configuration Manager record.
type Object interface {
	ObjectID() ObjectID
	ObjectToken() Token
}

// Ref is embedded in every object to carry its token.
type Ref struct {
	Token Token
}

// ObjectToken implements Object.
func (r *Ref) ObjectToken() Token {
	return r.Token
}

// SetObjectToken is used by a repository to assign the token.
func (r *Ref) SetObjectToken(t Token) {
	r.Token = t
}

type tokenSetter interface {
	SetObjectToken(Token)
}

// Manager is the query interface of the Configuration Manager.
//
// GetObject returns all objects of the given ID when token is NullToken,
// otherwise the objects of that ID carrying the token. An empty result is
// reported as a status.NotFound error.
type Manager interface {
	GetObject(id ObjectID, token Token) ([]Object, error)
}

// GetObjects queries m for the objects of type T.
func GetObjects[T Object](m Manager, token Token) ([]T, error) {
	var zero T
	objs, err := m.GetObject(zero.ObjectID(), token)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(objs))
	for _, obj := range objs {
		t, ok := obj.(T)
		if !ok {
			return nil, status.Invalidf("object %v has type %T, expected %T", zero.ObjectID(), obj, zero)
		}
		result = append(result, t)
	}
	return result, nil
}

// GetObject queries m for exactly one object of type T.
func GetObject[T Object](m Manager, token Token) (T, error) {
	var zero T
	objs, err := GetObjects[T](m, token)
	if err != nil {
		return zero, err
	}
	if len(objs) != 1 {
		return zero, status.Invalidf("expected exactly one %v object, got %d", zero.ObjectID(), len(objs))
	}
	return objs[0], nil
}

// Repository is an in-memory Manager. It is not safe for concurrent use.
type Repository struct {
	objects []Object
	last    Token
}

var _ Manager = (*Repository)(nil)

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Add stores obj, assigns it a fresh token and returns the token. obj must
// be a pointer to one of the object types of this package.
func (r *Repository) Add(obj Object) Token {
	r.last++
	if s, ok := obj.(tokenSetter); ok {
		s.SetObjectToken(r.last)
	}
	r.objects = append(r.objects, obj)
	return obj.ObjectToken()
}

// Has reports whether at least one object with the given ID is stored.
func (r *Repository) Has(id ObjectID) bool {
	for _, obj := range r.objects {
		if obj.ObjectID() == id {
			return true
		}
	}
	return false
}

// Len returns the number of stored objects.
func (r *Repository) Len() int {
	return len(r.objects)
}

// GetObject implements Manager.
func (r *Repository) GetObject(id ObjectID, token Token) ([]Object, error) {
	var result []Object
	for _, obj := range r.objects {
		if obj.ObjectID() != id {
			continue
		}
		if token != NullToken && obj.ObjectToken() != token {
			continue
		}
		result = append(result, obj)
	}
	if len(result) == 0 {
		item := id.String()
		if token != NullToken {
			item = fmt.Sprintf("%s (token %v)", item, token)
		}
		return nil, status.ErrNotFound{Item: item}
	}
	return result, nil
}
