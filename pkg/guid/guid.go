// Copyright 2018-2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guid implements the mixed-endian GUID as implemented by Microsoft.
//
// SMBIOS (since 2.6) stores the system UUID in the same byte order: the
// first three fields are little-endian, the remaining eight bytes are kept
// as they appear in the text form.
package guid

import (
	"encoding/hex"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Size represents number of bytes in a GUID
	Size = 16
	// UExample is a example of a string GUID
	UExample  = "01234567-89AB-CDEF-0123-456789ABCDEF"
	strFormat = "%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X"
)

var (
	fields = [...]int{4, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1}
)

// GUID represents a unique identifier in its wire (mixed-endian) form.
type GUID [Size]byte

// Nil is the all-zero GUID.
var Nil GUID

func reverse(b []byte) {
	for i := 0; i < len(b)/2; i++ {
		other := len(b) - i - 1
		b[other], b[i] = b[i], b[other]
	}
}

// swap converts between the text byte order and the wire byte order. The
// conversion is its own inverse.
func swap(u *GUID) {
	i := 0
	for _, fieldlen := range fields {
		reverse(u[i : i+fieldlen])
		i += fieldlen
	}
}

// Parse parses a guid string. Hyphens are optional.
func Parse(s string) (*GUID, error) {
	stripped := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	decoded, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("guid string not correct, need string of the format %v, got %q",
			UExample, s)
	}

	if len(decoded) != Size {
		return nil, fmt.Errorf("guid string has incorrect length, need string of the format %v, got %q",
			UExample, s)
	}

	u := GUID{}
	copy(u[:], decoded)
	swap(&u)
	return &u, nil
}

// MustParse parses a guid string or panics.
func MustParse(s string) *GUID {
	guid, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return guid
}

// IsZero reports whether u is the Nil GUID.
func (u GUID) IsZero() bool {
	return u == Nil
}

func (u GUID) String() string {
	// Not a pointer receiver so we don't have to manually copy.
	swap(&u)
	b := make([]interface{}, Size)
	for i := range u[:] {
		b[i] = u[i]
	}
	return fmt.Sprintf(strFormat, b...)
}

// MarshalText implements encoding.TextMarshaler.
func (u GUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *GUID) UnmarshalText(b []byte) error {
	g, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = *g
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. An empty scalar leaves the
// GUID zero.
func (u *GUID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: guid must be a string", value.Line)
	}
	if value.Value == "" {
		*u = Nil
		return nil
	}
	if err := u.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	return nil
}
