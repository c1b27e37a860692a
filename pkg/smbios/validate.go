// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"bytes"
	"fmt"

	dosmbios "github.com/digitalocean/go-smbios/smbios"

	"github.com/linuxboot/tablegen/pkg/status"
	"github.com/linuxboot/tablegen/pkg/stringtable"
)

// Validate decodes the single structure rec and checks that its formatted
// area and string pool span exactly len(rec) bytes.
func Validate(rec []byte) (*dosmbios.Structure, error) {
	h, err := ParseHeader(rec)
	if err != nil {
		return nil, err
	}
	if int(h.Length) > len(rec) {
		return nil, status.Invalidf("%v: formatted area exceeds the %d byte structure", h, len(rec))
	}
	_, poolSize, err := stringtable.Parse(rec[h.Length:])
	if err != nil {
		return nil, fmt.Errorf("%v: %w", h, err)
	}
	if int(h.Length)+poolSize != len(rec) {
		return nil, status.Invalidf("%v: %d trailing bytes after the string pool", h, len(rec)-int(h.Length)-poolSize)
	}

	stream := make([]byte, 0, len(rec)+len(EndOfTable()))
	stream = append(stream, rec...)
	stream = append(stream, EndOfTable()...)
	structures, err := dosmbios.NewDecoder(bytes.NewReader(stream)).Decode()
	if err != nil {
		return nil, status.Invalidf("%v: unable to decode: %v", h, err)
	}
	if len(structures) != 2 || structures[1].Header.Type != TypeEndOfTable {
		return nil, status.Invalidf("%v: decoded into %d structures", h, len(structures))
	}
	s := structures[0]
	if s.Header.Type != h.Type || len(s.Formatted) != int(h.Length)-HeaderSize {
		return nil, status.Invalidf("%v: decoded as %+v with %d formatted bytes", h, s.Header, len(s.Formatted))
	}
	return s, nil
}

// StringRef returns the string the reference ref of s points to, "" for
// reference 0.
func StringRef(s *dosmbios.Structure, ref uint8) (string, error) {
	if ref == 0 {
		return "", nil
	}
	if int(ref) > len(s.Strings) {
		return "", status.Invalidf("string reference %d, but the structure has %d strings", ref, len(s.Strings))
	}
	return s.Strings[ref-1], nil
}
