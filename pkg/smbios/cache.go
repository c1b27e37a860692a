// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbios

import (
	"github.com/linuxboot/tablegen/pkg/cm"
	"github.com/linuxboot/tablegen/pkg/table"
	"github.com/linuxboot/tablegen/pkg/tablebuf"
)

// Type 7 (Cache Information) layout.
const (
	cacheLength              = 0x1B
	cacheSocketDesignation   = 0x04
	cacheConfiguration       = 0x05
	cacheMaximumSize         = 0x07
	cacheInstalledSize       = 0x09
	cacheSupportedSRAMType   = 0x0B
	cacheCurrentSRAMType     = 0x0D
	cacheSpeed               = 0x0F
	cacheErrorCorrectionType = 0x10
	cacheSystemCacheType     = 0x11
	cacheAssociativity       = 0x12
	cacheMaximumSize2        = 0x13
	cacheInstalledSize2      = 0x17
)

// Bit 15 (bit 31 in the 32-bit fields) selects 64 KiB granularity.
const (
	cacheGranularity64K   = uint16(1 << 15)
	cacheGranularity64K32 = uint32(1 << 31)
)

// cacheSize encodes a cache size in KiB into the 16-bit and 32-bit size
// fields. Sizes which do not fit the 16-bit field set it to 0xFFFF.
func cacheSize(kib uint32) (uint16, uint32) {
	if kib < 0x8000 {
		return uint16(kib), kib
	}
	units := kib / 64
	if units < 0x8000 {
		return cacheGranularity64K | uint16(units), cacheGranularity64K32 | units
	}
	if kib < cacheGranularity64K32 {
		return 0xFFFF, kib
	}
	return 0xFFFF, cacheGranularity64K32 | units
}

func encodeCache(req *table.Request, info *cm.CacheInfo) (*tablebuf.Buffer, error) {
	fields := newTextFields(1)
	defer fields.Release()
	socket := fields.Add(info.SocketDesignation)

	buf, err := newRecord(req, 7, cacheLength, fields)
	if err != nil {
		return nil, err
	}
	maxSize, maxSize2 := cacheSize(info.MaximumSize)
	installed, installed2 := cacheSize(info.InstalledSize)
	buf.PutUint8(cacheSocketDesignation, socket)
	buf.PutUint16(cacheConfiguration, info.Configuration)
	buf.PutUint16(cacheMaximumSize, maxSize)
	buf.PutUint16(cacheInstalledSize, installed)
	buf.PutUint16(cacheSupportedSRAMType, info.SupportedSRAMType)
	buf.PutUint16(cacheCurrentSRAMType, info.CurrentSRAMType)
	buf.PutUint8(cacheSpeed, info.Speed)
	buf.PutUint8(cacheErrorCorrectionType, info.ErrorCorrectionType)
	buf.PutUint8(cacheSystemCacheType, info.SystemCacheType)
	buf.PutUint8(cacheAssociativity, info.Associativity)
	buf.PutUint32(cacheMaximumSize2, maxSize2)
	buf.PutUint32(cacheInstalledSize2, installed2)
	return finish(buf)
}

// NewCacheInfo returns the generator of the type 7 structures, one per
// cache.
func NewCacheInfo() *Generator[*cm.CacheInfo] {
	return NewGenerator[*cm.CacheInfo](7, "Cache Information", true, encodeCache)
}
