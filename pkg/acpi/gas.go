// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/linuxboot/tablegen/pkg/cm"
)

// GenericAddressSize is the size of a Generic Address Structure.
const GenericAddressSize = 12

// Address space IDs of a Generic Address Structure.
const (
	SpaceSystemMemory = uint8(0)
	SpaceSystemIO     = uint8(1)
	SpacePCIConfig    = uint8(2)
	SpaceSMBus        = uint8(4)
)

// GenericAddress is the serialized form of cm.GenericAddress.
type GenericAddress struct {
	SpaceID    uint8
	BitWidth   uint8
	BitOffset  uint8
	AccessSize uint8
	Address    uint64
}

func genericAddress(a cm.GenericAddress) GenericAddress {
	return GenericAddress{
		SpaceID:    a.SpaceID,
		BitWidth:   a.BitWidth,
		BitOffset:  a.BitOffset,
		AccessSize: a.AccessSize,
		Address:    a.Address,
	}
}
