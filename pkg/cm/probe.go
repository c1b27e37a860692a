// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cm

import (
	"fmt"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/linuxboot/tablegen/pkg/guid"
	"github.com/linuxboot/tablegen/pkg/log"
)

var (
	hostBIOS    = func() (*ghw.BIOSInfo, error) { return ghw.BIOS() }
	hostProduct = func() (*ghw.ProductInfo, error) { return ghw.Product() }
)

// unknown is what ghw reports for a field it could not read.
const unknown = "unknown"

func hostString(s string) string {
	s = strings.TrimSpace(s)
	if s == unknown {
		return ""
	}
	return s
}

// ProbeHost adds BIOSInfo and SystemInfo objects describing the running
// machine to repo, unless repo already has them.
func ProbeHost(repo *Repository) error {
	if !repo.Has(IDBIOSInfo) {
		bios, err := hostBIOS()
		if err != nil {
			return fmt.Errorf("unable to probe BIOS information: %w", err)
		}
		repo.Add(&BIOSInfo{
			Vendor:      hostString(bios.Vendor),
			Version:     hostString(bios.Version),
			ReleaseDate: hostString(bios.Date),
		})
	}

	if !repo.Has(IDSystemInfo) {
		product, err := hostProduct()
		if err != nil {
			return fmt.Errorf("unable to probe system information: %w", err)
		}
		info := &SystemInfo{
			Manufacturer: hostString(product.Vendor),
			ProductName:  hostString(product.Name),
			Version:      hostString(product.Version),
			SerialNumber: hostString(product.SerialNumber),
			SKUNumber:    hostString(product.SKU),
			Family:       hostString(product.Family),
		}
		if uuid := hostString(product.UUID); uuid != "" {
			g, err := guid.Parse(uuid)
			if err != nil {
				log.Warnf("ignoring host UUID %q: %v", uuid, err)
			} else {
				info.UUID = *g
			}
		}
		repo.Add(info)
	}
	return nil
}
