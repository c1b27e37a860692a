// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"fmt"

	"github.com/linuxboot/tablegen/pkg/status"
)

// ErrUnsupportedRevision means a table revision was requested which the
// generator cannot build.
type ErrUnsupportedRevision struct {
	ID       ID
	Revision uint8
	Min      uint8
	Max      uint8
}

func (err *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("%v revision %d is outside of the supported range [%d, %d]",
		err.ID, err.Revision, err.Min, err.Max)
}

// Is implements errors.Is.
func (err *ErrUnsupportedRevision) Is(target error) bool {
	return target == status.UnsupportedRevision || target == status.InvalidParameter
}

// Descriptor describes the table type a generator builds.
type Descriptor struct {
	ID          ID
	Name        string
	Description string

	// MinRevision and MaxRevision bound the revisions the generator
	// can build. For SMBIOS the revision is the SMBIOS major version.
	MinRevision uint8
	MaxRevision uint8
}

// CheckRevision validates a requested revision and returns the revision to
// build. Revision 0 selects MaxRevision.
func (d *Descriptor) CheckRevision(rev uint8) (uint8, error) {
	if rev == 0 {
		return d.MaxRevision, nil
	}
	if rev < d.MinRevision || rev > d.MaxRevision {
		return 0, &ErrUnsupportedRevision{ID: d.ID, Revision: rev, Min: d.MinRevision, Max: d.MaxRevision}
	}
	return rev, nil
}

// CheckRequest validates req against the descriptor and returns the
// revision to build.
func (d *Descriptor) CheckRequest(req *Request) (uint8, error) {
	if req == nil {
		return 0, status.Invalidf("nil table request")
	}
	if req.ID != d.ID {
		return 0, status.Invalidf("request for %v passed to the %v generator", req.ID, d.ID)
	}
	if req.Source == nil {
		return 0, status.Invalidf("no configuration manager in the %v request", d.ID)
	}
	return d.CheckRevision(req.Revision)
}
