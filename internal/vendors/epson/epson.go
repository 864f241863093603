// Package epson handles Epson's R-D1 series raw output, a plain
// uncompressed DNG variant.
package epson

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Epson front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "epson",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "EPSON")
		},
		BitOrder: unpack.MSBFirst,
	}
}
