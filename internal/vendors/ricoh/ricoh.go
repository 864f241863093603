// Package ricoh handles Ricoh/Pentax-Ricoh's GR-series DNG raw output,
// which is standard, uncompressed DNG.
package ricoh

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Ricoh front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "ricoh",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "RICOH")
		},
		BitOrder: unpack.MSBFirst,
	}
}
