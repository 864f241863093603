// Package apple handles Apple ProRAW, a DNG profile produced by iPhone
// cameras: uncompressed or lightly-packed linear data plus the standard
// DNG calibration tag set, so it is a direct configuration of the generic
// DNG reader distinguished by its "Apple" Make string.
package apple

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Apple ProRAW front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "apple",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "APPLE")
		},
		BitOrder: unpack.MSBFirst,
	}
}
