// Package sony handles Sony's ARW format. Most ARW generations store
// uncompressed or simply-packed 14-bit little-endian samples alongside a
// private MakerNote IFD (spec §4.7's "Sony private IFD"), so the front-end
// is a thin configuration of the generic DNG-style reader rather than a
// bespoke decompressor.
package sony

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Sony ARW front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "sony",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "SONY")
		},
		BitOrder: unpack.LSBFirst,
	}
}
