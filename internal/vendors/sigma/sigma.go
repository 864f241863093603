// Package sigma handles Sigma's X3F-adjacent DNG output for its non-Foveon
// bodies (Foveon full-colour-per-pixel sensors have no CFA pattern and are
// out of scope per the spec's mosaic-sensor focus). Sigma's DNG-mode raw
// is uncompressed, so this reuses the generic DNG reader.
package sigma

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Sigma front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "sigma",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "SIGMA")
		},
		BitOrder: unpack.MSBFirst,
	}
}
