// Package leica handles Leica's DNG-derivative raw formats. Leica ships
// standard-compliant, uncompressed DNG for most of its digital M and Q
// bodies, so this is a direct configuration of the generic DNG reader.
package leica

import (
	"strings"

	"github.com/tacusci/rawkit/internal/unpack"
	"github.com/tacusci/rawkit/internal/vendors/dng"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
)

// New returns the Leica front-end.
func New() frontend.Frontend {
	return &dng.Generic{
		VendorName: "leica",
		MakeMatch: func(make string) bool {
			return strings.Contains(strings.ToUpper(make), "LEICA")
		},
		BitOrder: unpack.MSBFirst,
	}
}
