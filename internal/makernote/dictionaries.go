package makernote

import "github.com/tacusci/rawkit/internal/tiff"

// Per-vendor MakerNote tag dictionaries (spec §4.7). These cover the tags
// the vendor front-ends in internal/vendors actually read; they are not
// exhaustive catalogues of every tag a given vendor has ever shipped.

var NikonDictionary = tiff.Dictionary{
	0x0001: "Nikon.MakerNoteVersion",
	0x0002: "Nikon.ISOSpeed",
	0x0004: "Nikon.Quality",
	0x0005: "Nikon.WhiteBalance",
	0x0007: "Nikon.FocusMode",
	0x0084: "Nikon.LensSpec",
	0x0088: "Nikon.AFInfo",
	0x0093: "Nikon.NEFDecodeTable",
	0x0097: "Nikon.ColorBalance",
	0x00a7: "Nikon.ShutterCount",
}

var OlympusDictionary = tiff.Dictionary{
	0x0200: "Olympus.SpecialMode",
	0x0201: "Olympus.Quality",
	0x0203: "Olympus.BWMode",
	0x1002: "Olympus.RedBalance",
	0x1003: "Olympus.BlueBalance",
	0x2010: "Olympus.Equipment",
	0x2020: "Olympus.CameraSettings",
	0x2030: "Olympus.RawDevelopment",
	0x2040: "Olympus.ImageProcessing",
}

var PanasonicDictionary = tiff.Dictionary{
	0x0001: "Panasonic.Quality",
	0x0002: "Panasonic.FirmwareVersion",
	0x0003: "Panasonic.WhiteBalance",
	0x0024: "Panasonic.ISOSpeed",
	0x002e: "Panasonic.WBRedLevel",
	0x002f: "Panasonic.WBBlueLevel",
	0x0119: "Panasonic.CameraIFD",
}

var PentaxDictionary = tiff.Dictionary{
	0x0001: "Pentax.CaptureMode",
	0x0002: "Pentax.QualityLevel",
	0x0003: "Pentax.FocusMode",
	0x0029: "Pentax.HuffmanTable",
	0x0201: "Pentax.WhiteBalance",
	0x0205: "Pentax.WhitePoint",
}

var FujifilmDictionary = tiff.Dictionary{
	0x0000: "Fujifilm.Version",
	0x1000: "Fujifilm.Quality",
	0x1001: "Fujifilm.Sharpness",
	0x1002: "Fujifilm.WhiteBalance",
	0x2ff0: "Fujifilm.WhiteBalanceRGBLevels",
	0xc000: "Fujifilm.RAFData",
}
