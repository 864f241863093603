package tiff

// Well-known tag dictionaries, scoped per IfdType (spec §6's Exif.Image.*,
// Exif.Photo.*, GPSInfo.*, Raw.* namespaces). Names mirror the Exif tag
// catalogue; values are the ones actually produced by container parsing and
// the vendor front-ends.
//
// These are the only entries libopenraw's src/tiff/exif/tags.rs marks public
// (non-underscore-prefixed) plus the DNG/private tags every vendor front-end
// reads; the rest of that table's private constants have no Go caller yet
// and are left out rather than carried as dead names.

// MainDictionary names tags found in the root (Main/IFD0) directory.
var MainDictionary = Dictionary{
	0x00fe:             "Exif.Image.NewSubfileType",
	TagImageWidth:      "Exif.Image.ImageWidth",
	TagImageLength:     "Exif.Image.ImageLength",
	TagBitsPerSample:   "Exif.Image.BitsPerSample",
	TagCompression:     "Exif.Image.Compression",
	TagPhotometricInterp: "Exif.Image.PhotometricInterpretation",
	0x010d:             "Exif.Image.DocumentName",
	0x010e:             "Exif.Image.ImageDescription",
	TagMake:            "Exif.Image.Make",
	TagModel:           "Exif.Image.Model",
	TagStripOffsets:    "Exif.Image.StripOffsets",
	0x0112:             "Exif.Image.Orientation",
	TagSamplesPerPixel: "Exif.Image.SamplesPerPixel",
	TagRowsPerStrip:    "Exif.Image.RowsPerStrip",
	TagStripByteCounts: "Exif.Image.StripByteCounts",
	TagTileWidth:       "Exif.Image.TileWidth",
	TagTileLength:      "Exif.Image.TileLength",
	TagTileOffsets:     "Exif.Image.TileOffsets",
	TagTileByteCounts:  "Exif.Image.TileByteCounts",
	TagSubIFDs:         "Exif.Image.SubIFDs",
	0x0201:             "Exif.Image.JPEGInterchangeFormat",
	0x0202:             "Exif.Image.JPEGInterchangeFormatLength",
	TagCFARepeatPatternDim: "Exif.Image.CFARepeatPatternDim",
	TagCFAPattern:      "Exif.Image.CFAPattern",
	TagExifIFDPointer:  "Exif.Image.ExifTag",
	TagGPSInfoIFDPointer: "Exif.Image.GPSTag",
	TagMakerNote:       "Exif.Photo.MakerNote",
	TagDNGVersion:         "Exif.Image.DNGVersion",
	TagUniqueCameraModel:  "Exif.Image.UniqueCameraModel",
	TagLinearizationTable: "Exif.Image.LinearizationTable",
	TagBlackLevel:         "Exif.Image.BlackLevel",
	TagWhiteLevel:         "Exif.Image.WhiteLevel",
	TagColorMatrix1:       "Exif.Image.ColorMatrix1",
	TagColorMatrix2:       "Exif.Image.ColorMatrix2",
	TagAsShotNeutral:      "Exif.Image.AsShotNeutral",
	TagActiveArea:         "Exif.Image.ActiveArea",
	TagDefaultCropOrigin:  "Exif.Image.DefaultCropOrigin",
	TagDefaultCropSize:    "Exif.Image.DefaultCropSize",
	TagCalibrationIllum1:  "Exif.Image.CalibrationIlluminant1",
	TagCalibrationIllum2:  "Exif.Image.CalibrationIlluminant2",
}

// ExifDictionary names tags found under the Exif sub-IFD (0x8769).
var ExifDictionary = Dictionary{
	0x829a: "Exif.Photo.ExposureTime",
	0x829d: "Exif.Photo.FNumber",
	0x8822: "Exif.Photo.ExposureProgram",
	0x8827: "Exif.Photo.ISOSpeedRatings",
	0x9000: "Exif.Photo.ExifVersion",
	0x9003: "Exif.Photo.DateTimeOriginal",
	0x9004: "Exif.Photo.DateTimeDigitized",
	0x920a: "Exif.Photo.FocalLength",
	TagMakerNote: "Exif.Photo.MakerNote",
	0x9286: "Exif.Photo.UserComment",
	0xa002: "Exif.Photo.PixelXDimension",
	0xa003: "Exif.Photo.PixelYDimension",
	0xa005: "Exif.Photo.InteroperabilityTag",
	0xa431: "Exif.Photo.BodySerialNumber",
	0xa434: "Exif.Photo.LensModel",
}

// GpsDictionary names tags found under the GPS sub-IFD (0x8825).
var GpsDictionary = Dictionary{
	0x0000: "Exif.GPSInfo.GPSVersionID",
	0x0001: "Exif.GPSInfo.GPSLatitudeRef",
	0x0002: "Exif.GPSInfo.GPSLatitude",
	0x0003: "Exif.GPSInfo.GPSLongitudeRef",
	0x0004: "Exif.GPSInfo.GPSLongitude",
	0x0005: "Exif.GPSInfo.GPSAltitudeRef",
	0x0006: "Exif.GPSInfo.GPSAltitude",
	0x0007: "Exif.GPSInfo.GPSTimeStamp",
	0x001d: "Exif.GPSInfo.GPSDateStamp",
}

// RawDictionary names tags common across vendor raw SubIFDs (DNG and
// DNG-like private raw data directories).
var RawDictionary = Dictionary{
	TagImageWidth:      "Raw.ImageWidth",
	TagImageLength:     "Raw.ImageLength",
	TagBitsPerSample:   "Raw.BitsPerSample",
	TagCompression:     "Raw.Compression",
	TagStripOffsets:    "Raw.StripOffsets",
	TagStripByteCounts: "Raw.StripByteCounts",
	TagTileOffsets:     "Raw.TileOffsets",
	TagTileByteCounts:  "Raw.TileByteCounts",
	TagCFAPattern:      "Raw.CFAPattern",
	TagBlackLevel:      "Raw.BlackLevel",
	TagWhiteLevel:      "Raw.WhiteLevel",
	TagActiveArea:      "Raw.ActiveArea",
}

// StandardDictionaries returns the default dictFor function every generic
// TIFF/DNG RawFile uses: Main/SubIfd/Exif/GpsInfo/Raw map to their fixed
// dictionary, and MakerNote is left nil because its dictionary depends on
// the vendor sniff performed by internal/makernote.
func StandardDictionaries(t IfdType) Dictionary {
	switch t {
	case IfdMain:
		return MainDictionary
	case IfdExif:
		return ExifDictionary
	case IfdGpsInfo:
		return GpsDictionary
	case IfdSubIfd, IfdRaw:
		return RawDictionary
	default:
		return nil
	}
}
