// Package rawfile is rawkit's public entry point (spec §6): RawFile.Open
// detects a camera raw container, dispatches to the matching vendor
// front-end, and lazily exposes its sensor data, thumbnails, metadata, and
// rendered output.
package rawfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/internal/jpegcontainer"
	"github.com/tacusci/rawkit/internal/makernote"
	"github.com/tacusci/rawkit/internal/raf"
	"github.com/tacusci/rawkit/internal/rawio"
	"github.com/tacusci/rawkit/internal/render"
	"github.com/tacusci/rawkit/internal/tiff"
	"github.com/tacusci/rawkit/internal/vendors/apple"
	"github.com/tacusci/rawkit/internal/vendors/canon"
	"github.com/tacusci/rawkit/internal/vendors/epson"
	"github.com/tacusci/rawkit/internal/vendors/frontend"
	"github.com/tacusci/rawkit/internal/vendors/fujifilm"
	"github.com/tacusci/rawkit/internal/vendors/leica"
	"github.com/tacusci/rawkit/internal/vendors/nikon"
	"github.com/tacusci/rawkit/internal/vendors/olympus"
	"github.com/tacusci/rawkit/internal/vendors/panasonic"
	"github.com/tacusci/rawkit/internal/vendors/pentax"
	"github.com/tacusci/rawkit/internal/vendors/ricoh"
	"github.com/tacusci/rawkit/internal/vendors/sigma"
	"github.com/tacusci/rawkit/internal/vendors/sony"
	"github.com/tacusci/rawkit/pkg/metadata"
	"github.com/tacusci/rawkit/pkg/rawerr"
	"github.com/tacusci/rawkit/pkg/rawimage"
)

// Type classifies the outer container a RawFile was detected as.
type Type int

const (
	TypeUnknown Type = iota
	TypeTIFF
	TypeRAF
	TypeBMFF
)

func (t Type) String() string {
	switch t {
	case TypeTIFF:
		return "TIFF"
	case TypeRAF:
		return "RAF"
	case TypeBMFF:
		return "BMFF"
	default:
		return "unknown"
	}
}

// registry is the ordered set of vendor front-ends tried against a
// detected container's main IFD (spec §4.7/§9). Order matters only where
// Make strings double-match: a Make containing "LEICA CAMERA" matches both
// panasonic and leica, and panasonic, listed first, takes it.
var registry = []frontend.Frontend{
	canon.New(),
	nikon.New(),
	olympus.New(),
	panasonic.New(),
	pentax.New(),
	fujifilm.New(),
	sony.New(),
	leica.New(),
	ricoh.New(),
	sigma.New(),
	epson.New(),
	apple.New(),
}

// RawFile is the lazily-loaded handle a caller opens once and queries
// repeatedly; all parsing happens on first access via a sync.Once guard
// (spec §6).
type RawFile struct {
	view   *rawio.View
	closer io.Closer

	once      sync.Once
	loadErr   error
	typ       Type
	container *tiff.Container
	main      *tiff.Dir
	front     frontend.Frontend
	rafHeader *raf.Header

	dataOnce sync.Once
	dataErr  error
	data     *rawimage.RawImage
}

// Open opens the file at path and returns a RawFile handle. The file is
// kept open for the lifetime of the RawFile; callers should call Close
// when done.
func Open(path string) (*RawFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rawfile: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rawfile: %w", err)
	}
	src := rawio.NewSource(f, info.Size())
	rf := &RawFile{view: rawio.NewView(src), closer: f}
	return rf, nil
}

// OpenBytes wraps an in-memory buffer as a RawFile, for callers that
// already have the bytes (tests, network-fetched files).
func OpenBytes(data []byte) (*RawFile, error) {
	src := rawio.NewSource(bytes.NewReader(data), int64(len(data)))
	return &RawFile{view: rawio.NewView(src)}, nil
}

// Close releases the underlying file handle, if OpenBytes wasn't used to
// construct this RawFile.
func (r *RawFile) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *RawFile) load() {
	r.loadErr = r.detect()
}

func (r *RawFile) ensureLoaded() error {
	r.once.Do(r.load)
	return r.loadErr
}

// detect sniffs the container type and locates the main IFD and matching
// vendor front-end.
func (r *RawFile) detect() error {
	sig, err := r.view.BytesAt(0, 16)
	if err != nil {
		return fmt.Errorf("rawfile: truncated file: %w", err)
	}

	switch {
	case string(sig[0:16]) == "FUJIFILMCCD-RAW ":
		return r.detectRAF()
	case len(sig) >= 12 && string(sig[4:8]) == "ftyp":
		return r.detectBMFF()
	default:
		return r.detectTIFF()
	}
}

func (r *RawFile) detectTIFF() error {
	c, err := tiff.Open(r.view, tiff.StandardDictionaries)
	if err != nil {
		return fmt.Errorf("rawfile: TIFF container: %w", err)
	}
	main, ok := c.Main()
	if !ok {
		return fmt.Errorf("rawfile: %w: no main IFD", rawerr.ErrFormat)
	}
	r.typ = TypeTIFF
	r.container = c
	r.main = main
	r.attachMakerNote(r.view, c.Order())
	return r.matchVendor()
}

func (r *RawFile) detectRAF() error {
	header, err := raf.ParseHeader(r.view)
	if err != nil {
		return err
	}
	r.typ = TypeRAF
	r.rafHeader = header

	var main *tiff.Dir
	if header.JpegLength > 0 {
		jpegView, err := r.view.SubView(int64(header.JpegOffset), int64(header.JpegLength))
		if err == nil {
			if info, err := jpegcontainer.Parse(jpegView); err == nil && info.Exif != nil {
				if m, ok := info.Exif.Main(); ok {
					main = m
				}
			}
		}
	}
	if main == nil {
		// No usable embedded Exif: synthesize an empty Main IFD so
		// Matches()/BuildCalibration() still have something to read (they
		// degrade gracefully on a directory with no entries).
		main = &tiff.Dir{Type: tiff.IfdMain, Entries: map[tiff.TagID]*tiff.Entry{}, Dict: tiff.MainDictionary}
	}
	r.main = main
	r.front = fujifilm.New()
	return nil
}

func (r *RawFile) detectBMFF() error {
	// CR3's ISO-BMFF/CMT-embedded-TIFF layout is not yet supported; this
	// is a known gap (see DESIGN.md).
	return fmt.Errorf("rawfile: CR3 (ISO-BMFF) container: %w", rawerr.ErrUnimplemented)
}

// attachMakerNote dispatches and attaches the vendor MakerNote directory
// to the main IFD, when present, so SubDirsOfType(IfdMakerNote) finds it.
func (r *RawFile) attachMakerNote(view *rawio.View, order binary.ByteOrder) {
	e, ok := r.main.Entry(tiff.TagMakerNote)
	if !ok || e.IsInvalid() {
		return
	}
	off, ok := e.Offset()
	if !ok {
		return
	}
	make := frontend.ReadString(r.main, tiff.TagMake)
	mn, err := makernote.Dispatch(view, order, off, int64(e.Size()), make)
	if err != nil {
		logging.Debug(fmt.Sprintf("rawfile: MakerNote dispatch failed: %v", err))
		return
	}
	r.main.AttachSubDir(mn)
}

func (r *RawFile) matchVendor() error {
	for _, f := range registry {
		if f.Matches(r.main) {
			r.front = f
			return nil
		}
	}
	return fmt.Errorf("rawfile: %w: no vendor front-end matched Make %q", rawerr.ErrUnimplemented, frontend.ReadString(r.main, tiff.TagMake))
}

// Type reports the detected outer container type.
func (r *RawFile) Type() (Type, error) {
	if err := r.ensureLoaded(); err != nil {
		return TypeUnknown, err
	}
	return r.typ, nil
}

// Vendor reports the matched front-end's name.
func (r *RawFile) Vendor() (string, error) {
	if err := r.ensureLoaded(); err != nil {
		return "", err
	}
	return r.front.Name(), nil
}

// RawData returns the decoded sensor data, decoding it on first call and
// caching the result for subsequent calls.
func (r *RawFile) RawData() (*rawimage.RawImage, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.dataOnce.Do(func() {
		r.data, r.dataErr = r.front.RawData(r.container, r.view, r.main)
	})
	return r.data, r.dataErr
}

// Metadata returns the flattened metadata namespace for this file's main
// IFD and every directory reachable from it.
func (r *RawFile) Metadata() (*metadata.Set, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return metadata.FromDir(r.main), nil
}

// ThumbnailSizes returns the byte length of each embedded preview, in the
// order Thumbnail(i) will return them.
func (r *RawFile) ThumbnailSizes() ([]int, error) {
	thumbs, err := r.thumbnails()
	if err != nil {
		return nil, err
	}
	sizes := make([]int, len(thumbs))
	for i, t := range thumbs {
		sizes[i] = len(t.Data)
	}
	return sizes, nil
}

// Thumbnail returns the i-th embedded preview.
func (r *RawFile) Thumbnail(i int) (rawimage.Thumbnail, error) {
	thumbs, err := r.thumbnails()
	if err != nil {
		return rawimage.Thumbnail{}, err
	}
	if i < 0 || i >= len(thumbs) {
		return rawimage.Thumbnail{}, fmt.Errorf("rawfile: %w: thumbnail index %d", rawerr.ErrInvalidParam, i)
	}
	return thumbs[i], nil
}

func (r *RawFile) thumbnails() ([]rawimage.Thumbnail, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return r.front.Thumbnails(r.container, r.view, r.main)
}

// Render decodes (if needed) and renders the image through the
// linearize/demosaic/colour-correct/gamma pipeline at the requested
// stage.
func (r *RawFile) Render(opts render.Options) (image.Image, error) {
	img, err := r.RawData()
	if err != nil {
		return nil, err
	}
	matrix := img.Calib.ColorMatrix1
	if m, ok := r.front.ColorMatrix(r.main); ok {
		matrix = m
	}
	return render.Render(img, matrix, opts)
}
