package tiff

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/internal/rawio"
)

// magicNumber is the fixed TIFF magic that follows the byte-order mark.
const magicNumber = 42

// Container owns the View and the root Dir chain of a TIFF file (spec §3).
// A Container may also be built over a sub-view rather than the whole file
// (a JPEG's Exif payload via Open, a MakerNote IFD via OpenAt).
type Container struct {
	view   *rawio.View
	order  binary.ByteOrder
	Dirs   []*Dir
	DictFn func(IfdType) Dictionary
}

// Open parses the root header (endian mark, magic, first IFD offset) at the
// start of `view`, then follows the IFD chain. A truncated header aborts
// the load and is reported to the caller (structural failure, spec §4.2);
// record-local corruption inside the chain is recovered per-entry.
func Open(view *rawio.View, dictFn func(IfdType) Dictionary) (*Container, error) {
	header, err := view.BytesAt(0, 8)
	if err != nil {
		return nil, fmt.Errorf("tiff: truncated header: %w", err)
	}
	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("tiff: bad byte-order mark %q", header[0:2])
	}
	magic := order.Uint16(header[2:4])
	if magic != magicNumber {
		logging.Debug(fmt.Sprintf("tiff: unexpected magic number %d (want 42)", magic))
	}
	firstIfd := order.Uint32(header[4:8])

	if dictFn == nil {
		dictFn = StandardDictionaries
	}

	dirs, err := ParseChain(view, order, firstIfd, IfdMain, dictFn)
	if err != nil {
		return nil, err
	}
	return &Container{view: view, order: order, Dirs: dirs, DictFn: dictFn}, nil
}

// OpenAt behaves like Open but starts the IFD chain at an explicit offset
// with a pre-determined byte order and root IfdType, without re-reading a
// TIFF header. Used by the MakerNote dispatcher for MakerNote IFDs that
// have no 8-byte TIFF header of their own at the IFD's start.
func OpenAt(view *rawio.View, order binary.ByteOrder, firstIfd uint32, rootType IfdType, dictFn func(IfdType) Dictionary) (*Container, error) {
	if dictFn == nil {
		dictFn = StandardDictionaries
	}
	dirs, err := ParseChain(view, order, firstIfd, rootType, dictFn)
	if err != nil {
		return nil, err
	}
	return &Container{view: view, order: order, Dirs: dirs, DictFn: dictFn}, nil
}

// Order returns the container's fixed byte order.
func (c *Container) Order() binary.ByteOrder { return c.order }

// View returns the underlying byte view (for vendor front-ends that need
// to read raw strip/tile data at absolute offsets).
func (c *Container) View() *rawio.View { return c.view }

// FindType returns every top-level or nested Dir matching an IfdType,
// searching depth-first.
func (c *Container) FindType(t IfdType) []*Dir {
	var out []*Dir
	var walk func(*Dir)
	walk = func(d *Dir) {
		if d.Type == t {
			out = append(out, d)
		}
		for _, s := range d.SubDirs {
			walk(s)
		}
	}
	for _, d := range c.Dirs {
		walk(d)
	}
	return out
}

// Main returns the first Main IFD, if any.
func (c *Container) Main() (*Dir, bool) {
	if len(c.Dirs) == 0 {
		return nil, false
	}
	return c.Dirs[0], true
}
