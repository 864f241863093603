package tiff

import (
	"encoding/binary"
	"fmt"

	"github.com/tacusci/logging"
	"github.com/tacusci/rawkit/internal/rawio"
)

// Dir is one IFD: a tag-id-keyed map of entries, plus the sub-directories
// reached from SubIFDs/Exif/GPS/MakerNote pointers (spec §3). A Dir never
// outlives its owning Container's View, and its endian/dictionary are fixed
// at construction.
type Dir struct {
	Type       IfdType
	Endian     Endian
	Entries    map[TagID]*Entry
	NextOffset uint32
	SubDirs    []*Dir
	Dict       Dictionary
}

// Entry looks up a tag by ID; the second return is false if absent.
func (d *Dir) Entry(tag TagID) (*Entry, bool) {
	e, ok := d.Entries[tag]
	return e, ok
}

// AttachSubDir appends an externally-constructed Dir (typically the
// MakerNote dispatcher's nested IfdMakerNote directory, spec §4.6) to this
// directory's children, so it is walked and dumped like any other IFD.
func (d *Dir) AttachSubDir(child *Dir) {
	d.SubDirs = append(d.SubDirs, child)
}

// SubDirsOfType returns the sub-directories of a given IfdType, in the
// order they were parsed.
func (d *Dir) SubDirsOfType(t IfdType) []*Dir {
	var out []*Dir
	for _, s := range d.SubDirs {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// parseState threads the cycle-detection visited-offset set through a
// chain/subIFD parse (spec §4.2, §9); the depth counter is passed
// separately as a parameter.
type parseState struct {
	view    *rawio.View
	order   binary.ByteOrder
	visited map[uint32]bool
	dictFor func(IfdType) Dictionary
}

// ParseChain parses an IFD chain starting at `offset`, following
// next_offset pointers until next=0 (spec §3 invariant: the chain
// terminates iff next=0). Returns the list of top-level Dirs (Main, plus
// any chained directories such as a thumbnail IFD1).
func ParseChain(view *rawio.View, order binary.ByteOrder, offset uint32, ifdType IfdType, dictFor func(IfdType) Dictionary) ([]*Dir, error) {
	ps := &parseState{view: view, order: order, visited: map[uint32]bool{}, dictFor: dictFor}
	var dirs []*Dir
	next := offset
	for next != 0 {
		if ps.visited[next] {
			// Cycle: treat re-entry as end-of-chain (spec §9).
			logging.Debug(fmt.Sprintf("tiff: IFD cycle detected at offset %d, stopping chain", next))
			break
		}
		ps.visited[next] = true
		dir, err := parseOneDir(ps, next, ifdType, 0)
		if err != nil {
			return dirs, err
		}
		dirs = append(dirs, dir)
		next = dir.NextOffset
	}
	return dirs, nil
}

// parseOneDir parses a single IFD at `offset`, including its SubIFD
// expansion, but does not follow this directory's own next_offset chain
// (the caller does that for the root chain; sub-IFDs don't chain further
// in practice but the field is still recorded).
func parseOneDir(ps *parseState, offset uint32, ifdType IfdType, depth int) (*Dir, error) {
	if depth > maxSubIfdDepth {
		logging.Debug("tiff: SubIFD depth limit reached, stopping descent")
		return &Dir{Type: ifdType, Endian: orderToEndian(ps.order), Entries: map[TagID]*Entry{}}, nil
	}

	v := ps.view.Clone()
	if err := v.Seek(int64(offset)); err != nil {
		return nil, fmt.Errorf("tiff: %w: IFD offset %d out of range", err, offset)
	}
	count, err := v.U16(ps.order)
	if err != nil {
		return nil, fmt.Errorf("tiff: truncated IFD header at %d: %w", offset, err)
	}

	dict := ps.dictFor(ifdType)
	dir := &Dir{
		Type:    ifdType,
		Endian:  orderToEndian(ps.order),
		Entries: make(map[TagID]*Entry, count),
		Dict:    dict,
	}

	for i := uint16(0); i < count; i++ {
		e, err := readEntry(v, ps.order)
		if err != nil {
			// A truncated stream mid-header is structural: abort this dir.
			return nil, fmt.Errorf("tiff: truncated entry %d in IFD at %d: %w", i, offset, err)
		}
		dir.Entries[e.Tag] = &e
	}

	next, err := v.U32(ps.order)
	if err == nil {
		dir.NextOffset = next
	}
	// A missing next-offset (EOF right after the last entry) is tolerated;
	// it simply means no further chained IFD, same as next=0.

	expandSubIfds(ps, dir, depth)
	return dir, nil
}

// expandSubIfds follows the configured SubIFD-bearing tags (spec §4.2),
// bounded by depth and guarded by the visited-offset cycle set.
func expandSubIfds(ps *parseState, dir *Dir, depth int) {
	for tag, childType := range subIfdTags {
		entry, ok := dir.Entries[tag]
		if !ok || entry.IsInvalid() {
			continue
		}
		offsets, ok := entry.UintArray()
		if !ok {
			continue
		}
		for _, off := range offsets {
			offset := uint32(off)
			if ps.visited[offset] {
				logging.Debug(fmt.Sprintf("tiff: SubIFD cycle at offset %d, skipping", offset))
				continue
			}
			ps.visited[offset] = true
			child, err := parseOneDir(ps, offset, childType, depth+1)
			if err != nil {
				logging.Debug(fmt.Sprintf("tiff: failed to parse SubIFD at %d: %v", offset, err))
				continue
			}
			dir.SubDirs = append(dir.SubDirs, child)
		}
	}
}

func orderToEndian(order binary.ByteOrder) Endian {
	switch order {
	case binary.BigEndian:
		return EndianBig
	case binary.LittleEndian:
		return EndianLittle
	default:
		return EndianUnset
	}
}
