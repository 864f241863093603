// Package metadata exposes a RawFile's parsed IFD tree as a flat,
// human-readable key/value namespace (spec §6), so callers don't need to
// know about TIFF's IFD-chain-of-directories shape to read EXIF fields.
package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tacusci/rawkit/internal/tiff"
)

// Entry is one resolved metadata field: a namespaced key ("Exif.Image.Make")
// and the tag's first value rendered as a string.
type Entry struct {
	Namespace string
	Name      string
	Value     string
}

// Key returns the entry's fully-qualified "Namespace.Name" form.
func (e Entry) Key() string {
	return fmt.Sprintf("%s.%s", e.Namespace, e.Name)
}

// Set is the flattened metadata for one RawFile: every entry from the main
// IFD and its descendants (SubIFD, Exif, GPS, MakerNote), deduplicated by
// key with the first-seen value winning.
type Set struct {
	entries map[string]Entry
	order   []string
}

func newSet() *Set {
	return &Set{entries: map[string]Entry{}}
}

func (s *Set) add(namespace string, dir *tiff.Dir) {
	for tag, e := range dir.Entries {
		if e.IsInvalid() {
			continue
		}
		name := strings.TrimPrefix(dir.Dict.Name(tag), namespace+".")
		entry := Entry{Namespace: namespace, Name: name, Value: firstValue(e)}
		key := entry.Key()
		if _, exists := s.entries[key]; exists {
			continue
		}
		s.entries[key] = entry
		s.order = append(s.order, key)
	}
}

// firstValue renders the whole text of an Ascii entry, or else the value at
// index 0; an entry with no decodable value falls back to its description.
func firstValue(e *tiff.Entry) string {
	if s, ok := e.ASCII(); ok {
		return s
	}
	if v, ok := e.Uint(0); ok {
		return fmt.Sprint(v)
	}
	if v, ok := e.Int(0); ok {
		return fmt.Sprint(v)
	}
	if v, ok := e.Float(0); ok {
		return fmt.Sprint(v)
	}
	return e.String()
}

// Get looks up one entry by its "Namespace.Name" key.
func (s *Set) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// All returns every entry, in first-seen (main IFD first, depth-first
// descendants) order.
func (s *Set) All() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// Sorted returns every entry sorted by key, for stable dump output.
func (s *Set) Sorted() []Entry {
	out := s.All()
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func namespaceFor(t tiff.IfdType) string {
	switch t {
	case tiff.IfdMain:
		return "Exif.Image"
	case tiff.IfdExif:
		return "Exif.Photo"
	case tiff.IfdGpsInfo:
		return "Exif.GPSInfo"
	case tiff.IfdMakerNote:
		return "Exif.MakerNote"
	case tiff.IfdSubIfd:
		return "Exif.SubImage"
	case tiff.IfdRaw:
		return "Exif.RawImage"
	default:
		return "Exif.Other"
	}
}

// FromDir flattens one Dir and every directory reachable from it
// (depth-first) into a Set.
func FromDir(root *tiff.Dir) *Set {
	s := newSet()
	var walk func(dir *tiff.Dir)
	walk = func(dir *tiff.Dir) {
		if dir == nil {
			return
		}
		s.add(namespaceFor(dir.Type), dir)
		for _, child := range dir.SubDirs {
			walk(child)
		}
	}
	walk(root)
	return s
}
