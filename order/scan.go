package order

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Byte-scan strategy: a best-effort heuristic, not a binary-format parser.
//
// Go binaries embed a runtime line table that opens with a fixed magic label
// and is followed by the function name table, a dense run of NUL-separated
// symbol names in code-layout order, which for one class tracks declaration
// order. The source-file path table comes after the names; its first ".go"
// path marks where name data ends. Scanning that region for a method's name
// (and, for overloads, its descriptor text) yields byte offsets that are
// comparable within one class.
//
// Known false-negative modes, part of the contract rather than bugs:
// compiler-built wrapper symbols can shadow a direct symbol, a name can
// coincide with an unrelated byte run elsewhere in the region, and a magic
// byte pattern occurring before the real table shifts the region start.

// ErrNoLineTable reports that no line-table region could be located in an
// artifact. The recovery coordinator degrades to unresolved positions.
var ErrNoLineTable = errors.New("no line table region found")

// lineTableMagic holds the known magic words, newest toolchain first.
// The needles are built at runtime so the running binary never contains
// them as literal data the scan could mistake for a region start.
var lineTableMagic = []uint32{
	0xfffffff1, // go1.20 and later
	0xfffffff0, // go1.18
	0xfffffffa, // go1.16
	0xfffffffb, // go1.2
}

// magicNeedle renders a magic word the way it appears on disk: the word in
// little-endian order followed by the two zero pad bytes of the header.
func magicNeedle(magic uint32) []byte {
	needle := make([]byte, 6)
	binary.LittleEndian.PutUint32(needle, magic)
	return needle
}

// sourceFileMark returns the terminator pattern for the scan region: the
// first NUL-terminated ".go" path signals the source-file table.
func sourceFileMark() []byte {
	return append([]byte(".go"), 0)
}

// trimRegion cuts an artifact down to its scan region. Everything before the
// earliest line-table magic is discarded, and everything from the first
// source-file mark after it as well. A missing trailing mark leaves the
// region running to the end of the artifact; a missing magic fails with
// ErrNoLineTable.
func trimRegion(data []byte) ([]byte, error) {
	start := -1
	for _, magic := range lineTableMagic {
		idx := bytes.Index(data, magicNeedle(magic))
		if idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return nil, ErrNoLineTable
	}

	region := data[start:]
	if end := bytes.Index(region, sourceFileMark()); end >= 0 {
		region = region[:end]
	}
	return region, nil
}

// scanTarget is one member prepared for matching: its name bytes and, when
// the member shares its name with another input member of the same class,
// the descriptor text that disambiguates the overload.
type scanTarget struct {
	name       []byte
	descriptor []byte // nil for non-overloaded members
}

// findMember locates a member's byte offset within the scan region.
//
// Overloaded members must be followed immediately by their descriptor text.
// Non-overloaded members accept the first name occurrence whose next byte is
// in the control range, which separates genuine structural references from
// incidental substring hits. Failed candidates resume the search just past
// the candidate. The second result is false when the region is exhausted
// without a valid match.
func findMember(region []byte, t scanTarget) (int, bool) {
	from := 0
	for {
		idx := bytes.Index(region[from:], t.name)
		if idx < 0 {
			return 0, false
		}
		at := from + idx
		end := at + len(t.name)

		if t.descriptor != nil {
			if bytes.HasPrefix(region[end:], t.descriptor) {
				return at, true
			}
		} else if end < len(region) && region[end] < 0x20 {
			return at, true
		}
		from = at + 1
	}
}
