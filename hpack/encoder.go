// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hpack

// Representation masks and prefix widths, RFC 7541 §6.
const (
	maskIndexed           = 0x80
	maskIncrementalIndex  = 0x40
	maskNotIndexed        = 0x00
	maskNeverIndexed      = 0x10
	maskTableSizeUpdate   = 0x20
	prefixIndexed         = 7
	prefixIncrementalName = 6
	prefixLiteralName     = 4
	prefixTableSizeUpdate = 5
	prefixStringLength    = 7

	huffmanFlag   = 0x80
	noHuffmanFlag = 0x00
)

// MinTableSize and MaxTableSize bound the table-size values accepted by
// SetMaxHeaderTableSize: any non-negative integer that still fits an HPACK
// varint's effective range.
const (
	MinTableSize uint32 = 0
	MaxTableSize uint32 = (1 << 31) - 1
)

// DefaultMaxHeaderTableSize and DefaultMaxHeaderListSize are RFC 7541's
// unstated-but-conventional defaults: an empty dynamic table costs nothing,
// and an unbounded header list size means "no limit until the caller sets
// one".
const (
	DefaultMaxHeaderTableSize uint32 = 4096
	DefaultMaxHeaderListSize  uint32 = MaxTableSize
)

// HeaderField is a single (name, value) pair. Once observed by an Encoder
// it must not be mutated by the caller.
type HeaderField struct {
	Name  string
	Value string
}

func (h HeaderField) size() uint32 { return uint32(len(h.Name)+len(h.Value)) + entrySize }

// Sensitivity classifies a header as "never index" — e.g. an
// Authorization or Cookie value that must not be cached in the dynamic
// table for confidentiality. Such a header is sent as a never-indexed
// literal; its name still uses a table index when one exists, its value
// is always sent as a string literal.
type Sensitivity func(name, value string) bool

// Encoder holds one connection's HPACK encoding state: its dynamic table
// and the knobs that govern representation choice. An Encoder is not
// safe for concurrent use; callers must serialize access, the same way a
// single HTTP/2 connection serializes its own header-block writes.
type Encoder struct {
	dynamicTable *dynamicTable

	maxHeaderTableSize      uint32
	maxHeaderListSize       uint32
	ignoreMaxHeaderListSize bool

	arraySizeHint int
}

// NewEncoder returns an Encoder with an empty dynamic table bounded at
// DefaultMaxHeaderTableSize and no header-list-size limit beyond
// DefaultMaxHeaderListSize.
func NewEncoder() *Encoder {
	return &Encoder{
		dynamicTable:       newDynamicTable(DefaultMaxHeaderTableSize),
		maxHeaderTableSize: DefaultMaxHeaderTableSize,
		maxHeaderListSize:  DefaultMaxHeaderListSize,
		arraySizeHint:      16,
	}
}

// SetIgnoreMaxHeaderListSize controls whether EncodeHeaders pre-flights
// the header list against MaxHeaderListSize before emitting anything.
func (e *Encoder) SetIgnoreMaxHeaderListSize(ignore bool) { e.ignoreMaxHeaderListSize = ignore }

// SetArraySizeHint records how many headers a call is expected to carry.
// EncodeHeaders does not read it; it has no wire effect.
func (e *Encoder) SetArraySizeHint(n int) { e.arraySizeHint = n }

// TableLength and TableSize expose the dynamic table's current entry
// count and byte size, mainly for tests asserting §8's invariants.
func (e *Encoder) TableLength() int     { return e.dynamicTable.length() }
func (e *Encoder) TableSize() uint32    { return e.dynamicTable.size() }
func (e *Encoder) MaxTableSize() uint32 { return e.maxHeaderTableSize }

// SetMaxHeaderListSize validates and stores newMax. It has no wire effect.
func (e *Encoder) SetMaxHeaderListSize(newMax uint32) error {
	if newMax > MaxTableSize {
		return newConfigurationError("maxHeaderListSize", newMax, MinTableSize, MaxTableSize)
	}
	e.maxHeaderListSize = newMax
	return nil
}

// SetMaxHeaderTableSize validates newMax, shrinks the dynamic table if
// necessary, and — unless the value is unchanged — appends a dynamic-
// table-size-update directive to out.
//
// An out-of-range value fails the connection (returns an error) rather
// than being silently clamped: the source this package is modeled on left
// this ambiguous, and a clamp would let a caller believe it set one limit
// while the wire carries another.
func (e *Encoder) SetMaxHeaderTableSize(out []byte, newMax uint32) ([]byte, error) {
	if newMax > MaxTableSize {
		return out, newConfigurationError("maxHeaderTableSize", newMax, MinTableSize, MaxTableSize)
	}
	if newMax == e.maxHeaderTableSize {
		return out, nil
	}
	e.maxHeaderTableSize = newMax
	e.dynamicTable.setMaxSize(newMax)
	out = EncodeInteger(out, uint64(newMax), prefixTableSizeUpdate, maskTableSizeUpdate)
	return out, nil
}

// EncodeHeaders appends the HPACK encoding of headers to out, in input
// order, mutating the dynamic table as literals are chosen for
// incremental indexing.
//
// Unless SetIgnoreMaxHeaderListSize(true) was called, the total logical
// size of headers is checked against MaxHeaderListSize before anything is
// written; on overflow, out and the dynamic table are left byte-for-byte
// unchanged and a *ProtocolError is returned.
func (e *Encoder) EncodeHeaders(streamID uint32, out []byte, headers []HeaderField, sensitive Sensitivity) ([]byte, error) {
	if !e.ignoreMaxHeaderListSize {
		var total uint64
		for _, h := range headers {
			total += uint64(h.size())
		}
		if total > uint64(e.maxHeaderListSize) {
			return out, &ProtocolError{StreamID: streamID, Reason: "header list size exceeds maxHeaderListSize"}
		}
	}
	for _, h := range headers {
		out = e.encodeOne(out, h, sensitive(h.Name, h.Value))
	}
	return out, nil
}

// encodeOne applies the representation policy (§4.4) for a single header.
func (e *Encoder) encodeOne(out []byte, h HeaderField, sensitive bool) []byte {
	size := h.size()

	if sensitive {
		return e.encodeLiteral(out, h, maskNeverIndexed)
	}
	if e.maxHeaderTableSize == 0 {
		if idx := staticIndexByNameValue(h.Name, h.Value); idx >= 0 {
			return EncodeInteger(out, uint64(idx), prefixIndexed, maskIndexed)
		}
		return e.encodeLiteral(out, h, maskNotIndexed)
	}
	if size > e.maxHeaderTableSize {
		return e.encodeLiteral(out, h, maskNotIndexed)
	}
	if entry, ok := e.dynamicTable.lookupByNameValue(h.Name, h.Value); ok {
		idx := e.dynamicTable.indexOf(entry) + staticTableLength
		return EncodeInteger(out, uint64(idx), prefixIndexed, maskIndexed)
	}
	if idx := staticIndexByNameValue(h.Name, h.Value); idx >= 0 {
		return EncodeInteger(out, uint64(idx), prefixIndexed, maskIndexed)
	}
	out = e.encodeLiteral(out, h, maskIncrementalIndex)
	e.dynamicTable.add(h.Name, h.Value, size)
	return out
}

// nameIndex resolves name to a 1-based index usable as a literal's
// name-index field: the static table first, then the dynamic table
// (offset by the static table's length), or -1 if name appears in
// neither.
func (e *Encoder) nameIndex(name string) int {
	if idx := staticIndexByName(name); idx >= 0 {
		return idx
	}
	if idx := e.dynamicTable.lookupByName(name); idx >= 0 {
		return idx + staticTableLength
	}
	return -1
}

// encodeLiteral emits a literal representation for h under the given
// representation mask (incremental, not-indexed, or never-indexed),
// name-indexing the header when possible and always emitting the value
// as a string literal.
func (e *Encoder) encodeLiteral(out []byte, h HeaderField, mask byte) []byte {
	prefix := prefixLiteralName
	if mask == maskIncrementalIndex {
		prefix = prefixIncrementalName
	}
	idx := e.nameIndex(h.Name)
	if idx < 0 {
		out = EncodeInteger(out, 0, prefix, mask)
		out = encodeString(out, h.Name)
	} else {
		out = EncodeInteger(out, uint64(idx), prefix, mask)
	}
	return encodeString(out, h.Value)
}

// encodeString appends the HPACK string-literal encoding of s: a Huffman
// flag bit, a 7-bit prefix length, and either the Huffman or raw bytes,
// whichever is shorter.
func encodeString(out []byte, s string) []byte {
	raw := len(s)
	huffLen := EncodedLength([]byte(s))
	if huffLen < raw {
		out = EncodeInteger(out, uint64(huffLen), prefixStringLength, huffmanFlag)
		return Encode(out, []byte(s))
	}
	out = EncodeInteger(out, uint64(raw), prefixStringLength, noHuffmanFlag)
	return append(out, s...)
}
