// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

// Buffer is the growing input buffer the decoder reads from: an
// append-only byte slice with a mutable read cursor. Callers append newly
// received bytes with Write and hand the same Buffer back into Decode on
// the next call; content events retain slices of Buffer's backing array
// instead of copying, so a Buffer must not be reused for unrelated data
// while any retained Event.Content from it is still alive.
type Buffer struct {
	data   []byte
	reader int
}

// NewBuffer returns an empty Buffer with capacity hint n.
func NewBuffer(n int) *Buffer {
	return &Buffer{data: make([]byte, 0, n)}
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) { b.data = append(b.data, p...) }

// Bytes returns the full backing slice, indices 0..WriterIndex(). Random
// access into it (e.g. data[i]) is valid for any i < WriterIndex().
func (b *Buffer) Bytes() []byte { return b.data }

// ReaderIndex returns the position of the read cursor.
func (b *Buffer) ReaderIndex() int { return b.reader }

// SetReaderIndex moves the read cursor. Callers only ever move it forward.
func (b *Buffer) SetReaderIndex(i int) { b.reader = i }

// WriterIndex returns the number of bytes ever written.
func (b *Buffer) WriterIndex() int { return len(b.data) }

// Available reports how many unread bytes remain.
func (b *Buffer) Available() int { return len(b.data) - b.reader }

// Slice returns a retained (not copied) view of data[from:to].
func (b *Buffer) Slice(from, to int) []byte { return b.data[from:to:to] }

// Compact discards everything before the read cursor, shifting the
// remaining bytes to the front. It must only be called when no Event
// still retains a slice of the buffer's backing array (e.g. once the
// caller has finished consuming all Events from the prior Decode call).
func (b *Buffer) Compact() {
	if b.reader == 0 {
		return
	}
	n := copy(b.data, b.data[b.reader:])
	b.data = b.data[:n]
	b.reader = 0
}
