// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

// scanner extracts LF-terminated lines from a Buffer, discarding CR, and
// enforces a byte cap against a scratch buffer it reuses across calls.
//
// The line scanner (resetOnSuccess=true) caps each individual line and
// starts counting fresh as soon as one completes. The header scanner
// (resetOnSuccess=false) is given its own cap (MaxHeaderSize rather than
// MaxInitialLineLength) and counts across an entire header block; the decoder resets it explicitly at the start of
// each block (READ_HEADER, READ_CHUNK_FOOTER).
type scanner struct {
	context        string
	cap            int
	scratch        []byte
	size           int
	resetOnSuccess bool
}

func newLineScanner(cap int) *scanner {
	return &scanner{context: "line", cap: cap, resetOnSuccess: true}
}

func newHeaderScanner(cap int) *scanner {
	return &scanner{context: "header", cap: cap, resetOnSuccess: false}
}

func (s *scanner) reset() {
	s.scratch = s.scratch[:0]
	s.size = 0
}

// parse scans buf starting at its read cursor for the next LF. On success
// it advances the cursor past the LF and returns the accumulated line
// with every CR byte dropped; it is only valid until the next call to
// parse or reset. On exhaustion it advances the cursor past everything it
// scanned (so those bytes are not re-read) and returns (nil, nil); the
// next call continues accumulating into scratch where this one left off.
func (s *scanner) parse(buf *Buffer) ([]byte, error) {
	data := buf.Bytes()
	i := buf.ReaderIndex()
	edge := buf.WriterIndex()
	for i < edge {
		b := data[i]
		i++
		if b == '\r' {
			continue
		}
		if b == '\n' {
			buf.SetReaderIndex(i)
			line := s.scratch
			if s.resetOnSuccess {
				s.scratch = nil
				s.size = 0
			} else {
				s.scratch = s.scratch[:0]
			}
			return line, nil
		}
		s.size++
		if s.size > s.cap {
			buf.SetReaderIndex(i)
			return nil, newFrameTooLargeError(s.context, s.cap)
		}
		s.scratch = append(s.scratch, b)
	}
	buf.SetReaderIndex(i)
	return nil, nil
}
