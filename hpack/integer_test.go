// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hpack

import (
	"testing"
)

func TestIntegerRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 10, 126, 127, 128, 255, 256, 1000, 4096, 16383, 16384, 1 << 20, 1<<31 - 1, 1 << 40}
	for n := 1; n <= 8; n++ {
		for _, i := range values {
			out := EncodeInteger(nil, i, n, 0)
			got, consumed, ok := DecodeInteger(out, n)
			if !ok {
				t.Fatalf("N=%d I=%d: decode failed on %x", n, i, out)
			}
			if got != i {
				t.Errorf("N=%d I=%d: round-trip got %d", n, i, got)
			}
			if consumed != len(out) {
				t.Errorf("N=%d I=%d: consumed %d, want %d", n, i, consumed, len(out))
			}
		}
	}
}

func TestIntegerLengthMatchesEncode(t *testing.T) {
	values := []uint64{0, 1, 126, 127, 128, 16383, 16384, 1 << 24, 1<<31 - 1}
	for n := 1; n <= 8; n++ {
		for _, i := range values {
			out := EncodeInteger(nil, i, n, 0)
			if got := IntegerLength(i, n); got != len(out) {
				t.Errorf("N=%d I=%d: IntegerLength=%d, encoded %d bytes", n, i, got, len(out))
			}
		}
	}
}

func TestIntegerFirstByteMask(t *testing.T) {
	out := EncodeInteger(nil, 5, 7, 0x80)
	if out[0] != 0x85 {
		t.Errorf("got %#x, want 0x85", out[0])
	}
	out = EncodeInteger(nil, 127, 7, 0x80) // too big for the 7-bit prefix
	if out[0] != 0xff {
		t.Errorf("got %#x, want 0xff", out[0])
	}
}

func TestDecodeIntegerMalformed(t *testing.T) {
	// A continuation byte with the high bit set but nothing after it.
	_, _, ok := DecodeInteger([]byte{0xff, 0x80}, 7)
	if ok {
		t.Error("expected decode failure on truncated continuation")
	}
}
