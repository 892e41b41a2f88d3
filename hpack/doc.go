// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hpack implements an RFC 7541 HPACK encoder: variable-length
// prefix integers, the static Huffman code of Appendix B, a bounded
// dynamic table with chained hashing, and the encoder policy that picks
// between indexed and literal representations.
//
// Decoding is not implemented — this package only ever needs to produce
// HPACK, never consume it. The one exception is DecodeInteger, kept
// alongside EncodeInteger because the round-trip property is how the
// integer codec is tested. Package http1's chunk-size parser is a separate,
// hand-rolled hex parse; it does not call DecodeInteger.
package hpack
