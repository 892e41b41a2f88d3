// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package http1 decodes HTTP/1.x request and response traffic from a byte
// stream, one buffer at a time. The decoder is a re-entrant state machine:
// a call that runs out of input returns the events it has completed so
// far, and the next call resumes from exactly where the last one left off.
//
// The package does not open sockets, does not know about TLS, and does not
// route requests; it turns bytes into a sequence of Events (message head,
// body content, trailers, failure) and leaves everything else to the
// embedding pipeline.
package http1
