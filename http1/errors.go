// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnsupportedChunked is raised when chunkedSupported is false but the
// peer sent Transfer-Encoding: chunked.
var ErrUnsupportedChunked = errors.New("http1: chunked transfer encoding is disabled")

// FrameTooLargeError is raised by a scanner when a line or an accumulated
// header block exceeds its configured cap.
type FrameTooLargeError struct {
	Context string // "line" or "header"
	Cap     int
}

func (e *FrameTooLargeError) Error() string {
	return fmt.Sprintf("http1: %s exceeds %d-byte cap", e.Context, e.Cap)
}

func newFrameTooLargeError(context string, cap int) error {
	return errors.WithStack(&FrameTooLargeError{Context: context, Cap: cap})
}

// InvalidChunkError is raised when a chunk-size line cannot be parsed as a
// hexadecimal integer.
type InvalidChunkError struct {
	Line string
}

func (e *InvalidChunkError) Error() string {
	return fmt.Sprintf("http1: invalid chunk size %q", e.Line)
}

func newInvalidChunkError(line string) error {
	return errors.WithStack(&InvalidChunkError{Line: line})
}

// InvalidMessageError is raised when the initial line or a header block is
// malformed beyond simple recovery (drop-the-line handles the recoverable
// case of a too-short initial line).
type InvalidMessageError struct {
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("http1: invalid message: %s", e.Reason)
}

func newInvalidMessageError(reason string) error {
	return errors.WithStack(&InvalidMessageError{Reason: reason})
}

// PrematureClosureError is surfaced from DecodeLast when the connection
// ended mid-message under framing that required more bytes.
type PrematureClosureError struct {
	Reason string
}

func (e *PrematureClosureError) Error() string {
	return fmt.Sprintf("http1: premature closure: %s", e.Reason)
}

func newPrematureClosureError(reason string) error {
	return errors.WithStack(&PrematureClosureError{Reason: reason})
}
