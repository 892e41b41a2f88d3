// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

// HeaderField is a single decoded (name, value) pair. Name is always
// lower-cased; value is trimmed of leading/trailing optional whitespace.
type HeaderField struct {
	Name  string
	Value string
}

// MessageHead is the parsed initial line plus headers, handed to the
// embedding pipeline via the Factory. Which of First/Second/Third
// is the method, target, version, status code, or reason phrase depends
// entirely on whether the factory is decoding a request or a response;
// the core does not interpret them beyond splitting on whitespace.
type MessageHead struct {
	First   string // request: method. response: HTTP-version.
	Second  string // request: request-target. response: status-code.
	Third   string // request: HTTP-version. response: reason-phrase.
	Headers []HeaderField

	// Upgrade is true when this head signals a protocol switch (a
	// request with Connection: upgrade and a matching Upgrade header,
	// or a 101 response). The decoder enters UPGRADED immediately
	// after emitting this head.
	Upgrade bool
}

// Factory builds concrete message objects from a parsed initial line. The
// decoder is otherwise agnostic to whatever request/response type the
// embedding pipeline actually uses.
type Factory interface {
	// IsDecodingRequest reports whether this decoder instance parses
	// requests (true) or responses (false); it governs the "always
	// empty" and premature-closure rules of §4.6/§7.
	IsDecodingRequest() bool

	// NewHead is invoked once the three whitespace-delimited fields of
	// the initial line have been extracted.
	NewHead(first, second, third string) *MessageHead

	// IsContentAlwaysEmpty reports whether, given the now-fully-headed
	// message, a body must not be expected regardless of
	// Content-Length or Transfer-Encoding (1xx except 101, 204, 304).
	IsContentAlwaysEmpty(head *MessageHead) bool

	// NewInvalidHead builds a placeholder head for an InvalidMessageEvent
	// raised before any head existed yet (e.g. a malformed initial
	// line), so the event always carries a non-nil Head.
	NewInvalidHead(reason string) *MessageHead
}

// Kind identifies the shape of an Event.
type Kind int

const (
	// MessageHeadEvent carries a freshly parsed initial line and
	// header block.
	MessageHeadEvent Kind = iota
	// ContentEvent carries a non-terminal slice of body bytes.
	ContentEvent
	// LastContentEvent carries the final slice of body bytes (possibly
	// empty) and any trailers; it always ends a message.
	LastContentEvent
	// InvalidMessageEvent reports a parse failure or a connection that
	// closed mid-message. After a parse failure in Decode the decoder
	// has moved to BAD_MESSAGE; after DecodeLast it has been reset.
	InvalidMessageEvent
	// UpgradedContentEvent carries opaque bytes once the connection has
	// switched protocols; nothing beyond raw passthrough is attempted.
	UpgradedContentEvent
)

// Event is one unit of decoder output. Content is a retained slice of the
// Buffer passed into Decode/DecodeLast; callers that need the bytes to
// outlive the buffer's next Compact must copy them.
type Event struct {
	Kind     Kind
	Head     *MessageHead
	Content  []byte
	Trailers []HeaderField
	Err      error
}
