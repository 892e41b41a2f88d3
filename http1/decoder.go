// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

type state int

const (
	stateSkipCtrl state = iota
	stateReadInitial
	stateReadHeader
	stateReadFixedLen
	stateReadVarLen
	stateReadChunkSize
	stateReadChunkContent
	stateReadChunkDelim
	stateReadChunkFooter
	stateBadMessage
	stateUpgraded
)

// Config holds the decoder's tunable caps and behaviors (§6).
type Config struct {
	MaxInitialLineLength int
	MaxHeaderSize        int
	MaxChunkSize         int
	ChunkedSupported     bool
	ValidateHeaders      bool
	InitialBufferSize    int
}

// DefaultConfig returns the conventional defaults named in §6.
func DefaultConfig() Config {
	return Config{
		MaxInitialLineLength: 4096,
		MaxHeaderSize:        8192,
		MaxChunkSize:         8192,
		ChunkedSupported:     true,
		ValidateHeaders:      true,
		InitialBufferSize:    128,
	}
}

// Decoder incrementally parses HTTP/1.x traffic from a Buffer. It is not
// safe for concurrent use; a given instance belongs to one connection.
type Decoder struct {
	cfg     Config
	factory Factory

	state        state
	resetPending bool

	lineScanner   *scanner
	headerScanner *scanner

	head           *MessageHead
	contentLength  int64 // -1: not computed / no Content-Length seen
	chunkRemaining int64
	chunked        bool
	trailers       []HeaderField
}

// NewDecoder returns a Decoder that builds messages through factory.
func NewDecoder(factory Factory, cfg Config) *Decoder {
	return &Decoder{
		cfg:           cfg,
		factory:       factory,
		state:         stateSkipCtrl,
		lineScanner:   newLineScanner(cfg.MaxInitialLineLength),
		headerScanner: newHeaderScanner(cfg.MaxHeaderSize),
		contentLength: -1,
	}
}

// Reset requests that in-progress message state be discarded. The actual
// reset happens at the next Decode or DecodeLast entry, per §4.6: a
// single-writer/single-reader flag whose effect is deferred so a reset
// arriving concurrently with in-flight parsing cannot emit two
// last-content events for the same message.
func (d *Decoder) Reset() { d.resetPending = true }

// HandleExpectationFailed models the decoder's one userEvent: if a body is
// currently being read (fixed-length, variable-length, or mid chunk-size),
// it flags a reset so a 417-triggering client doesn't have its abandoned
// body misparsed as the next message.
func (d *Decoder) HandleExpectationFailed() {
	switch d.state {
	case stateReadFixedLen, stateReadVarLen, stateReadChunkSize:
		d.resetPending = true
	}
}

func (d *Decoder) doReset() {
	d.head = nil
	d.contentLength = -1
	d.chunkRemaining = 0
	d.chunked = false
	d.trailers = nil
	d.lineScanner.reset()
	d.headerScanner.reset()
}

// Decode consumes as much of buf as it can, appending zero or more Events.
// It returns without error when input runs out mid-state; the next call
// (with more bytes appended to buf) resumes exactly where this one left
// off.
func (d *Decoder) Decode(buf *Buffer) ([]Event, error) {
	if d.resetPending {
		d.doReset()
		d.resetPending = false
		d.state = stateSkipCtrl
	}

	var events []Event
	for {
		switch d.state {
		case stateSkipCtrl:
			if !d.skipCtrl(buf) {
				return events, nil
			}
			d.state = stateReadInitial

		case stateReadInitial:
			ok, err := d.readInitial(buf)
			if err != nil {
				return d.fail(buf, events, err)
			}
			if !ok {
				return events, nil
			}

		case stateReadHeader:
			ok, err := d.readHeader(buf, &events)
			if err != nil {
				if errors.Is(err, ErrUnsupportedChunked) {
					d.state = stateBadMessage
					buf.SetReaderIndex(buf.WriterIndex())
					return events, err
				}
				return d.fail(buf, events, err)
			}
			if !ok {
				return events, nil
			}

		case stateReadFixedLen:
			if !d.readFixedLen(buf, &events) {
				return events, nil
			}

		case stateReadVarLen:
			if !d.readVarLen(buf, &events) {
				return events, nil
			}

		case stateReadChunkSize:
			ok, err := d.readChunkSize(buf)
			if err != nil {
				return d.fail(buf, events, err)
			}
			if !ok {
				return events, nil
			}

		case stateReadChunkContent:
			if !d.readChunkContent(buf, &events) {
				return events, nil
			}

		case stateReadChunkDelim:
			if !d.readChunkDelim(buf) {
				return events, nil
			}

		case stateReadChunkFooter:
			ok, err := d.readChunkFooter(buf, &events)
			if err != nil {
				return d.fail(buf, events, err)
			}
			if !ok {
				return events, nil
			}

		case stateBadMessage:
			buf.SetReaderIndex(buf.WriterIndex())
			return events, nil

		case stateUpgraded:
			if buf.Available() > 0 {
				start, end := buf.ReaderIndex(), buf.WriterIndex()
				buf.SetReaderIndex(end)
				events = append(events, Event{Kind: UpgradedContentEvent, Content: buf.Slice(start, end)})
			}
			return events, nil
		}
	}
}

// fail transitions to BAD_MESSAGE, drains the remainder of buf, and
// appends an invalid-message event stamped with err.
func (d *Decoder) fail(buf *Buffer, events []Event, err error) ([]Event, error) {
	d.state = stateBadMessage
	buf.SetReaderIndex(buf.WriterIndex())
	head := d.head
	if head == nil {
		head = d.factory.NewInvalidHead(err.Error())
	}
	events = append(events, Event{Kind: InvalidMessageEvent, Head: head, Err: err})
	return events, nil
}

// DecodeLast behaves like Decode, then applies the connection-closed rules
// of §4.6 if a message was still in progress.
func (d *Decoder) DecodeLast(buf *Buffer) ([]Event, error) {
	events, err := d.Decode(buf)
	if err != nil {
		return events, err
	}
	if !d.messageInProgress() {
		return events, nil
	}

	switch d.state {
	case stateReadVarLen:
		if buf.Available() == 0 {
			events = append(events, Event{Kind: LastContentEvent})
			d.doReset()
			d.state = stateSkipCtrl
		}
	case stateReadHeader:
		events = append(events, Event{
			Kind: InvalidMessageEvent,
			Head: d.head,
			Err:  newInvalidMessageError("connection closed before headers"),
		})
		d.doReset()
		d.state = stateSkipCtrl
	default:
		premature := d.factory.IsDecodingRequest() || d.chunked || d.contentLength > 0
		if premature {
			events = append(events, Event{
				Kind: InvalidMessageEvent,
				Head: d.head,
				Err:  newPrematureClosureError("connection closed before the declared body length was reached"),
			})
		} else {
			events = append(events, Event{Kind: LastContentEvent})
		}
		d.doReset()
		d.state = stateSkipCtrl
	}
	return events, nil
}

func (d *Decoder) messageInProgress() bool {
	switch d.state {
	case stateReadHeader, stateReadFixedLen, stateReadVarLen,
		stateReadChunkSize, stateReadChunkContent, stateReadChunkDelim, stateReadChunkFooter:
		return true
	}
	return false
}

// skipCtrl advances past leading ISO control characters and whitespace. It
// returns true once it finds a non-skippable byte (left unconsumed, for
// READ_INITIAL to see) and false if the buffer runs out first.
func (d *Decoder) skipCtrl(buf *Buffer) bool {
	data := buf.Bytes()
	i := buf.ReaderIndex()
	edge := buf.WriterIndex()
	for i < edge {
		b := data[i]
		if !(b <= 0x20 || (b >= 0x7f && b <= 0x9f)) {
			buf.SetReaderIndex(i)
			return true
		}
		i++
	}
	buf.SetReaderIndex(i)
	return false
}

func (d *Decoder) readInitial(buf *Buffer) (bool, error) {
	line, err := d.lineScanner.parse(buf)
	if err != nil {
		return false, err
	}
	if line == nil {
		return false, nil
	}
	fields := splitThreeFields(line)
	if len(fields) < 3 {
		d.state = stateSkipCtrl
		return true, nil
	}
	d.head = d.factory.NewHead(fields[0], fields[1], fields[2])
	d.headerScanner.reset()
	d.state = stateReadHeader
	return true, nil
}

func (d *Decoder) readHeader(buf *Buffer, events *[]Event) (bool, error) {
	for {
		line, err := d.headerScanner.parse(buf)
		if err != nil {
			return false, err
		}
		if line == nil {
			return false, nil
		}
		if len(line) == 0 {
			if err := d.finishHeaders(events); err != nil {
				return false, err
			}
			return true, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			if err := appendContinuation(&d.head.Headers, line); err != nil {
				return false, err
			}
			continue
		}
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return false, newInvalidMessageError("malformed header line")
		}
		if d.cfg.ValidateHeaders {
			if !httpguts.ValidHeaderFieldName(name) {
				return false, newInvalidMessageError("invalid header name " + name)
			}
			if !httpguts.ValidHeaderFieldValue(value) {
				return false, newInvalidMessageError("invalid header value for " + name)
			}
		}
		d.head.Headers = append(d.head.Headers, HeaderField{Name: name, Value: value})
	}
}

// finishHeaders decides the body framing once the header block is
// complete and emits the message-head event (and, for bodyless messages,
// the terminating last-content event too).
func (d *Decoder) finishHeaders(events *[]Event) error {
	head := d.head
	detectUpgrade(head, d.factory.IsDecodingRequest())

	if d.factory.IsContentAlwaysEmpty(head) {
		*events = append(*events, Event{Kind: MessageHeadEvent, Head: head})
		*events = append(*events, Event{Kind: LastContentEvent})
		d.doReset()
		d.state = stateSkipCtrl
		return nil
	}

	if head.Upgrade {
		*events = append(*events, Event{Kind: MessageHeadEvent, Head: head})
		d.state = stateUpgraded
		return nil
	}

	if isChunked(head) {
		if !d.cfg.ChunkedSupported {
			return ErrUnsupportedChunked
		}
		*events = append(*events, Event{Kind: MessageHeadEvent, Head: head})
		d.chunked = true
		d.headerScanner.reset()
		d.state = stateReadChunkSize
		return nil
	}

	length, ok := contentLength(head)
	if !ok {
		return newInvalidMessageError("invalid Content-Length")
	}
	d.contentLength = length

	if length == 0 || (length < 0 && d.factory.IsDecodingRequest()) {
		*events = append(*events, Event{Kind: MessageHeadEvent, Head: head})
		*events = append(*events, Event{Kind: LastContentEvent})
		d.doReset()
		d.state = stateSkipCtrl
		return nil
	}

	*events = append(*events, Event{Kind: MessageHeadEvent, Head: head})
	if length >= 0 {
		d.chunkRemaining = length
		d.state = stateReadFixedLen
	} else {
		d.state = stateReadVarLen
	}
	return nil
}

func (d *Decoder) readFixedLen(buf *Buffer, events *[]Event) bool {
	n := buf.Available()
	if n == 0 {
		return false
	}
	if n > d.cfg.MaxChunkSize {
		n = d.cfg.MaxChunkSize
	}
	if int64(n) > d.chunkRemaining {
		n = int(d.chunkRemaining)
	}
	start := buf.ReaderIndex()
	end := start + n
	buf.SetReaderIndex(end)
	content := buf.Slice(start, end)
	d.chunkRemaining -= int64(n)
	if d.chunkRemaining == 0 {
		*events = append(*events, Event{Kind: LastContentEvent, Content: content})
		d.doReset()
		d.state = stateSkipCtrl
	} else {
		*events = append(*events, Event{Kind: ContentEvent, Content: content})
	}
	return true
}

func (d *Decoder) readVarLen(buf *Buffer, events *[]Event) bool {
	n := buf.Available()
	if n == 0 {
		return false
	}
	if n > d.cfg.MaxChunkSize {
		n = d.cfg.MaxChunkSize
	}
	start := buf.ReaderIndex()
	end := start + n
	buf.SetReaderIndex(end)
	*events = append(*events, Event{Kind: ContentEvent, Content: buf.Slice(start, end)})
	return true
}

func (d *Decoder) readChunkSize(buf *Buffer) (bool, error) {
	line, err := d.lineScanner.parse(buf)
	if err != nil {
		return false, err
	}
	if line == nil {
		return false, nil
	}
	size, ok := parseChunkSize(line)
	if !ok {
		return false, newInvalidChunkError(string(line))
	}
	if size == 0 {
		d.headerScanner.reset()
		d.state = stateReadChunkFooter
		return true, nil
	}
	d.chunkRemaining = size
	d.state = stateReadChunkContent
	return true, nil
}

func (d *Decoder) readChunkContent(buf *Buffer, events *[]Event) bool {
	n := buf.Available()
	if n == 0 {
		return false
	}
	if n > d.cfg.MaxChunkSize {
		n = d.cfg.MaxChunkSize
	}
	if int64(n) > d.chunkRemaining {
		n = int(d.chunkRemaining)
	}
	start := buf.ReaderIndex()
	end := start + n
	buf.SetReaderIndex(end)
	*events = append(*events, Event{Kind: ContentEvent, Content: buf.Slice(start, end)})
	d.chunkRemaining -= int64(n)
	if d.chunkRemaining == 0 {
		d.state = stateReadChunkDelim
	}
	return true
}

func (d *Decoder) readChunkDelim(buf *Buffer) bool {
	data := buf.Bytes()
	i := buf.ReaderIndex()
	edge := buf.WriterIndex()
	for i < edge {
		b := data[i]
		i++
		if b == '\n' {
			buf.SetReaderIndex(i)
			d.state = stateReadChunkSize
			return true
		}
	}
	buf.SetReaderIndex(i)
	return false
}

func (d *Decoder) readChunkFooter(buf *Buffer, events *[]Event) (bool, error) {
	for {
		line, err := d.headerScanner.parse(buf)
		if err != nil {
			return false, err
		}
		if line == nil {
			return false, nil
		}
		if len(line) == 0 {
			*events = append(*events, Event{Kind: LastContentEvent, Trailers: d.trailers})
			d.doReset()
			d.state = stateSkipCtrl
			return true, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			if err := appendContinuation(&d.trailers, line); err != nil {
				return false, err
			}
			continue
		}
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return false, newInvalidMessageError("malformed trailer line")
		}
		if isForbiddenTrailer(name) {
			continue
		}
		d.trailers = append(d.trailers, HeaderField{Name: name, Value: value})
	}
}

func isForbiddenTrailer(name string) bool {
	return name == "content-length" || name == "transfer-encoding" || name == "trailer"
}

// appendContinuation folds a header-continuation line into the value of
// the most recently appended field, trimming OWS and joining with a
// single space (§4.6).
func appendContinuation(fields *[]HeaderField, line []byte) error {
	if len(*fields) == 0 {
		return newInvalidMessageError("header continuation without a preceding header")
	}
	cont := string(trimOWS(line))
	last := &(*fields)[len(*fields)-1]
	if cont != "" {
		last.Value = last.Value + " " + cont
	}
	return nil
}

func trimOWS(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	for j > i && (b[j-1] == ' ' || b[j-1] == '\t') {
		j--
	}
	return b[i:j]
}

// splitHeaderLine splits line at the first colon, per §4.6: the name runs
// up to the first colon or whitespace byte (so "Foo : bar" does not admit
// a name containing a trailing space), and the value is whatever follows
// the colon, trimmed of OWS.
func splitHeaderLine(line []byte) (name, value string, ok bool) {
	i := 0
	for i < len(line) {
		b := line[i]
		if b == ':' || b == ' ' || b == '\t' {
			break
		}
		i++
	}
	if i == 0 {
		return "", "", false
	}
	nameEnd := i
	for i < len(line) && line[i] != ':' {
		i++
	}
	if i >= len(line) {
		return "", "", false
	}
	name = strings.ToLower(string(line[:nameEnd]))
	value = string(trimOWS(line[i+1:]))
	return name, value, true
}

// splitThreeFields splits an initial line into (first, second, rest) on
// runs of SP/HTAB, matching the request-line and status-line grammars.
func splitThreeFields(line []byte) []string {
	n := len(line)
	i := 0
	skipSpace := func() {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
	}
	skipSpace()
	start := i
	for i < n && line[i] != ' ' && line[i] != '\t' {
		i++
	}
	if i == start {
		return nil
	}
	first := string(line[start:i])

	skipSpace()
	start = i
	for i < n && line[i] != ' ' && line[i] != '\t' {
		i++
	}
	if i == start {
		return []string{first}
	}
	second := string(line[start:i])

	skipSpace()
	if i >= n {
		return []string{first, second}
	}
	return []string{first, second, string(line[i:])}
}

func parseChunkSize(line []byte) (int64, bool) {
	end := 0
	for end < len(line) {
		b := line[end]
		if b == ';' || b <= 0x20 {
			break
		}
		end++
	}
	if end == 0 {
		return 0, false
	}
	var v int64
	for i := 0; i < end; i++ {
		var digit int64
		switch b := line[i]; {
		case b >= '0' && b <= '9':
			digit = int64(b - '0')
		case b >= 'a' && b <= 'f':
			digit = int64(b-'a') + 10
		case b >= 'A' && b <= 'F':
			digit = int64(b-'A') + 10
		default:
			return 0, false
		}
		v = v*16 + digit
		if v < 0 {
			return 0, false
		}
	}
	return v, true
}

func contentLength(head *MessageHead) (int64, bool) {
	raw, found := headerValue(head.Headers, "content-length")
	if !found {
		return -1, true
	}
	if raw == "" {
		return 0, false
	}
	var v int64
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b < '0' || b > '9' {
			return 0, false
		}
		v = v*10 + int64(b-'0')
		if v < 0 {
			return 0, false
		}
	}
	return v, true
}

// headerValue returns the last occurrence of name (already lower-cased by
// splitHeaderLine), matching how repeated headers are conventionally
// collapsed.
func headerValue(headers []HeaderField, name string) (string, bool) {
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i].Name == name {
			return headers[i].Value, true
		}
	}
	return "", false
}

func hasToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

func detectUpgrade(head *MessageHead, isRequest bool) {
	if isRequest {
		conn, ok := headerValue(head.Headers, "connection")
		if !ok || !hasToken(conn, "upgrade") {
			return
		}
		if _, ok := headerValue(head.Headers, "upgrade"); ok {
			head.Upgrade = true
		}
		return
	}
	if head.Second == "101" {
		head.Upgrade = true
	}
}

func isChunked(head *MessageHead) bool {
	te, ok := headerValue(head.Headers, "transfer-encoding")
	if !ok {
		return false
	}
	return hasToken(te, "chunked")
}
