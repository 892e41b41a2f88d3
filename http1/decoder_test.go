// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, dec *Decoder, buf *Buffer, data []byte) []Event {
	t.Helper()
	buf.Write(data)
	events, err := dec.Decode(buf)
	require.NoError(t, err)
	return events
}

func TestDecodeChunkedBodyOneShot(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	input := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n"

	events := collect(t, dec, buf, []byte(input))
	require.Len(t, events, 3)

	require.Equal(t, MessageHeadEvent, events[0].Kind)
	assert.Equal(t, "POST", events[0].Head.First)
	assert.Equal(t, "/", events[0].Head.Second)
	assert.Equal(t, "HTTP/1.1", events[0].Head.Third)

	require.Equal(t, ContentEvent, events[1].Kind)
	assert.Equal(t, "hello", string(events[1].Content))

	require.Equal(t, LastContentEvent, events[2].Kind)
	assert.Empty(t, events[2].Content)
	assert.Empty(t, events[2].Trailers)
}

// coalesceContent merges consecutive ContentEvent/LastContentEvent runs into
// one logical event, concatenating their bytes. A decoder fed its input in
// smaller pieces is free to split a body across more calls (and therefore
// more events) than one fed the whole thing at once; what must stay
// invariant across any split is the concatenated byte stream and the
// relative order of the non-content events, not the exact event count.
func coalesceContent(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if (e.Kind == ContentEvent || e.Kind == LastContentEvent) && len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Kind == ContentEvent || prev.Kind == LastContentEvent {
				prev.Kind = e.Kind
				prev.Content = append(append([]byte{}, prev.Content...), e.Content...)
				prev.Trailers = e.Trailers
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func TestDecodeChunkedBodyByteByByteResume(t *testing.T) {
	input := []byte("POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n")

	oneShotDec := NewDecoder(RequestFactory{}, DefaultConfig())
	oneShotBuf := NewBuffer(64)
	oneShotBuf.Write(input)
	wantEvents, err := oneShotDec.Decode(oneShotBuf)
	require.NoError(t, err)
	wantEvents = coalesceContent(wantEvents)

	resumeDec := NewDecoder(RequestFactory{}, DefaultConfig())
	resumeBuf := NewBuffer(64)
	var gotEvents []Event
	prevReaderIndex := 0
	for _, b := range input {
		resumeBuf.Write([]byte{b})
		events, err := resumeDec.Decode(resumeBuf)
		require.NoError(t, err)
		require.GreaterOrEqual(t, resumeBuf.ReaderIndex(), prevReaderIndex, "reader index must advance monotonically")
		prevReaderIndex = resumeBuf.ReaderIndex()
		gotEvents = append(gotEvents, events...)
	}
	gotEvents = coalesceContent(gotEvents)

	require.Len(t, gotEvents, len(wantEvents))
	for i := range wantEvents {
		assert.Equal(t, wantEvents[i].Kind, gotEvents[i].Kind)
		assert.Equal(t, string(wantEvents[i].Content), string(gotEvents[i].Content))
		if wantEvents[i].Head != nil {
			require.NotNil(t, gotEvents[i].Head)
			assert.Equal(t, wantEvents[i].Head.First, gotEvents[i].Head.First)
			assert.Equal(t, wantEvents[i].Head.Second, gotEvents[i].Head.Second)
			assert.Equal(t, wantEvents[i].Head.Third, gotEvents[i].Head.Third)
		}
	}
}

func TestDecodeRequestWithoutContentLengthHasEmptyBody(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	events := collect(t, dec, buf, []byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))

	require.Len(t, events, 2)
	assert.Equal(t, MessageHeadEvent, events[0].Kind)
	assert.Equal(t, LastContentEvent, events[1].Kind)
	assert.Empty(t, events[1].Content)
}

func TestDecodeFixedLengthBody(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	events := collect(t, dec, buf, []byte("POST /submit HTTP/1.1\r\nContent-Length: 4\r\n\r\nabcd"))

	require.Len(t, events, 2)
	assert.Equal(t, MessageHeadEvent, events[0].Kind)
	require.Equal(t, LastContentEvent, events[1].Kind)
	assert.Equal(t, "abcd", string(events[1].Content))
}

func TestDecodeResponse204HasAlwaysEmptyBody(t *testing.T) {
	dec := NewDecoder(ResponseFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	// A 204 must not carry a body even though Content-Length claims one.
	events := collect(t, dec, buf, []byte("HTTP/1.1 204 No Content\r\nContent-Length: 10\r\n\r\n"))

	require.Len(t, events, 2)
	assert.Equal(t, MessageHeadEvent, events[0].Kind)
	assert.Equal(t, LastContentEvent, events[1].Kind)
	assert.Empty(t, events[1].Content)
}

func TestDecodeChunkedTrailers(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	input := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n0\r\nX-Trailer: value\r\nContent-Length: 99\r\n\r\n"
	events := collect(t, dec, buf, []byte(input))

	require.Len(t, events, 3)
	last := events[2]
	require.Equal(t, LastContentEvent, last.Kind)
	require.Len(t, last.Trailers, 1, "Content-Length must be discarded as a forbidden trailer")
	assert.Equal(t, "x-trailer", last.Trailers[0].Name)
	assert.Equal(t, "value", last.Trailers[0].Value)
}

func TestDecodeHeaderContinuation(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	input := "GET / HTTP/1.1\r\nX-Long: first\r\n second\r\n\r\n"
	events := collect(t, dec, buf, []byte(input))

	require.Len(t, events, 2)
	head := events[0].Head
	require.Len(t, head.Headers, 1)
	assert.Equal(t, "first second", head.Headers[0].Value)
}

func TestDecodeUpgradeRequestSwitchesProtocol(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	input := "GET /ws HTTP/1.1\r\nConnection: Upgrade\r\nUpgrade: websocket\r\n\r\n" + "opaque-bytes-follow"
	events := collect(t, dec, buf, []byte(input))

	require.GreaterOrEqual(t, len(events), 2)
	assert.True(t, events[0].Head.Upgrade)
	last := events[len(events)-1]
	assert.Equal(t, UpgradedContentEvent, last.Kind)
	assert.Equal(t, "opaque-bytes-follow", string(last.Content))
}

func TestDecodeInvalidHeaderNameTransitionsToBadMessage(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	events := collect(t, dec, buf, []byte("GET / HTTP/1.1\r\nbad@name: v\r\n\r\n"))

	require.Len(t, events, 1)
	assert.Equal(t, InvalidMessageEvent, events[0].Kind)
	assert.Error(t, events[0].Err)

	// Subsequent bytes on the same connection are drained, not parsed.
	buf.Write([]byte("garbage that looks like another request\r\n\r\n"))
	events, err := dec.Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecodeLastEmitsEmptyLastContentForVarLenResponse(t *testing.T) {
	dec := NewDecoder(ResponseFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	buf.Write([]byte("HTTP/1.1 200 OK\r\n\r\nsome trailing body bytes"))
	_, err := dec.Decode(buf)
	require.NoError(t, err)

	events, err := dec.DecodeLast(buf)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, LastContentEvent, last.Kind)
}

func TestDecodeLastReportsPrematureClosureDuringFixedLenBody(t *testing.T) {
	dec := NewDecoder(RequestFactory{}, DefaultConfig())
	buf := NewBuffer(64)
	buf.Write([]byte("POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\nshort"))
	_, err := dec.Decode(buf)
	require.NoError(t, err)

	events, err := dec.DecodeLast(buf)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, InvalidMessageEvent, events[0].Kind)
	var prematureErr *PrematureClosureError
	assert.ErrorAs(t, events[0].Err, &prematureErr, "a declared-length body cut short must surface as a premature closure, not a clean end")
}

func TestDecodeUnsupportedChunkedIsAnArgumentError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkedSupported = false
	dec := NewDecoder(RequestFactory{}, cfg)
	buf := NewBuffer(64)
	buf.Write([]byte("POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n"))

	events, err := dec.Decode(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedChunked)
	assert.Empty(t, events, "a disabled-chunked failure preempts the message-head emission")
}
