// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package http1

// RequestFactory is a minimal Factory for decoding requests. It keeps
// First/Second/Third as method/target/version and never treats a
// request's body as always-empty (the "always empty" rule in §4.6 only
// ever fires for responses).
type RequestFactory struct{}

func (RequestFactory) IsDecodingRequest() bool { return true }

func (RequestFactory) NewHead(first, second, third string) *MessageHead {
	return &MessageHead{First: first, Second: second, Third: third}
}

func (RequestFactory) IsContentAlwaysEmpty(head *MessageHead) bool { return false }

func (RequestFactory) NewInvalidHead(reason string) *MessageHead {
	return &MessageHead{Third: reason}
}

// ResponseFactory is a minimal Factory for decoding responses. Second
// holds the status code as decimal text; First holds the HTTP version.
type ResponseFactory struct{}

func (ResponseFactory) IsDecodingRequest() bool { return false }

func (ResponseFactory) NewHead(first, second, third string) *MessageHead {
	return &MessageHead{First: first, Second: second, Third: third}
}

// IsContentAlwaysEmpty implements the §4.6 rule: true for any 1xx status
// except 101 Switching Protocols, for 204 No Content, and for 304 Not
// Modified.
func (ResponseFactory) IsContentAlwaysEmpty(head *MessageHead) bool {
	code := head.Second
	if len(code) == 3 && code[0] == '1' && code != "101" {
		return true
	}
	return code == "204" || code == "304"
}

func (ResponseFactory) NewInvalidHead(reason string) *MessageHead {
	return &MessageHead{Third: reason}
}
