// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hpack

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrConfiguration is the sentinel behind every table-size configuration
// error. It is raised synchronously from a setter; the encoder's state is
// left untouched.
var ErrConfiguration = errors.New("hpack: invalid table size configuration")

// ProtocolError is a connection-level error, parameterised by the stream
// that triggered it. EncodeHeaders returns one when the caller's header
// list exceeds MaxHeaderListSize; at that point no output has been
// produced and the dynamic table has not been mutated.
type ProtocolError struct {
	StreamID uint32
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hpack: protocol error on stream %d: %s", e.StreamID, e.Reason)
}

// newConfigurationError wraps ErrConfiguration with the offending value so
// errors.Cause(err) still recovers the sentinel.
func newConfigurationError(what string, got, min, max uint32) error {
	return errors.Wrapf(ErrConfiguration, "%s=%d out of range [%d,%d]", what, got, min, max)
}
