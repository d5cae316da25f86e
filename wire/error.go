// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "errors"

var (
	// ErrEOF is returned when the usable portion of the input has been
	// consumed.  It covers zero padding in a preallocated blk file, a
	// truncated trailing block, an empty cursor, and any varint or
	// field read that runs past the end of the data.  At block framing
	// level it signals normal termination of the current file.
	ErrEOF = errors.New("clean end of block data")

	// ErrInvalid is returned when the input violates the expected
	// encoding: an unrecognized framing magic, a bad witness flag, or
	// an input or output count too large for the remaining data.
	ErrInvalid = errors.New("invalid block data")
)
