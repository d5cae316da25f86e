// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the on-disk bitcoin block format.

Unlike a network-facing wire implementation, this package decodes the
framed block stream found in the blk*.dat files written by a full node.
Every decoder operates over a Reader cursor positioned on a read-only
memory-mapped byte slice and returns sub-slices of that mapping rather
than copies, so decoded blocks, scripts, and hashes remain valid only
for as long as the underlying mapping is held open.

# Errors

Decoders distinguish exactly two failure modes.  ErrEOF reports a clean
end of usable data: zero padding at the tail of a preallocated file, a
truncated trailing block, or simply no bytes left.  ErrInvalid reports a
framing or encoding violation.  Callers are expected to test with
errors.Is.
*/
package wire
