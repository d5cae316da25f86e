// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Hash160Size is the size of a ripemd160-over-sha256 digest.
const Hash160Size = ripemd160.Size

// Hash160 is a RIPEMD160(SHA256(data)) digest, the payload of legacy
// pay-to-pubkey-hash and pay-to-script-hash addresses.
type Hash160 [Hash160Size]byte

// CalcHash160 computes RIPEMD160(SHA256(data)).
func CalcHash160(data []byte) Hash160 {
	intermediate := sha256.Sum256(data)

	var out Hash160
	h := ripemd160.New()
	h.Write(intermediate[:])
	h.Sum(out[:0])
	return out
}

// NewHash160 copies a 20-byte slice into a Hash160.  The slice must
// hold exactly Hash160Size bytes.
func NewHash160(slice []byte) Hash160 {
	var out Hash160
	copy(out[:], slice)
	return out
}
