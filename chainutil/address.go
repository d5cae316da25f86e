// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address version bytes for the legacy base58check encoding.
const (
	// PubKeyHashAddrID is the version byte of pay-to-pubkey-hash
	// addresses on mainnet.
	PubKeyHashAddrID = 0x00

	// ScriptHashAddrID is the version byte of pay-to-script-hash
	// addresses on mainnet.
	ScriptHashAddrID = 0x05
)

// bech32HRPSegwit is the human-readable prefix of mainnet witness
// addresses.
const bech32HRPSegwit = "bc"

// legacyAddrLen is the length of the canonical byte form of a legacy
// address: one version byte followed by a Hash160.
const legacyAddrLen = 1 + Hash160Size

// Address is the identity of a coin destination recovered from an
// output script.  The zero value is not a valid address.
//
// The canonical form is a short byte string: version byte plus Hash160
// for legacy addresses, or the bech32 encoding itself for witness
// programs.  Equality and map hashing operate on that form alone,
// which makes Address usable directly as a key in the UTXO table and
// the union-find.  Per-output metadata such as taint travels alongside
// the address, never inside it.
type Address struct {
	raw string
}

// NewAddressHash160 returns the legacy address for an already computed
// Hash160 under the given version byte.
func NewAddressHash160(hash Hash160, version byte) Address {
	var buf [legacyAddrLen]byte
	buf[0] = version
	copy(buf[1:], hash[:])
	return Address{raw: string(buf[:])}
}

// NewAddressPubKey returns the legacy address for a serialized public
// key under the given version byte.
func NewAddressPubKey(pubKey []byte, version byte) Address {
	return NewAddressHash160(CalcHash160(pubKey), version)
}

// NewAddressWitness returns the address of a version 0 witness program
// in its bech32 form.  The second return is false when the program
// cannot be encoded.
func NewAddressWitness(program []byte) (Address, bool) {
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return Address{}, false
	}
	combined := make([]byte, len(converted)+1)
	copy(combined[1:], converted)
	encoded, err := bech32.Encode(bech32HRPSegwit, combined)
	if err != nil {
		return Address{}, false
	}
	return Address{raw: encoded}, true
}

// IsZero reports whether a is the zero Address.
func (a Address) IsZero() bool {
	return a.raw == ""
}

// RawBytes returns the canonical byte form.
func (a Address) RawBytes() []byte {
	return []byte(a.raw)
}

// String renders the textual form: base58check with a 4-byte double
// sha256 checksum for legacy addresses, or the stored bech32 string
// for witness programs.
func (a Address) String() string {
	if len(a.raw) == legacyAddrLen {
		return base58.CheckEncode([]byte(a.raw[1:]), a.raw[0])
	}
	return a.raw
}
