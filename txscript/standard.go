// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"

	"github.com/flokiorg/chainsift/chainutil"
)

// ErrMalformedScript is reported by the tokenizer when a script cannot
// be decoded: a push runs past the end of the script or a disabled
// opcode appears.
var ErrMalformedScript = errors.New("malformed script")

// Script template activation gates.  Templates introduced by soft fork
// are only recognized in blocks timestamped at or after activation;
// before that the same bytes were spendable by anyone and carry no
// address.
const (
	// Bip16Activation is the pay-to-script-hash activation time,
	// 1 Apr 2012.
	Bip16Activation uint32 = 1333238400

	// Bip141Activation is the segregated witness activation time,
	// 24 Aug 2017.
	Bip141Activation uint32 = 1503539857
)

// ScriptClass is the template an output script was recognized as.
type ScriptClass byte

const (
	// NonStandardTy is a well-formed script matching no known
	// address-bearing template.
	NonStandardTy ScriptClass = iota

	// PubKeyTy is a bare public key followed by OP_CHECKSIG.
	PubKeyTy

	// PubKeyHashTy is the classic pay-to-pubkey-hash template.
	PubKeyHashTy

	// ScriptHashTy is the pay-to-script-hash template.
	ScriptHashTy

	// MultiSigTy is a bare m-of-n multisig template.
	MultiSigTy

	// WitnessV0PubKeyHashTy is a version 0 witness program with a
	// 20-byte key hash.
	WitnessV0PubKeyHashTy

	// WitnessV0ScriptHashTy is a version 0 witness program with a
	// 32-byte script hash.
	WitnessV0ScriptHashTy

	// InvalidTy is a structurally broken script: unbalanced
	// conditionals, disabled opcodes, or a top-level opcode that can
	// never verify.
	InvalidTy
)

// scriptClassToName houses the human-readable strings for the script
// classes.
var scriptClassToName = []string{
	NonStandardTy:         "nonstandard",
	PubKeyTy:              "pubkey",
	PubKeyHashTy:          "pubkeyhash",
	ScriptHashTy:          "scripthash",
	MultiSigTy:            "multisig",
	WitnessV0PubKeyHashTy: "witness_v0_keyhash",
	WitnessV0ScriptHashTy: "witness_v0_scripthash",
	InvalidTy:             "invalid",
}

// String implements the Stringer interface.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "invalidtype"
	}
	return scriptClassToName[t]
}

// ExtractAddrs classifies pkScript against the standard templates in
// the context of the containing block's timestamp and returns the
// derived addresses.
//
// PubKeyHashTy, PubKeyTy, and witness templates yield one address.
// MultiSigTy yields one pay-to-pubkey-hash address per listed public
// key.  NonStandardTy and InvalidTy yield none.
func ExtractAddrs(pkScript []byte, timestamp uint32) (ScriptClass, []chainutil.Address) {
	script := stripScriptPrefix(pkScript)

	switch len(script) {
	case 22:
		// Version 0 witness program, 20-byte key hash.
		if timestamp >= Bip141Activation &&
			script[0] == OP_0 && script[1] == 0x14 {

			addr, ok := chainutil.NewAddressWitness(script[2:22])
			if !ok {
				return InvalidTy, nil
			}
			return WitnessV0PubKeyHashTy, []chainutil.Address{addr}
		}

	case 23:
		// OP_HASH160 <20 bytes> OP_EQUAL, gated on BIP16 activation.
		if timestamp >= Bip16Activation &&
			script[0] == OP_HASH160 && script[1] == 0x14 &&
			script[22] == OP_EQUAL {

			addr := chainutil.NewAddressHash160(
				chainutil.NewHash160(script[2:22]),
				chainutil.ScriptHashAddrID)
			return ScriptHashTy, []chainutil.Address{addr}
		}

	case 25, 26:
		// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG,
		// optionally carrying a historical trailing OP_NOP.
		if script[0] == OP_DUP && script[1] == OP_HASH160 &&
			script[2] == 0x14 && script[23] == OP_EQUALVERIFY &&
			script[24] == OP_CHECKSIG &&
			(len(script) == 25 || script[25] == OP_NOP) {

			addr := chainutil.NewAddressHash160(
				chainutil.NewHash160(script[3:23]),
				chainutil.PubKeyHashAddrID)
			return PubKeyHashTy, []chainutil.Address{addr}
		}

	case 34:
		// Version 0 witness program, 32-byte script hash.
		if timestamp >= Bip141Activation &&
			script[0] == OP_0 && script[1] == 0x20 {

			addr, ok := chainutil.NewAddressWitness(script[2:34])
			if !ok {
				return InvalidTy, nil
			}
			return WitnessV0ScriptHashTy, []chainutil.Address{addr}
		}

	case 35:
		// <33-byte compressed pubkey> OP_CHECKSIG.
		if script[0] == 33 && script[34] == OP_CHECKSIG {
			pubKey := script[1:34]
			if !isPubKeyEncoding(pubKey) {
				return InvalidTy, nil
			}
			addr := chainutil.NewAddressPubKey(pubKey, chainutil.PubKeyHashAddrID)
			return PubKeyTy, []chainutil.Address{addr}
		}

	case 67:
		// <65-byte uncompressed pubkey> OP_CHECKSIG.
		if script[0] == 65 && script[66] == OP_CHECKSIG {
			pubKey := script[1:66]
			if !isPubKeyEncoding(pubKey) {
				return InvalidTy, nil
			}
			addr := chainutil.NewAddressPubKey(pubKey, chainutil.PubKeyHashAddrID)
			return PubKeyTy, []chainutil.Address{addr}
		}
	}

	if class, addrs, ok := parseMultiSig(script); ok {
		return class, addrs
	}

	return scanScript(script), nil
}

// stripScriptPrefix removes the idempotent prefix of a script: bare
// no-ops, push-then-drop and dup-then-drop pairs, and the standalone
// OP_DROP, OP_MIN, OP_CHECKSIG, and OP_CHECKMULTISIG opcodes seen at
// the front of otherwise standard historical scripts.
func stripScriptPrefix(script []byte) []byte {
	rest := script
	for {
		for len(rest) > 0 &&
			(rest[0] == OP_NOP || (rest[0] >= OP_NOP1 && rest[0] <= OP_NOP10)) {
			rest = rest[1:]
		}

		t := makeTokenizer(rest)
		if !t.Next() {
			return rest
		}

		switch {
		case t.Kind() == tokenPush,
			t.Kind() == tokenOp && t.Opcode() == OP_DUP:
			// Only a following OP_DROP makes the pair a no-op.
			if t.Next() && t.Kind() == tokenOp && t.Opcode() == OP_DROP {
				rest = rest[t.offset:]
				continue
			}
			return rest

		case t.Kind() == tokenOp:
			switch t.Opcode() {
			case OP_DROP, OP_MIN, OP_CHECKSIG, OP_CHECKMULTISIG:
				rest = rest[t.offset:]
				continue
			}
			return rest

		default:
			return rest
		}
	}
}

// parseMultiSig attempts to match <m> <pubkey>... <n> OP_CHECKMULTISIG
// covering the whole script.  ok is false when the script is not a
// multisig template at all, in which case classification falls through
// to the structural scan.  A template whose m exceeds the number of
// validly encoded keys classifies as InvalidTy.
func parseMultiSig(script []byte) (ScriptClass, []chainutil.Address, bool) {
	t := makeTokenizer(script)

	if !t.Next() || t.Kind() != tokenPush {
		return 0, nil, false
	}
	m, ok := pushedInt(t.Data())
	if !ok {
		return 0, nil, false
	}

	var pushes [][]byte
	for {
		if !t.Next() {
			return 0, nil, false
		}
		if t.Kind() == tokenPush {
			pushes = append(pushes, t.Data())
			continue
		}
		if t.Kind() == tokenOp && t.Opcode() == OP_CHECKMULTISIG {
			break
		}
		return 0, nil, false
	}
	if !t.Done() || len(pushes) == 0 {
		return 0, nil, false
	}

	n, ok := pushedInt(pushes[len(pushes)-1])
	if !ok {
		return 0, nil, false
	}
	pubKeys := pushes[:len(pushes)-1]
	if uint64(n) != uint64(len(pubKeys)) {
		return 0, nil, false
	}

	valid := 0
	for _, pubKey := range pubKeys {
		if isPubKeyEncoding(pubKey) {
			valid++
		}
	}
	if uint64(m) > uint64(valid) {
		return InvalidTy, nil, true
	}

	addrs := make([]chainutil.Address, 0, len(pubKeys))
	for _, pubKey := range pubKeys {
		addrs = append(addrs, chainutil.NewAddressPubKey(
			pubKey, chainutil.PubKeyHashAddrID))
	}
	return MultiSigTy, addrs, true
}

// scanScript walks the bytecode of a non-template script checking the
// structure: OP_IF/OP_NOTIF nesting must balance, and the opcodes that
// can never verify at the top level (OP_RETURN, a dangling OP_ELSE or
// OP_ENDIF, OP_VER, and the reserved opcodes) invalidate the script.
func scanScript(script []byte) ScriptClass {
	t := makeTokenizer(script)

	nest := 0
	for t.Next() {
		switch t.Kind() {
		case tokenInvalid:
			if nest == 0 {
				return InvalidTy
			}

		case tokenOp:
			switch t.Opcode() {
			case OP_ELSE, OP_RETURN, OP_VER:
				if nest == 0 {
					return InvalidTy
				}
			case OP_ENDIF:
				if nest == 0 {
					return InvalidTy
				}
				nest--
			case OP_IF, OP_NOTIF:
				nest++
			}
		}
	}
	if t.Err() != nil || nest != 0 {
		return InvalidTy
	}
	return NonStandardTy
}

// isPubKeyEncoding reports whether pubKey is a validly framed
// secp256k1 public key: a compressed key with an 0x02 or 0x03 prefix
// and 33 bytes, or an uncompressed key with an 0x04 prefix and 65
// bytes.
func isPubKeyEncoding(pubKey []byte) bool {
	if len(pubKey) == 0 {
		return false
	}
	switch pubKey[0] {
	case 0x02, 0x03:
		return len(pubKey) == 33
	case 0x04:
		return len(pubKey) == 65
	}
	return false
}
