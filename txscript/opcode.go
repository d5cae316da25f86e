// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// Opcode byte values referenced by the template matcher and the
// structural scanner.  Only the opcodes the matcher must tell apart
// are named; everything else is handled by category in the tokenizer.
const (
	OP_0              = 0x00
	OP_PUSHDATA1      = 0x4c
	OP_PUSHDATA2      = 0x4d
	OP_PUSHDATA4      = 0x4e
	OP_1NEGATE        = 0x4f
	OP_RESERVED       = 0x50
	OP_1              = 0x51
	OP_16             = 0x60
	OP_NOP            = 0x61
	OP_VER            = 0x62
	OP_IF             = 0x63
	OP_NOTIF          = 0x64
	OP_ELSE           = 0x67
	OP_ENDIF          = 0x68
	OP_RETURN         = 0x6a
	OP_DROP           = 0x75
	OP_DUP            = 0x76
	OP_EQUAL          = 0x87
	OP_EQUALVERIFY    = 0x88
	OP_MIN            = 0xa3
	OP_HASH160        = 0xa9
	OP_CHECKSIG       = 0xac
	OP_CHECKMULTISIG  = 0xae
	OP_NOP1           = 0xb0
	OP_NOP10          = 0xb9
)

// tokenKind partitions decoded opcodes into the categories the
// classifier cares about.
type tokenKind byte

const (
	// tokenOp is an ordinary executable opcode.
	tokenOp tokenKind = iota

	// tokenPush carries pushed data, including the small-integer
	// opcodes which push their numeric value.
	tokenPush

	// tokenInvalid is a reserved or unassigned opcode whose presence
	// invalidates the script when executed.
	tokenInvalid
)

// smallIntBytes maps OP_1 through OP_16 to the single byte each one
// pushes.  OP_1NEGATE pushes 0x81 per the script number encoding.
var smallIntBytes = [17][]byte{
	{}, {0x01}, {0x02}, {0x03}, {0x04}, {0x05}, {0x06}, {0x07}, {0x08},
	{0x09}, {0x0a}, {0x0b}, {0x0c}, {0x0d}, {0x0e}, {0x0f}, {0x10},
}

var negativeOneBytes = []byte{0x81}

// isDisabledOpcode reports the opcodes that render a script unparseable
// outright: the disabled splice, bitwise, and arithmetic operations.
func isDisabledOpcode(op byte) bool {
	switch op {
	case 0x65, 0x66, // OP_VERIF, OP_VERNOTIF
		0x7e, 0x7f, // OP_CAT, OP_SUBSTR
		0x80, 0x81, // OP_LEFT, OP_RIGHT
		0x83, 0x84, 0x85, 0x86, // OP_INVERT, OP_AND, OP_OR, OP_XOR
		0x8d, 0x8e, // OP_2MUL, OP_2DIV
		0x95, 0x96, 0x97, 0x98, 0x99: // OP_MUL..OP_RSHIFT
		return true
	}
	return false
}

// tokenizer steps through script bytecode one opcode at a time,
// decoding push payloads, folding the small-integer opcodes into
// pushes, and skipping OP_NOP and the OP_NOP1-OP_NOP10 range the way
// the classifier expects to see the stream.
//
// The usage pattern mirrors an iterator: Next returns true while a
// token is available, and Err distinguishes a clean end from a
// malformed script afterwards.
type tokenizer struct {
	script []byte
	offset int

	kind tokenKind
	op   byte
	data []byte
	err  error
}

// makeTokenizer returns a tokenizer positioned at the start of script.
func makeTokenizer(script []byte) tokenizer {
	return tokenizer{script: script}
}

// Next attempts to decode the next token.  It returns false at the end
// of the script or on a malformed opcode; Err tells the cases apart.
func (t *tokenizer) Next() bool {
	if t.err != nil {
		return false
	}

	for t.offset < len(t.script) {
		op := t.script[t.offset]
		t.offset++

		switch {
		case op <= 0x4b:
			// Direct data push of op bytes (zero bytes for OP_0).
			if !t.readPush(int(op)) {
				return false
			}
			return true

		case op == OP_PUSHDATA1:
			n, ok := t.readPushLen(1)
			if !ok || !t.readPush(n) {
				return false
			}
			return true

		case op == OP_PUSHDATA2:
			n, ok := t.readPushLen(2)
			if !ok || !t.readPush(n) {
				return false
			}
			return true

		case op == OP_PUSHDATA4:
			n, ok := t.readPushLen(4)
			if !ok || !t.readPush(n) {
				return false
			}
			return true

		case op == OP_1NEGATE:
			t.setPush(negativeOneBytes)
			return true

		case op >= OP_1 && op <= OP_16:
			t.setPush(smallIntBytes[op-OP_1+1])
			return true

		case op == OP_NOP || (op >= OP_NOP1 && op <= OP_NOP10):
			// Transparent; keep scanning.
			continue

		case isDisabledOpcode(op):
			t.err = ErrMalformedScript
			return false

		case op == OP_RESERVED || op == 0x89 || op == 0x8a || op >= 0xba:
			t.kind = tokenInvalid
			t.op = op
			t.data = nil
			return true

		default:
			t.kind = tokenOp
			t.op = op
			t.data = nil
			return true
		}
	}

	return false
}

// Err returns the malformed-script error, or nil after a clean end.
func (t *tokenizer) Err() error {
	return t.err
}

// Done reports whether the entire script was consumed without error.
func (t *tokenizer) Done() bool {
	return t.err == nil && t.offset == len(t.script)
}

// Kind, Opcode, and Data describe the token decoded by the last
// successful Next call.
func (t *tokenizer) Kind() tokenKind { return t.kind }
func (t *tokenizer) Opcode() byte    { return t.op }
func (t *tokenizer) Data() []byte    { return t.data }

func (t *tokenizer) setPush(data []byte) {
	t.kind = tokenPush
	t.op = OP_0
	t.data = data
}

func (t *tokenizer) readPush(n int) bool {
	if n < 0 || t.offset+n > len(t.script) {
		t.err = ErrMalformedScript
		return false
	}
	t.setPush(t.script[t.offset : t.offset+n])
	t.offset += n
	return true
}

// readPushLen reads the little-endian push length prefix of width
// bytes used by the OP_PUSHDATA opcodes.
func (t *tokenizer) readPushLen(width int) (int, bool) {
	if t.offset+width > len(t.script) {
		t.err = ErrMalformedScript
		return 0, false
	}
	n := 0
	for i := width - 1; i >= 0; i-- {
		n = n<<8 | int(t.script[t.offset+i])
	}
	t.offset += width
	return n, true
}

// pushedInt interprets a pushed value as a non-negative integer.  The
// multisig template uses it for the m and n counters, which in
// practice are the single-byte pushes of the small-integer opcodes.
func pushedInt(data []byte) (uint32, bool) {
	if len(data) == 0 {
		return 0, true
	}
	if data[0]&0x80 != 0 {
		// Negative counters never appear in a well-formed template.
		return 0, false
	}

	res := uint32(data[0] & 0x7f)
	for _, b := range data[1:] {
		if res&0xff000000 != 0 {
			return 0, false
		}
		res = res<<8 | uint32(b)
	}
	return res, true
}
