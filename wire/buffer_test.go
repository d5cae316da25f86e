// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"testing"
)

// TestVarInt tests variable length integer decoding for values which
// are intended to be represented canonically along with the boundary
// conditions of each encoding width.
func TestVarInt(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		val  uint64
		rest int
	}{
		{"single byte zero", []byte{0x00}, 0, 0},
		{"single byte max", []byte{0xfc}, 0xfc, 0},
		{"2-byte min", []byte{0xfd, 0xfd, 0x00}, 0xfd, 0},
		{"2-byte max", []byte{0xfd, 0xff, 0xff}, 0xffff, 0},
		{"4-byte min", []byte{0xfe, 0x00, 0x00, 0x01, 0x00}, 0x10000, 0},
		{"4-byte max", []byte{0xfe, 0xff, 0xff, 0xff, 0xff}, 0xffffffff, 0},
		{
			"8-byte min",
			[]byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
			0x100000000, 0,
		},
		{
			"8-byte max",
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			0xffffffffffffffff, 0,
		},
		{"trailing data", []byte{0x2a, 0x99}, 0x2a, 1},
	}

	for _, test := range tests {
		r := NewReader(test.buf)
		val, err := r.ReadVarInt()
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
			continue
		}
		if val != test.val {
			t.Errorf("%s: got %d, want %d", test.name, val, test.val)
		}
		if r.Len() != test.rest {
			t.Errorf("%s: %d bytes left, want %d", test.name,
				r.Len(), test.rest)
		}
	}
}

// TestVarIntTruncated ensures a varint whose payload runs past the end
// of the buffer reports ErrEOF.
func TestVarIntTruncated(t *testing.T) {
	tests := [][]byte{
		{},
		{0xfd},
		{0xfd, 0x01},
		{0xfe, 0x01, 0x02, 0x03},
		{0xff, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}

	for i, buf := range tests {
		r := NewReader(buf)
		if _, err := r.ReadVarInt(); !errors.Is(err, ErrEOF) {
			t.Errorf("test #%d: got %v, want ErrEOF", i, err)
		}
	}
}

// TestReaderSlices ensures ReadSlice returns aliasing sub-slices and
// honors the cursor.
func TestReaderSlices(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(buf)

	s, err := r.ReadSlice(3)
	if err != nil {
		t.Fatalf("ReadSlice: unexpected error %v", err)
	}
	if !bytes.Equal(s, buf[:3]) {
		t.Fatalf("ReadSlice: got %x, want %x", s, buf[:3])
	}
	if &s[0] != &buf[0] {
		t.Fatal("ReadSlice: expected an aliasing sub-slice, got a copy")
	}
	if r.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", r.Len())
	}

	if _, err := r.ReadSlice(3); !errors.Is(err, ErrEOF) {
		t.Fatalf("ReadSlice past end: got %v, want ErrEOF", err)
	}

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16: unexpected error %v", err)
	}
	if v != 0x0504 {
		t.Fatalf("ReadUint16: got %04x, want 0504", v)
	}
}
