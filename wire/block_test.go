// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// frameBlock wraps body in the on-disk framing: magic, length, body.
func frameBlock(body []byte) []byte {
	out := make([]byte, 8, 8+len(body))
	binary.LittleEndian.PutUint32(out[0:4], MainNetMagic)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	return append(out, body...)
}

// testHeader builds an 80-byte header with recognizable field values.
func testHeader(prev chainhash.Hash, timestamp uint32, nonce uint32) []byte {
	hdr := make([]byte, BlockHeaderLen)
	binary.LittleEndian.PutUint32(hdr[0:4], 2)
	copy(hdr[4:36], prev[:])
	for i := 36; i < 68; i++ {
		hdr[i] = 0xaa
	}
	binary.LittleEndian.PutUint32(hdr[68:72], timestamp)
	binary.LittleEndian.PutUint32(hdr[72:76], 0x1d00ffff)
	binary.LittleEndian.PutUint32(hdr[76:80], nonce)
	return hdr
}

// TestReadBlockSingle decodes a minimal file holding one header-only
// block followed by a padding byte.
func TestReadBlockSingle(t *testing.T) {
	hdr := testHeader(ZeroHash, 1231006505, 2083236893)
	file := append(frameBlock(hdr), 0x00)

	r := NewReader(file)
	block, err := ReadBlock(r)
	if err != nil {
		t.Fatalf("ReadBlock: unexpected error %v", err)
	}
	if !bytes.Equal(block.Header().raw, hdr) {
		t.Fatalf("header mismatch: %v", spew.Sdump(block.Header().raw))
	}

	count, txr := block.Transactions()
	if count != 0 || txr.Len() != 0 {
		t.Fatalf("expected empty transactions area, got count %d, %d bytes",
			count, txr.Len())
	}

	// The trailing zero is padding, not another block.
	if _, err := ReadBlock(r); !errors.Is(err, ErrEOF) {
		t.Fatalf("trailing padding: got %v, want ErrEOF", err)
	}
}

// TestReadBlockLeadingPadding ensures zero bytes before a valid frame
// are consumed as padding rather than rejected.
func TestReadBlockLeadingPadding(t *testing.T) {
	hdr := testHeader(ZeroHash, 1231469665, 1639830024)
	file := append(make([]byte, 8), frameBlock(hdr)...)

	r := NewReader(file)
	block, err := ReadBlock(r)
	if err != nil {
		t.Fatalf("ReadBlock: unexpected error %v", err)
	}
	if !bytes.Equal(block.Bytes(), hdr) {
		t.Fatal("block body does not round-trip through the framing")
	}
}

// TestReadBlockErrors exercises the framing failure modes.
func TestReadBlockErrors(t *testing.T) {
	hdr := testHeader(ZeroHash, 1231469744, 1844305925)

	tests := []struct {
		name string
		file []byte
		want error
	}{
		{"empty input", nil, ErrEOF},
		{"all padding", make([]byte, 32), ErrEOF},
		{
			"foreign magic after padding",
			// The zero run is consumed as padding; the magic read
			// from the remaining bytes is 0x00000001.
			[]byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
			ErrInvalid,
		},
		{
			"foreign magic",
			frameBlock(hdr)[1:], // knock the framing out of alignment
			ErrInvalid,
		},
		{
			"truncated trailing block",
			func() []byte {
				f := frameBlock(hdr)
				binary.LittleEndian.PutUint32(f[4:8], 40)
				return f[:48]
			}(),
			ErrEOF,
		},
	}

	for _, test := range tests {
		_, err := ReadBlock(NewReader(test.file))
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

// TestReadBlockRoundTrip frames several block bodies and checks the
// decoder recovers exactly the bodies fed in.
func TestReadBlockRoundTrip(t *testing.T) {
	bodies := [][]byte{
		testHeader(ZeroHash, 1231006505, 1),
		append(testHeader(ZeroHash, 1231006506, 2), 0x00),
		append(testHeader(ZeroHash, 1231006507, 3), 0x01, 0xde, 0xad),
	}

	var file []byte
	for _, body := range bodies {
		file = append(file, frameBlock(body)...)
	}

	r := NewReader(file)
	for i, body := range bodies {
		block, err := ReadBlock(r)
		if err != nil {
			t.Fatalf("block #%d: unexpected error %v", i, err)
		}
		if !bytes.Equal(block.Bytes(), body) {
			t.Fatalf("block #%d: body mismatch\n%v", i, spew.Sdump(block.Bytes()))
		}
	}
	if _, err := ReadBlock(r); !errors.Is(err, ErrEOF) {
		t.Fatalf("after last block: got %v, want ErrEOF", err)
	}
}

// TestBlockHeaderFields decodes every header field and checks the
// header hash against an independent double sha256.
func TestBlockHeaderFields(t *testing.T) {
	var prev chainhash.Hash
	prev[0] = 0x42

	hdr := NewBlockHeader(testHeader(prev, 1503539857, 7))
	if hdr.Version() != 2 {
		t.Errorf("Version: got %d, want 2", hdr.Version())
	}
	if hdr.PrevBlock() != prev {
		t.Errorf("PrevBlock: got %v, want %v", hdr.PrevBlock(), prev)
	}
	if hdr.Timestamp() != 1503539857 {
		t.Errorf("Timestamp: got %d, want 1503539857", hdr.Timestamp())
	}
	if hdr.Bits() != 0x1d00ffff {
		t.Errorf("Bits: got %08x, want 1d00ffff", hdr.Bits())
	}
	if hdr.Nonce() != 7 {
		t.Errorf("Nonce: got %d, want 7", hdr.Nonce())
	}

	want := chainhash.DoubleHashH(hdr.raw)
	if hdr.BlockHash() != want {
		t.Errorf("BlockHash: got %v, want %v", hdr.BlockHash(), want)
	}
}
