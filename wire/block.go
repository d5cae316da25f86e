// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// MainNetMagic is the framing magic preceding every block in a
	// mainnet blk file.
	MainNetMagic uint32 = 0xd9b4bef9

	// BlockHeaderLen is the number of bytes in a serialized block
	// header: version 4, previous block hash 32, merkle root 32,
	// timestamp 4, bits 4, nonce 4.
	BlockHeaderLen = 80
)

// ZeroHash is the all-zero hash.  It doubles as the coinbase previous
// output sentinel and as the parent the chain walker looks for before
// the genesis block has been seen.
var ZeroHash = chainhash.Hash{}

// Block is a framed block body as stored on disk, beginning immediately
// after the 4-byte magic and 4-byte length prefix.  The slice aliases
// the file mapping; a Block is freely copyable but must not outlive it.
type Block struct {
	raw []byte
}

// ReadBlock decodes the next framed block from r.
//
// Each block is stored as MAGIC(4) || LEN(4) || BODY(LEN).  Runs of
// zero bytes before the frame are padding from a preallocated but
// unfilled file tail and are skipped.  A zero magic marks the unfilled
// region itself and yields ErrEOF, as does LEN below the 80 header
// bytes (a truncated trailing block).  Any magic other than
// MainNetMagic yields ErrInvalid.
func ReadBlock(r *Reader) (Block, error) {
	for r.Len() > 0 {
		b, err := r.PeekByte()
		if err != nil {
			return Block{}, err
		}
		if b != 0 {
			break
		}
		r.ReadByte()
	}
	if r.Len() == 0 {
		return Block{}, ErrEOF
	}

	magic, err := r.ReadUint32()
	if err != nil {
		return Block{}, err
	}
	switch magic {
	case 0:
		// Preallocated but unfilled region.
		return Block{}, ErrEOF
	case MainNetMagic:
	default:
		return Block{}, ErrInvalid
	}

	blockLen, err := r.ReadUint32()
	if err != nil {
		return Block{}, err
	}
	if blockLen < BlockHeaderLen {
		return Block{}, ErrEOF
	}

	body, err := r.ReadSlice(int(blockLen))
	if err != nil {
		return Block{}, err
	}
	return Block{raw: body}, nil
}

// Bytes returns the raw block body.
func (b Block) Bytes() []byte {
	return b.raw
}

// Header returns the 80-byte block header view.
func (b Block) Header() BlockHeader {
	return BlockHeader{raw: b.raw[:BlockHeaderLen]}
}

// Transactions returns the declared transaction count along with a
// cursor positioned at the first transaction.  A malformed count is
// reported as zero transactions, leaving the area unparsed.
func (b Block) Transactions() (uint64, *Reader) {
	r := NewReader(b.raw[BlockHeaderLen:])
	count, err := r.ReadVarInt()
	if err != nil {
		return 0, r
	}
	return count, r
}

// BlockHeader is a view over the fixed 80 header bytes of a block.
type BlockHeader struct {
	raw []byte
}

// NewBlockHeader returns a header view over raw, which must hold at
// least BlockHeaderLen bytes.
func NewBlockHeader(raw []byte) BlockHeader {
	return BlockHeader{raw: raw[:BlockHeaderLen]}
}

// Version returns the block version field.
func (h BlockHeader) Version() int32 {
	return int32(littleEndian.Uint32(h.raw[0:4]))
}

// PrevBlock returns the hash of the parent block header.
func (h BlockHeader) PrevBlock() chainhash.Hash {
	var hash chainhash.Hash
	copy(hash[:], h.raw[4:36])
	return hash
}

// MerkleRoot returns the merkle root field.
func (h BlockHeader) MerkleRoot() chainhash.Hash {
	var hash chainhash.Hash
	copy(hash[:], h.raw[36:68])
	return hash
}

// Timestamp returns the block time as seconds since the epoch.
func (h BlockHeader) Timestamp() uint32 {
	return littleEndian.Uint32(h.raw[68:72])
}

// Bits returns the compact difficulty target.
func (h BlockHeader) Bits() uint32 {
	return littleEndian.Uint32(h.raw[72:76])
}

// Nonce returns the header nonce.
func (h BlockHeader) Nonce() uint32 {
	return littleEndian.Uint32(h.raw[76:80])
}

// BlockHash computes the block identifier hash, the double sha256 of
// the 80 serialized header bytes.
func (h BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashH(h.raw)
}
