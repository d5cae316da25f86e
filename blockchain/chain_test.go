// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/flokiorg/chainsift/wire"
)

// testBlock is a header-only block with a nonce to make hashes unique.
func testBlock(t *testing.T, prev chainhash.Hash, nonce uint32) wire.Block {
	t.Helper()

	hdr := make([]byte, wire.BlockHeaderLen+1)
	binary.LittleEndian.PutUint32(hdr[0:4], 1)
	copy(hdr[4:36], prev[:])
	binary.LittleEndian.PutUint32(hdr[68:72], 1234567890)
	binary.LittleEndian.PutUint32(hdr[76:80], nonce)
	// Trailing zero varint: no transactions.

	framed := make([]byte, 8, 8+len(hdr))
	binary.LittleEndian.PutUint32(framed[0:4], wire.MainNetMagic)
	binary.LittleEndian.PutUint32(framed[4:8], uint32(len(hdr)))
	framed = append(framed, hdr...)

	block, err := wire.ReadBlock(wire.NewReader(framed))
	require.NoError(t, err)
	return block
}

// frame re-serializes blocks into a single synthetic blk file.
func frame(blocks ...wire.Block) []byte {
	var out []byte
	for _, b := range blocks {
		var hdr [8]byte
		binary.LittleEndian.PutUint32(hdr[0:4], wire.MainNetMagic)
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(b.Bytes())))
		out = append(out, hdr[:]...)
		out = append(out, b.Bytes()...)
	}
	return out
}

// walk runs a walker over the given file contents and collects the
// emitted block hashes and heights.
func walk(t *testing.T, files ...[]byte) ([]chainhash.Hash, []int64) {
	t.Helper()

	var hashes []chainhash.Hash
	var heights []int64
	walker := NewWalker(func(block wire.Block, height int64) {
		hashes = append(hashes, block.Header().BlockHash())
		heights = append(heights, height)
	})
	for _, file := range files {
		require.NoError(t, walker.WalkFile(wire.NewReader(file)))
	}
	return hashes, heights
}

// requireChainOrder checks the parent linkage invariant over emitted
// blocks.
func requireChainOrder(t *testing.T, blocks []wire.Block, hashes []chainhash.Hash, heights []int64) {
	t.Helper()

	byHash := make(map[chainhash.Hash]wire.Block)
	for _, b := range blocks {
		byHash[b.Header().BlockHash()] = b
	}
	for i, h := range hashes {
		require.Equal(t, int64(i), heights[i])
		if i > 0 {
			require.Equal(t, hashes[i-1], byHash[h].Header().PrevBlock(),
				"block at height %d does not extend its predecessor", i)
		}
	}
}

// TestWalkerInOrder feeds an already ordered chain and expects every
// block but the deferred tip back.
func TestWalkerInOrder(t *testing.T) {
	b0 := testBlock(t, wire.ZeroHash, 0)
	b1 := testBlock(t, b0.Header().BlockHash(), 1)
	b2 := testBlock(t, b1.Header().BlockHash(), 2)
	b3 := testBlock(t, b2.Header().BlockHash(), 3)

	hashes, heights := walk(t, frame(b0, b1, b2, b3))

	// The final accepted block lags unemitted by design.
	require.Equal(t, []chainhash.Hash{
		b0.Header().BlockHash(),
		b1.Header().BlockHash(),
		b2.Header().BlockHash(),
	}, hashes)
	requireChainOrder(t, []wire.Block{b0, b1, b2, b3}, hashes, heights)
}

// TestWalkerOutOfOrder delivers a child before its parent and expects
// the walker to hold it until the gap closes.
func TestWalkerOutOfOrder(t *testing.T) {
	b0 := testBlock(t, wire.ZeroHash, 0)
	b1 := testBlock(t, b0.Header().BlockHash(), 1)
	b2 := testBlock(t, b1.Header().BlockHash(), 2)
	b3 := testBlock(t, b2.Header().BlockHash(), 3)

	hashes, heights := walk(t, frame(b0, b2, b1, b3))

	require.Equal(t, []chainhash.Hash{
		b0.Header().BlockHash(),
		b1.Header().BlockHash(),
		b2.Header().BlockHash(),
	}, hashes)
	requireChainOrder(t, []wire.Block{b0, b1, b2, b3}, hashes, heights)
}

// TestWalkerAcrossFiles splits the chain over two files with the gap
// straddling the boundary.
func TestWalkerAcrossFiles(t *testing.T) {
	b0 := testBlock(t, wire.ZeroHash, 0)
	b1 := testBlock(t, b0.Header().BlockHash(), 1)
	b2 := testBlock(t, b1.Header().BlockHash(), 2)
	b3 := testBlock(t, b2.Header().BlockHash(), 3)

	hashes, _ := walk(t, frame(b0, b2), frame(b1, b3))

	require.Equal(t, []chainhash.Hash{
		b0.Header().BlockHash(),
		b1.Header().BlockHash(),
		b2.Header().BlockHash(),
	}, hashes)
}

// TestWalkerForkFirstBranchWins interleaves a stale sibling whose
// branch never grows; the first branch continues.
func TestWalkerForkFirstBranchWins(t *testing.T) {
	b0 := testBlock(t, wire.ZeroHash, 0)
	b1a := testBlock(t, b0.Header().BlockHash(), 10)
	b1b := testBlock(t, b0.Header().BlockHash(), 11)
	b2a := testBlock(t, b1a.Header().BlockHash(), 20)
	b3a := testBlock(t, b2a.Header().BlockHash(), 30)

	hashes, heights := walk(t, frame(b0, b1a, b1b, b2a, b3a))

	require.Equal(t, []chainhash.Hash{
		b0.Header().BlockHash(),
		b1a.Header().BlockHash(),
		b2a.Header().BlockHash(),
	}, hashes)
	requireChainOrder(t, []wire.Block{b0, b1a, b2a, b3a}, hashes, heights)
}

// TestWalkerForkSecondBranchWins continues the chain on the sibling
// that arrived second; the walker must switch branches.
func TestWalkerForkSecondBranchWins(t *testing.T) {
	b0 := testBlock(t, wire.ZeroHash, 0)
	b1a := testBlock(t, b0.Header().BlockHash(), 10)
	b1b := testBlock(t, b0.Header().BlockHash(), 11)
	b2b := testBlock(t, b1b.Header().BlockHash(), 21)
	b3b := testBlock(t, b2b.Header().BlockHash(), 31)

	hashes, heights := walk(t, frame(b0, b1a, b1b, b2b, b3b))

	require.Equal(t, []chainhash.Hash{
		b0.Header().BlockHash(),
		b1b.Header().BlockHash(),
		b2b.Header().BlockHash(),
	}, hashes)
	requireChainOrder(t, []wire.Block{b0, b1b, b2b, b3b}, hashes, heights)
}
