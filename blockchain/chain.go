// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/flokiorg/chainsift/wire"
)

// Walker reassembles the linear main chain out of the physically
// unordered block sequence stored in blk files.
//
// Blocks arrive in receipt order: a block's parent may appear later in
// the file, and stale siblings of main-chain blocks are interleaved
// with them.  The walker keeps the most recently accepted block
// unemitted for one step so that when a sibling pair shows up, a short
// read-ahead decides which branch the chain continued on.  Blocks
// whose parent has not been seen yet wait in the skipped table keyed
// by the parent hash they need.
//
// Deep reorganizations are not resolved; stored chain data is observed
// to fork at most a block or two deep.
type Walker struct {
	// goalPrev is the parent hash the next accepted block must carry.
	// It starts at the zero hash, the nominal parent of genesis.
	goalPrev chainhash.Hash

	// last is the accepted block whose emission is deferred by one
	// step.  hasLast tells a real genesis-parent block apart from
	// none.
	last    wire.Block
	hasLast bool

	// skipped buffers out-of-order blocks by the parent hash each one
	// is waiting for.
	skipped map[chainhash.Hash]wire.Block

	// height counts emitted blocks.
	height int64

	// emit receives main-chain blocks in height order.
	emit func(wire.Block, int64)
}

// NewWalker returns a walker that delivers in-order blocks to emit.
func NewWalker(emit func(block wire.Block, height int64)) *Walker {
	return &Walker{
		skipped: make(map[chainhash.Hash]wire.Block),
		emit:    emit,
	}
}

// Height returns the number of blocks emitted so far.
func (w *Walker) Height() int64 {
	return w.height
}

// WalkFile consumes every framed block in r, emitting main-chain
// blocks in height order.  Walker state spans files: a block whose
// parent lives in a later file simply waits in the skipped table.
//
// A framing violation terminates the file (logged by the caller via
// the returned error); a clean end of data returns nil.
func (w *Walker) WalkFile(r *wire.Reader) error {
	for r.Len() > 0 {
		// A waiter keyed by our goal proves the deferred block is on
		// the main chain: emit it, then chase the skipped chain as
		// far as it reaches.
		if _, ok := w.skipped[w.goalPrev]; ok {
			if w.hasLast {
				w.emitBlock(w.last)
			}
			for {
				block, ok := w.skipped[w.goalPrev]
				if !ok {
					break
				}
				delete(w.skipped, w.goalPrev)
				w.emitBlock(block)
				w.goalPrev = block.Header().BlockHash()
			}
			w.hasLast = false
		}

		block, err := wire.ReadBlock(r)
		if err != nil {
			if errors.Is(err, wire.ErrEOF) {
				return nil
			}
			return err
		}

		prev := block.Header().PrevBlock()
		if prev != w.goalPrev {
			w.skipped[prev] = block

			// A sibling of the deferred block means the parent chain
			// forked right here.  Read ahead until one branch grows a
			// child, and follow that branch.
			if w.hasLast && prev == w.last.Header().PrevBlock() {
				if err := w.resolveFork(r, w.last, block); err != nil {
					if errors.Is(err, wire.ErrEOF) {
						return nil
					}
					return err
				}
			}
			continue
		}

		if w.hasLast {
			w.emitBlock(w.last)
		}
		w.goalPrev = block.Header().BlockHash()
		w.last = block
		w.hasLast = true
	}
	return nil
}

// resolveFork reads blocks until one of them extends firstOrphan (the
// deferred block stays the tip) or secondOrphan (the walk switches to
// that branch).  Every block read along the way lands in the skipped
// table, so nothing is lost whichever way the race resolves.
func (w *Walker) resolveFork(r *wire.Reader, firstOrphan, secondOrphan wire.Block) error {
	firstHash := firstOrphan.Header().BlockHash()
	secondHash := secondOrphan.Header().BlockHash()

	for {
		block, err := wire.ReadBlock(r)
		if err != nil {
			return err
		}

		prev := block.Header().PrevBlock()
		w.skipped[prev] = block

		if prev == firstHash {
			return nil
		}
		if prev == secondHash {
			w.goalPrev = secondHash
			w.last = secondOrphan
			w.hasLast = true
			return nil
		}
	}
}

func (w *Walker) emitBlock(block wire.Block) {
	w.emit(block, w.height)
	w.height++
}
