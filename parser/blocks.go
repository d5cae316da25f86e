// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package parser

import (
	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/wire"
)

// blockMsg carries one main-chain block and its height from the block
// reading stage to the transaction decoding stage.
type blockMsg struct {
	block  wire.Block
	height int64
}

// readBlocks is the first pipeline stage: it walks every mapped blk
// file through the chain walker and delivers main-chain blocks in
// height order.  Closing the channel is the end-of-stream signal for
// the downstream stages.
//
// A framing violation terminates the current file and the walk
// continues with the next one; by the time the walker trips over
// garbage, everything decodable in the file has been consumed.
func readBlocks(files *blockchain.BlockFiles, out chan<- blockMsg) {
	defer close(out)

	walker := blockchain.NewWalker(func(block wire.Block, height int64) {
		out <- blockMsg{block: block, height: height}
	})

	numFiles := files.NumFiles()
	for n := 0; n < numFiles; n++ {
		log.Infof("Processing block file %d/%d, height %d",
			n, numFiles-1, walker.Height())

		if err := walker.WalkFile(wire.NewReader(files.File(n))); err != nil {
			log.Warnf("Invalid block framing in file %d: %v", n, err)
		}
	}
}
