// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package parser

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/chainutil"
	"github.com/flokiorg/chainsift/txscript"
	"github.com/flokiorg/chainsift/wire"
)

// txDecoder is the second pipeline stage.  For every in-order block it
// decodes the transactions, resolves spent input addresses through the
// UTXO table, derives output addresses from their scripts, and
// propagates taint.  The stage owns the UTXO table exclusively.
type txDecoder struct {
	utxo *blockchain.UtxoSet

	// startQueues maps seed transactions to their taint queues.  nil
	// when taint tracking is disabled.
	startQueues map[chainhash.Hash]*chainutil.TaintQueue
}

// decodeTransactions drains blocks from in and delivers one TxRecord
// per decodable transaction to out, in (height, index) order.
func decodeTransactions(in <-chan blockMsg, out chan<- *blockchain.TxRecord,
	startQueues map[chainhash.Hash]*chainutil.TaintQueue) {

	defer close(out)

	d := &txDecoder{
		utxo:        blockchain.NewUtxoSet(),
		startQueues: startQueues,
	}
	for msg := range in {
		d.onBlock(msg, out)
	}

	log.Debugf("UTXO table finished with %d live transactions", d.utxo.Len())
}

// onBlock decodes every transaction of one block.  A malformed
// transaction is logged and the rest of the block's transaction area
// abandoned, since the cursor cannot resynchronize past it; the
// pipeline keeps running with the next block.
func (d *txDecoder) onBlock(msg blockMsg, out chan<- *blockchain.TxRecord) {
	count, r := msg.block.Transactions()
	timestamp := msg.block.Header().Timestamp()

	for i := uint64(0); i < count; i++ {
		if r.Len() == 0 {
			break
		}
		tx, err := wire.ReadMsgTx(r)
		if err != nil {
			log.Warnf("Error processing transaction %d of block %d: %v",
				i, msg.height, err)
			break
		}
		out <- d.processTx(tx, timestamp)
	}
}

// processTx reconciles one transaction against the UTXO table.
//
// Inputs are resolved first: each previous outpoint found in the table
// is consumed, crediting its addresses and amounts to the record and
// carrying its taint segments forward in input order.  Outputs are
// then classified and staged, taint is assigned per output in index
// order, and finally the staged outputs are installed under the new
// transaction id.
func (d *txDecoder) processTx(tx *wire.MsgTx, timestamp uint32) *blockchain.TxRecord {
	rec := &blockchain.TxRecord{
		TxID:       tx.TxID,
		Version:    tx.Version,
		LockTime:   tx.LockTime,
		NumInputs:  uint64(len(tx.TxIn)),
		NumOutputs: uint64(len(tx.TxOut)),
	}

	var carried *chainutil.TaintQueue
	for _, txIn := range tx.TxIn {
		if txIn.PrevOut.Hash == wire.ZeroHash {
			// Coinbase input mints new coin; nothing to look up.
			continue
		}
		spent, ok := d.utxo.Spend(txIn.PrevOut.Hash, txIn.PrevOut.Index)
		if !ok {
			continue
		}
		for _, outAddr := range spent {
			rec.AddInput(outAddr.Addr, outAddr.Value, nil)
			if len(outAddr.Taints) > 0 {
				if carried == nil {
					carried = chainutil.NewTaintQueue()
				}
				carried.Extend(outAddr.Taints)
			}
		}
	}

	startQueue := d.startQueues[tx.TxID]

	var staged map[uint32][]blockchain.OutputAddr
	for index, txOut := range tx.TxOut {
		// Taint is consumed per output in index order whether or not
		// the script yields an address; value flowing into an
		// unaddressable script absorbs its share.
		var taints []chainutil.Taint
		switch {
		case startQueue != nil:
			taints = startQueue.Apply(txOut.Value)
		case carried != nil && !carried.Empty():
			taints = carried.Apply(txOut.Value)
		}

		_, addrs := txscript.ExtractAddrs(txOut.PkScript, timestamp)
		if len(addrs) == 0 {
			continue
		}

		entries := make([]blockchain.OutputAddr, len(addrs))
		for i, addr := range addrs {
			entries[i] = blockchain.OutputAddr{
				Addr:  addr,
				Value: txOut.Value,
			}
		}
		if chainutil.HasLabeled(taints) {
			// Attach to the first derived address only so a spend of
			// this output carries each segment exactly once.
			entries[0].Taints = taints
		}

		if staged == nil {
			staged = make(map[uint32][]blockchain.OutputAddr)
		}
		staged[uint32(index)] = entries

		for _, entry := range entries {
			rec.AddOutput(entry.Addr, entry.Value, entry.Taints)
		}
	}

	d.utxo.Add(tx.TxID, staged)
	return rec
}
