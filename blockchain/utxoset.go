// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/flokiorg/chainsift/chainutil"
)

// OutputAddr is one address derived from an unspent output, the amount
// credited to it, and any taint segments riding on that amount.  Most
// outputs derive a single address; bare multisig derives several.
type OutputAddr struct {
	Addr   chainutil.Address
	Value  uint64
	Taints []chainutil.Taint
}

// UtxoSet maps a transaction id to the address records of its
// still-unspent outputs, keyed by output index.
//
// An entry is present iff at least one output of the transaction
// remains unspent; spending the last output removes the entry.  The
// table is owned exclusively by the transaction-decoding stage, so no
// locking is involved.  Transaction ids are already uniformly
// distributed, making the runtime map hash as cheap as this table can
// usefully get.
type UtxoSet struct {
	entries map[chainhash.Hash]map[uint32][]OutputAddr
}

// NewUtxoSet returns an empty set.
func NewUtxoSet() *UtxoSet {
	return &UtxoSet{
		entries: make(map[chainhash.Hash]map[uint32][]OutputAddr),
	}
}

// Add installs the address records of a newly decoded transaction's
// outputs.  Output indexes without a derived address are simply absent
// from outputs.
func (u *UtxoSet) Add(txid chainhash.Hash, outputs map[uint32][]OutputAddr) {
	if len(outputs) == 0 {
		return
	}
	u.entries[txid] = outputs
}

// Spend removes and returns the address records at (txid, index).
// The second return is false when the outpoint is unknown, which the
// pipeline treats as an output that carried no address.
func (u *UtxoSet) Spend(txid chainhash.Hash, index uint32) ([]OutputAddr, bool) {
	outputs, ok := u.entries[txid]
	if !ok {
		return nil, false
	}
	addrs, ok := outputs[index]
	if !ok {
		return nil, false
	}
	delete(outputs, index)
	if len(outputs) == 0 {
		delete(u.entries, txid)
	}
	return addrs, true
}

// Len returns the number of transactions with unspent outputs.
func (u *UtxoSet) Len() int {
	return len(u.entries)
}
