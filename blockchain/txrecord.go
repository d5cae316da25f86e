// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/flokiorg/chainsift/chainutil"
)

// AddrValue is an address paired with the value it moved in a
// transaction, plus the taint segments assigned to that value.
type AddrValue struct {
	Addr   chainutil.Address
	Value  uint64
	Taints []chainutil.Taint
}

// TxRecord is the fully resolved view of one transaction that flows
// from the decoding stage to the clustering stage: spent input
// addresses recovered through the UTXO table and derived output
// addresses, each aggregated per address in first-seen order.
//
// Coinbase transactions have no resolved inputs and NumInputs == 1.
type TxRecord struct {
	TxID     chainhash.Hash
	Version  uint32
	LockTime uint32

	// NumInputs and NumOutputs are the raw vin/vout counts of the
	// transaction, independent of how many addresses resolved.
	NumInputs  uint64
	NumOutputs uint64

	Inputs  []AddrValue
	Outputs []AddrValue
}

// addTo merges (addr, value, taints) into list, summing values and
// concatenating taints when the address is already present.  The
// returned slice preserves first-seen order, which downstream
// heuristics rely on.
func addTo(list []AddrValue, addr chainutil.Address, value uint64, taints []chainutil.Taint) []AddrValue {
	for i := range list {
		if list[i].Addr == addr {
			list[i].Value += value
			list[i].Taints = append(list[i].Taints, taints...)
			return list
		}
	}
	return append(list, AddrValue{Addr: addr, Value: value, Taints: taints})
}

// AddInput merges an input address into the record.
func (r *TxRecord) AddInput(addr chainutil.Address, value uint64, taints []chainutil.Taint) {
	r.Inputs = addTo(r.Inputs, addr, value, taints)
}

// AddOutput merges an output address into the record.
func (r *TxRecord) AddOutput(addr chainutil.Address, value uint64, taints []chainutil.Taint) {
	r.Outputs = addTo(r.Outputs, addr, value, taints)
}

// InputValue sums the resolved input values.
func (r *TxRecord) InputValue() uint64 {
	var total uint64
	for _, in := range r.Inputs {
		total += in.Value
	}
	return total
}

// OutputValue sums the resolved output values.
func (r *TxRecord) OutputValue() uint64 {
	var total uint64
	for _, out := range r.Outputs {
		total += out.Value
	}
	return total
}

// IsCoinbase reports whether no input addresses resolved because the
// transaction mints new coin.
func (r *TxRecord) IsCoinbase() bool {
	return len(r.Inputs) == 0 && r.NumInputs == 1
}
