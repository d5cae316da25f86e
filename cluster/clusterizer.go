// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cluster

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"fmt"
	"io"

	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/chainutil"
)

// Clusterizer folds a stream of transaction records into a union-find
// over addresses and writes the resulting cluster assignment as CSV.
//
// Two heuristics drive the merging.  The common-input heuristic unions
// every address spending into the same transaction.  The change
// heuristic additionally attaches the likely change output of a
// two-output spend to the payer's cluster; see OnTransaction for the
// exact gating.
type Clusterizer struct {
	set *DisjointSet

	// salt prefixes the per-address digest in the CSV output.
	salt string

	// taintOnly restricts the final CSV to addresses that ever
	// received a labeled taint segment.
	taintOnly bool
	tainted   map[chainutil.Address]struct{}

	// clusterIDs maps union-find roots to the dense ids assigned
	// during finalization, for the optional graph pass.
	clusterIDs map[int]int
}

// NewClusterizer returns a clusterizer using the given digest salt.
// When taintOnly is set, only tainted addresses appear in the output.
func NewClusterizer(salt string, taintOnly bool) *Clusterizer {
	return &Clusterizer{
		set:       NewDisjointSet(),
		salt:      salt,
		taintOnly: taintOnly,
		tainted:   make(map[chainutil.Address]struct{}),
	}
}

// Set exposes the underlying union-find.
func (c *Clusterizer) Set() *DisjointSet {
	return c.set
}

// OnTransaction applies the clustering heuristics to one record.
//
// Rule one, common input ownership: all resolved input addresses are
// unioned into a single cluster, and every output address is inserted
// as a singleton.  Rule two, change detection: when the transaction
// has exactly two distinct output addresses and not exactly two input
// addresses, and exactly one output address was already known before
// this transaction, the known one is read as the payment and the other
// as candidate change.  The candidate joins the input cluster when its
// amount is not a round number of coin to four decimal places and
// neither output address also appears among the inputs.  Coinbase
// records produce no unions.
func (c *Clusterizer) OnTransaction(rec *blockchain.TxRecord) {
	// Known-ness must be sampled before this transaction inserts
	// anything.
	changeEligible := len(rec.Inputs) > 0 && len(rec.Outputs) == 2 &&
		len(rec.Inputs) != 2
	var firstKnown, secondKnown bool
	if changeEligible {
		firstKnown = c.set.Contains(rec.Outputs[0].Addr)
		secondKnown = c.set.Contains(rec.Outputs[1].Addr)
	}

	if len(rec.Inputs) > 0 {
		first := rec.Inputs[0].Addr
		c.set.MakeSet(first)
		for _, in := range rec.Inputs[1:] {
			c.set.Union(first, in.Addr)
		}
	}

	for _, out := range rec.Outputs {
		c.set.MakeSet(out.Addr)
		if c.taintOnly && chainutil.HasLabeled(out.Taints) {
			c.tainted[out.Addr] = struct{}{}
		}
	}

	if changeEligible && firstKnown != secondKnown {
		candidate := rec.Outputs[0]
		if firstKnown {
			candidate = rec.Outputs[1]
		}
		if isChangeAmount(candidate.Value) && !c.outputSpendsOwnInput(rec) {
			c.set.Union(rec.Inputs[0].Addr, candidate.Addr)
		}
	}
}

// isChangeAmount reports whether value in satoshis is not a whole
// number of coin to four decimal places.  Payments tend to be round;
// change almost never is.
func isChangeAmount(value uint64) bool {
	return value%10_000 != 0
}

// outputSpendsOwnInput reports whether any output address of rec also
// appears among its inputs, which disqualifies the change heuristic.
func (c *Clusterizer) outputSpendsOwnInput(rec *blockchain.TxRecord) bool {
	for _, out := range rec.Outputs {
		for _, in := range rec.Inputs {
			if in.Addr == out.Addr {
				return true
			}
		}
	}
	return false
}

// addrDigest is the salted MD5 identifying an address in the output.
func (c *Clusterizer) addrDigest(addr chainutil.Address) [md5.Size]byte {
	return md5.Sum([]byte(c.salt + ":" + addr.String()))
}

// emitted reports whether addr belongs in the final output under the
// taint filter.
func (c *Clusterizer) emitted(addr chainutil.Address) bool {
	if !c.taintOnly {
		return true
	}
	_, ok := c.tainted[addr]
	return ok
}

// WriteCSV finalizes the forest and writes one row per emitted address
// as <cluster_id>,<address>,<digest16>.
//
// Cluster ids are small dense integers handed out in the order roots
// are first encountered.  The 16 hex digit digest is shared by every
// member of a cluster: it is the digest of the cluster representative,
// the member whose salted MD5 sorts highest.  Returns the number of
// clusters written.
func (c *Clusterizer) WriteCSV(w io.Writer) (int, error) {
	log.Infof("Found %d addresses", c.set.Len())

	// First pass: elect each cluster's representative digest.
	best := make(map[int][md5.Size]byte)
	for addr, id := range c.set.ids {
		if !c.emitted(addr) {
			continue
		}
		root := c.set.Find(id)
		digest := c.addrDigest(addr)
		if cur, ok := best[root]; !ok || bytes.Compare(digest[:], cur[:]) > 0 {
			best[root] = digest
		}
	}

	// Second pass: assign dense cluster ids and stream the rows.
	bw := bufio.NewWriterSize(w, 1<<20)
	c.clusterIDs = make(map[int]int, len(best))
	count := 0
	for addr, id := range c.set.ids {
		if !c.emitted(addr) {
			continue
		}
		root := c.set.Find(id)
		clusterID, ok := c.clusterIDs[root]
		if !ok {
			clusterID = len(c.clusterIDs)
			c.clusterIDs[root] = clusterID
		}
		digest := best[root]
		if _, err := fmt.Fprintf(bw, "%d,%s,%x\n",
			clusterID, addr.String(), digest[:8]); err != nil {
			return 0, err
		}

		count++
		if count%1_000_000 == 0 {
			log.Infof("Processed %d addresses, %d clusters",
				count, len(c.clusterIDs))
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}

	log.Infof("Found %d clusters", len(c.clusterIDs))
	return len(c.clusterIDs), nil
}

// ClusterOf returns the dense cluster id assigned to addr during
// WriteCSV, or false when addr was not part of the emitted output.
func (c *Clusterizer) ClusterOf(addr chainutil.Address) (int, bool) {
	if !c.emitted(addr) {
		return 0, false
	}
	root, ok := c.set.FindAddr(addr)
	if !ok {
		return 0, false
	}
	id, ok := c.clusterIDs[root]
	return id, ok
}
