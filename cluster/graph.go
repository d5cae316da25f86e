// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cluster

import (
	"bufio"
	"fmt"
	"io"

	"github.com/flokiorg/chainsift/blockchain"
)

// edge is a directed cluster pair.
type edge struct {
	src, dst int
}

// GraphWriter aggregates the directed cluster-to-cluster edges induced
// by a stream of transaction records against an already finalized
// clusterizer.  For each transaction every (input address, output
// address) pair whose clusters differ contributes one occurrence to the
// edge between those clusters, so one transaction can add several
// occurrences to the same edge.  Self-edges are excluded.
type GraphWriter struct {
	clusters *Clusterizer
	edges    map[edge]int
	maxSrc   int
	maxDst   int
}

// NewGraphWriter returns a graph aggregator reading cluster ids from
// clusters, which must have been finalized with WriteCSV already.
func NewGraphWriter(clusters *Clusterizer) *GraphWriter {
	return &GraphWriter{
		clusters: clusters,
		edges:    make(map[edge]int),
	}
}

// OnTransaction records the cluster edges of one transaction.
// Addresses without an assigned cluster id (filtered out of the CSV,
// or never clustered) contribute nothing.
func (g *GraphWriter) OnTransaction(rec *blockchain.TxRecord) {
	for _, in := range rec.Inputs {
		src, ok := g.clusters.ClusterOf(in.Addr)
		if !ok {
			continue
		}
		for _, out := range rec.Outputs {
			if in.Addr == out.Addr {
				continue
			}
			dst, ok := g.clusters.ClusterOf(out.Addr)
			if !ok || src == dst {
				continue
			}

			g.edges[edge{src: src, dst: dst}]++
			if src > g.maxSrc {
				g.maxSrc = src
			}
			if dst > g.maxDst {
				g.maxDst = dst
			}
		}
	}
}

// NumEdges returns the number of distinct directed edges seen.
func (g *GraphWriter) NumEdges() int {
	return len(g.edges)
}

// WriteTo writes the aggregated edge list: a header line with the
// highest source id, highest destination id, and edge count, then one
// whitespace-delimited line per edge as "src dst count".
func (g *GraphWriter) WriteTo(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := fmt.Fprintf(bw, "%d %d %d\n",
		g.maxSrc, g.maxDst, len(g.edges)); err != nil {
		return err
	}
	for e, count := range g.edges {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", e.src, e.dst, count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
