// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cluster

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/chainutil"
)

// rec builds a transaction record from bare address/value pairs.
func rec(inputs, outputs []blockchain.AddrValue) *blockchain.TxRecord {
	numIn := uint64(len(inputs))
	if numIn == 0 {
		numIn = 1 // coinbase
	}
	return &blockchain.TxRecord{
		NumInputs:  numIn,
		NumOutputs: uint64(len(outputs)),
		Inputs:     inputs,
		Outputs:    outputs,
	}
}

func av(seed string, value uint64) blockchain.AddrValue {
	return blockchain.AddrValue{Addr: testAddr(seed), Value: value}
}

// TestCommonInputHeuristic unions all inputs of one transaction and
// merges clusters transitively across transactions.
func TestCommonInputHeuristic(t *testing.T) {
	c := NewClusterizer("salt", false)

	// Three inputs collapse into one cluster; the output stays apart.
	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("i1", 10), av("i2", 20), av("i3", 30)},
		[]blockchain.AddrValue{av("o1", 55)},
	))
	s := c.Set()
	require.True(t, s.InUnion(testAddr("i1"), testAddr("i2")))
	require.True(t, s.InUnion(testAddr("i2"), testAddr("i3")))
	require.False(t, s.InUnion(testAddr("i1"), testAddr("o1")))
	require.True(t, s.Contains(testAddr("o1")))

	// A later spend sharing i2 with a new address joins the clusters.
	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("i2", 5), av("i9", 5)},
		[]blockchain.AddrValue{av("o2", 9)},
	))
	require.True(t, s.InUnion(testAddr("i1"), testAddr("i9")))
}

// TestCoinbaseNoUnion ensures coinbase records insert their outputs
// without any merging.
func TestCoinbaseNoUnion(t *testing.T) {
	c := NewClusterizer("salt", false)

	c.OnTransaction(rec(nil,
		[]blockchain.AddrValue{av("cb1", 50_0000_0000), av("cb2", 12345)}))

	s := c.Set()
	require.True(t, s.Contains(testAddr("cb1")))
	require.True(t, s.Contains(testAddr("cb2")))
	require.False(t, s.InUnion(testAddr("cb1"), testAddr("cb2")))
}

// TestChangeHeuristic exercises the two-output change detection and
// each of its gates.
func TestChangeHeuristic(t *testing.T) {
	c := NewClusterizer("salt", false)
	s := c.Set()

	// Make the payment address known beforehand.
	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("p-owner", 5)},
		[]blockchain.AddrValue{av("payment", 5)},
	))

	// One input, two outputs, exactly one (payment) known, and the
	// other output has a non-round amount: it is change.
	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("payer", 2_0000_0000)},
		[]blockchain.AddrValue{av("payment", 1_0000_0000), av("change", 99_987_654)},
	))
	require.True(t, s.InUnion(testAddr("payer"), testAddr("change")))
	require.False(t, s.InUnion(testAddr("payer"), testAddr("payment")))
}

// TestChangeHeuristicBothUnknown mirrors the scenario where neither
// output has been seen before: no output joins the payer's cluster.
func TestChangeHeuristicBothUnknown(t *testing.T) {
	c := NewClusterizer("salt", false)
	s := c.Set()

	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("payer", 3_0000_0000)},
		[]blockchain.AddrValue{av("b", 1_0000_0000), av("c", 1_23456789)},
	))
	require.False(t, s.InUnion(testAddr("payer"), testAddr("b")))
	require.False(t, s.InUnion(testAddr("payer"), testAddr("c")))
}

// TestChangeHeuristicGates covers the disqualifiers one at a time.
func TestChangeHeuristicGates(t *testing.T) {
	t.Run("round amount", func(t *testing.T) {
		c := NewClusterizer("salt", false)
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("k-owner", 5)},
			[]blockchain.AddrValue{av("known", 5)},
		))
		// The candidate amount is whole to four decimal places.
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("payer", 5_0000_0000)},
			[]blockchain.AddrValue{av("known", 1_0000_0000), av("cand", 2_5000_0000)},
		))
		require.False(t, c.Set().InUnion(testAddr("payer"), testAddr("cand")))
	})

	t.Run("two inputs", func(t *testing.T) {
		c := NewClusterizer("salt", false)
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("k-owner", 5)},
			[]blockchain.AddrValue{av("known", 5)},
		))
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("p1", 1), av("p2", 1)},
			[]blockchain.AddrValue{av("known", 1), av("cand", 99_987_654)},
		))
		require.False(t, c.Set().InUnion(testAddr("p1"), testAddr("cand")))
	})

	t.Run("output is also input", func(t *testing.T) {
		c := NewClusterizer("salt", false)
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("k-owner", 5)},
			[]blockchain.AddrValue{av("known", 5)},
		))
		c.OnTransaction(rec(
			[]blockchain.AddrValue{av("known", 2_0000_0000)},
			[]blockchain.AddrValue{av("known", 1_0000_0000), av("cand", 99_987_654)},
		))
		require.False(t, c.Set().InUnion(testAddr("known"), testAddr("cand")))
	})
}

// TestWriteCSV checks the row format, the shared per-cluster digest,
// and the dense id assignment.
func TestWriteCSV(t *testing.T) {
	c := NewClusterizer("kyblsoft.cz", false)

	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("x", 1), av("y", 2)},
		[]blockchain.AddrValue{av("z", 3)},
	))

	var buf bytes.Buffer
	clusters, err := c.WriteCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, clusters)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	digests := make(map[string]map[string]struct{})
	for _, line := range lines {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 3)
		require.Len(t, fields[2], 16)
		if digests[fields[0]] == nil {
			digests[fields[0]] = make(map[string]struct{})
		}
		digests[fields[0]][fields[2]] = struct{}{}
	}

	// Two clusters, each with a single shared digest.
	require.Len(t, digests, 2)
	for id, set := range digests {
		require.Lenf(t, set, 1, "cluster %s digest not shared", id)
	}

	// The digest of the {x, y} cluster is the maximum salted MD5 of
	// its members.
	xd := md5.Sum([]byte("kyblsoft.cz:" + testAddr("x").String()))
	yd := md5.Sum([]byte("kyblsoft.cz:" + testAddr("y").String()))
	want := xd
	if bytes.Compare(yd[:], xd[:]) > 0 {
		want = yd
	}
	require.Contains(t, buf.String(), fmt.Sprintf("%x", want[:8]))
}

// TestWriteCSVTaintFilter restricts the output to tainted addresses.
func TestWriteCSVTaintFilter(t *testing.T) {
	c := NewClusterizer("salt", true)

	c.OnTransaction(rec(
		[]blockchain.AddrValue{av("in", 100)},
		[]blockchain.AddrValue{
			{Addr: testAddr("hot"), Value: 60,
				Taints: []chainutil.Taint{{Label: 1, Amount: 60}}},
			{Addr: testAddr("cold"), Value: 30,
				Taints: []chainutil.Taint{{Label: 0, Amount: 30}}},
		},
	))

	var buf bytes.Buffer
	_, err := c.WriteCSV(&buf)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, testAddr("hot").String())
	require.NotContains(t, out, testAddr("cold").String())
	require.NotContains(t, out, testAddr("in").String())
}

// TestClusteringIdempotent replays the same record stream into two
// clusterizers and expects the same partition, regardless of the
// cluster id permutation.
func TestClusteringIdempotent(t *testing.T) {
	records := []*blockchain.TxRecord{
		rec([]blockchain.AddrValue{av("a", 1), av("b", 2)},
			[]blockchain.AddrValue{av("c", 2)}),
		rec([]blockchain.AddrValue{av("c", 2)},
			[]blockchain.AddrValue{av("d", 1), av("e", 99_987_654)}),
		rec([]blockchain.AddrValue{av("b", 7), av("f", 1)},
			[]blockchain.AddrValue{av("g", 7)}),
	}

	c1 := NewClusterizer("salt", false)
	c2 := NewClusterizer("salt", false)
	for _, r := range records {
		c1.OnTransaction(r)
		c2.OnTransaction(r)
	}

	addrs := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, x := range addrs {
		for _, y := range addrs {
			require.Equal(t,
				c1.Set().InUnion(testAddr(x), testAddr(y)),
				c2.Set().InUnion(testAddr(x), testAddr(y)),
				"partition differs at (%s, %s)", x, y)
		}
	}
}

// TestGraphWriter aggregates directed cluster edges with counts.
func TestGraphWriter(t *testing.T) {
	c := NewClusterizer("salt", false)

	r := rec(
		[]blockchain.AddrValue{av("src1", 10), av("src2", 20)},
		[]blockchain.AddrValue{av("dst", 29)},
	)
	c.OnTransaction(r)

	var buf bytes.Buffer
	_, err := c.WriteCSV(&buf)
	require.NoError(t, err)

	g := NewGraphWriter(c)
	g.OnTransaction(r)
	g.OnTransaction(r)
	require.Equal(t, 1, g.NumEdges())

	var out bytes.Buffer
	require.NoError(t, g.WriteTo(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	srcID, okSrc := c.ClusterOf(testAddr("src1"))
	dstID, okDst := c.ClusterOf(testAddr("dst"))
	require.True(t, okSrc)
	require.True(t, okDst)

	// Both inputs share a cluster, so the two records fold into one
	// edge seen four times (two inputs x two replays).
	require.Equal(t, fmt.Sprintf("%d %d 1", g.maxSrc, g.maxDst), lines[0])
	require.Equal(t, fmt.Sprintf("%d %d 4", srcID, dstID), lines[1])
}
