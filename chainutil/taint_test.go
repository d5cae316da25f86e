// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTaintQueueApply covers whole-segment consumption, splitting, and
// the untainted shortfall trailer.
func TestTaintQueueApply(t *testing.T) {
	q := NewTaintQueue(
		Taint{Label: 1, Amount: 50},
		Taint{Label: 2, Amount: 30},
	)

	// Consumes the first segment entirely and splits the second.
	got := q.Apply(60)
	require.Equal(t, []Taint{{Label: 1, Amount: 50}, {Label: 2, Amount: 10}}, got)
	require.Equal(t, 1, q.Len())

	// Drains the remainder and pads the shortfall with label zero.
	got = q.Apply(100)
	require.Equal(t, []Taint{{Label: 2, Amount: 20}, {Label: 0, Amount: 80}}, got)
	require.True(t, q.Empty())

	// An empty queue yields nothing but padding.
	got = q.Apply(5)
	require.Equal(t, []Taint{{Label: 0, Amount: 5}}, got)
}

// TestTaintQueueSplitSequence walks the taint split scenario: a seed
// of 100 under label 7 splits 30/70 over two outputs, and the 30 share
// then splits 10/20 again.
func TestTaintQueueSplitSequence(t *testing.T) {
	seed := NewTaintQueue(Taint{Label: 7, Amount: 100})

	x := seed.Apply(30)
	require.Equal(t, []Taint{{Label: 7, Amount: 30}}, x)
	y := seed.Apply(70)
	require.Equal(t, []Taint{{Label: 7, Amount: 70}}, y)
	require.True(t, seed.Empty())

	carried := NewTaintQueue(x...)
	p := carried.Apply(10)
	require.Equal(t, []Taint{{Label: 7, Amount: 10}}, p)
	q := carried.Apply(20)
	require.Equal(t, []Taint{{Label: 7, Amount: 20}}, q)
}

// TestTaintQueuePushAfterDrain ensures a drained queue accepts new
// segments cleanly.
func TestTaintQueuePushAfterDrain(t *testing.T) {
	q := NewTaintQueue(Taint{Label: 3, Amount: 5})
	q.Apply(5)
	require.True(t, q.Empty())

	q.Extend([]Taint{{Label: 4, Amount: 8}})
	require.Equal(t, 1, q.Len())
	require.Equal(t, []Taint{{Label: 4, Amount: 8}}, q.Apply(8))
}

// TestHasLabeled distinguishes labeled from padding-only segment
// lists.
func TestHasLabeled(t *testing.T) {
	require.False(t, HasLabeled(nil))
	require.False(t, HasLabeled([]Taint{{Label: 0, Amount: 9}}))
	require.True(t, HasLabeled([]Taint{{Label: 0, Amount: 9}, {Label: 1, Amount: 1}}))
}
