// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainutil

// UntaintedLabel is the reserved label of value that carries no taint.
const UntaintedLabel uint8 = 0

// Taint is a labeled quantity of value.  A sequence of taints describes
// how an output's amount decomposes into labeled and unlabeled shares.
type Taint struct {
	Label  uint8
	Amount uint64
}

// HasLabeled reports whether any segment carries a non-zero label.
func HasLabeled(segs []Taint) bool {
	for _, seg := range segs {
		if seg.Label != UntaintedLabel {
			return true
		}
	}
	return false
}

// TaintQueue is a FIFO of taint segments.  Value flows out of the
// front of the queue in the order it flowed in, so proportional
// assignment to outputs falls out of repeated Apply calls.
type TaintQueue struct {
	segs []Taint
	head int
}

// NewTaintQueue returns a queue preloaded with the given segments.
func NewTaintQueue(segs ...Taint) *TaintQueue {
	return &TaintQueue{segs: segs}
}

// Push appends a segment to the back of the queue.
func (q *TaintQueue) Push(t Taint) {
	q.segs = append(q.segs, t)
}

// Extend appends a run of segments to the back of the queue.
func (q *TaintQueue) Extend(segs []Taint) {
	q.segs = append(q.segs, segs...)
}

// Len returns the number of segments remaining.
func (q *TaintQueue) Len() int {
	return len(q.segs) - q.head
}

// Empty reports whether no segments remain.
func (q *TaintQueue) Empty() bool {
	return q.Len() == 0
}

// Apply consumes up to amount of value from the front of the queue and
// returns the segments assigned to that slot.  A partially consumed
// segment is split, leaving the remainder at the front.  When the
// queue runs dry before amount is exhausted, the shortfall is returned
// as a trailing segment with the untainted label.
func (q *TaintQueue) Apply(amount uint64) []Taint {
	var out []Taint

	remaining := amount
	for remaining > 0 && q.head < len(q.segs) {
		seg := &q.segs[q.head]
		if seg.Amount <= remaining {
			out = append(out, *seg)
			remaining -= seg.Amount
			q.head++
			continue
		}
		out = append(out, Taint{Label: seg.Label, Amount: remaining})
		seg.Amount -= remaining
		remaining = 0
	}
	if q.head == len(q.segs) {
		// Every segment is consumed; reset so pushed segments do not
		// accumulate behind a dead prefix.
		q.segs = q.segs[:0]
		q.head = 0
	}

	if remaining > 0 {
		out = append(out, Taint{Label: UntaintedLabel, Amount: remaining})
	}
	return out
}
