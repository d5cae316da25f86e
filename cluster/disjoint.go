// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cluster

import (
	"github.com/flokiorg/chainsift/chainutil"
)

// DisjointSet is a union-find over addresses with path compression and
// union by rank.
//
// Addresses are interned to dense integer ids on first sight and never
// removed, so the parent and rank columns are flat slices rather than
// per-node allocations.  All mutation happens on the single clustering
// worker; nothing here is safe for concurrent use.
type DisjointSet struct {
	ids    map[chainutil.Address]int
	parent []int
	rank   []uint8
}

// NewDisjointSet returns an empty forest.
func NewDisjointSet() *DisjointSet {
	return &DisjointSet{
		ids: make(map[chainutil.Address]int),
	}
}

// Len returns the number of addresses in the forest.
func (s *DisjointSet) Len() int {
	return len(s.ids)
}

// Contains reports whether addr has been observed.
func (s *DisjointSet) Contains(addr chainutil.Address) bool {
	_, ok := s.ids[addr]
	return ok
}

// MakeSet inserts addr as its own singleton if new and returns its id.
func (s *DisjointSet) MakeSet(addr chainutil.Address) int {
	if id, ok := s.ids[addr]; ok {
		return id
	}
	id := len(s.parent)
	s.ids[addr] = id
	s.parent = append(s.parent, id)
	s.rank = append(s.rank, 0)
	return id
}

// Find returns the root id of the set containing id, compressing the
// path walked along the way.
func (s *DisjointSet) Find(id int) int {
	root := id
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[id] != root {
		s.parent[id], id = root, s.parent[id]
	}
	return root
}

// FindAddr returns the root id of addr's set, or false when addr has
// never been observed.
func (s *DisjointSet) FindAddr(addr chainutil.Address) (int, bool) {
	id, ok := s.ids[addr]
	if !ok {
		return 0, false
	}
	return s.Find(id), true
}

// Union joins the sets of a and b, inserting either if absent.  The
// lower-ranked root is hung under the higher-ranked one; equal ranks
// pick the second root and increment its rank.
func (s *DisjointSet) Union(a, b chainutil.Address) {
	aRoot := s.Find(s.MakeSet(a))
	bRoot := s.Find(s.MakeSet(b))
	if aRoot == bRoot {
		return
	}

	switch {
	case s.rank[aRoot] < s.rank[bRoot]:
		s.parent[aRoot] = bRoot
	case s.rank[aRoot] > s.rank[bRoot]:
		s.parent[bRoot] = aRoot
	default:
		s.parent[aRoot] = bRoot
		s.rank[bRoot]++
	}
}

// InUnion reports whether a and b are currently in the same set.
// Unobserved addresses are in no set.
func (s *DisjointSet) InUnion(a, b chainutil.Address) bool {
	aRoot, ok := s.FindAddr(a)
	if !ok {
		return false
	}
	bRoot, ok := s.FindAddr(b)
	if !ok {
		return false
	}
	return aRoot == bRoot
}

// ForEach calls fn for every observed address with its id.  Iteration
// order is unspecified.
func (s *DisjointSet) ForEach(fn func(addr chainutil.Address, id int)) {
	for addr, id := range s.ids {
		fn(addr, id)
	}
}
