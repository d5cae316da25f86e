// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package cluster groups addresses into wallets.

A union-find forest over addresses is folded from the transaction
stream under the common-input-ownership heuristic and a gated
change-address heuristic, then flattened into a CSV of cluster
assignments.  An optional second pass aggregates the transaction graph
over cluster identifiers.
*/
package cluster
