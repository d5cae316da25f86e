// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript classifies output scripts into the address-bearing
standard templates.

The package does not execute scripts.  It tokenizes the bytecode far
enough to strip idempotent prefixes, match the standard templates, and
sanity-check the control-flow structure of anything non-standard, which
is all the clustering pipeline needs.
*/
package txscript
