// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain reconstructs the main chain from on-disk block
files.

It memory-maps the blk files written by a full node, walks the
physically unordered block stream back into height order, and tracks
the unspent-output address table the transaction decoding stage uses to
resolve spends.  Nothing here validates consensus rules; the package
trusts the node that wrote the files.
*/
package blockchain
