// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainutil provides the address and taint primitives shared by
// the decoding and clustering stages.
package chainutil
