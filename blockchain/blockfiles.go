// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// BlockFiles holds read-only memory mappings of the consecutive
// blk*.dat files in a node's blocks directory.
//
// Every decoded block, script, and hash in the pipeline borrows from
// these mappings, so Close must not be called until the run is fully
// drained.  Keeping all files mapped for the duration of a run is the
// discipline that makes the zero-copy decoding sound.
type BlockFiles struct {
	maps  [][]byte
	files []*os.File
}

// OpenBlockFiles maps blk00000.dat, blk00001.dat, ... from dir until
// the next consecutive file is missing or, when maxBlock is positive,
// until that file index has been mapped.
func OpenBlockFiles(dir string, maxBlock int) (*BlockFiles, error) {
	bf := &BlockFiles{}

	for n := 0; ; n++ {
		if maxBlock > 0 && n > maxBlock {
			break
		}

		path := filepath.Join(dir, fmt.Sprintf("blk%05d.dat", n))
		f, err := os.Open(path)
		if err != nil {
			if n == 0 {
				return nil, fmt.Errorf("unable to open blocks directory %q: %w", dir, err)
			}
			break
		}

		fi, err := f.Stat()
		if err != nil {
			f.Close()
			bf.Close()
			return nil, fmt.Errorf("unable to stat %q: %w", path, err)
		}
		if fi.Size() == 0 {
			f.Close()
			break
		}

		data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()),
			unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			f.Close()
			bf.Close()
			return nil, fmt.Errorf("unable to map %q: %w", path, err)
		}

		bf.maps = append(bf.maps, data)
		bf.files = append(bf.files, f)
		log.Debugf("Mapped %s (%d bytes)", path, fi.Size())
	}

	return bf, nil
}

// NumFiles returns the number of mapped files.
func (bf *BlockFiles) NumFiles() int {
	return len(bf.maps)
}

// File returns the mapped contents of file n.
func (bf *BlockFiles) File(n int) []byte {
	return bf.maps[n]
}

// Close unmaps and closes every file.  No byte slice handed out by the
// pipeline may be touched afterwards.
func (bf *BlockFiles) Close() error {
	var firstErr error
	for _, m := range bf.maps {
		if err := unix.Munmap(m); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range bf.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	bf.maps = nil
	bf.files = nil
	return firstErr
}
