// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// blkdump prints the main chain reconstructed from a blocks directory,
// one line per block, for eyeballing what the pipeline will consume.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/wire"
)

type config struct {
	BlocksDir string `short:"b" long:"blocks-dir" description:"Path to the bitcoind blocks directory"`
	MaxBlock  int    `short:"m" long:"max-block" description:"Process up to the blk file with this index (0 means all)"`
}

func realMain() error {
	cfg := config{
		BlocksDir: filepath.Join(os.Getenv("HOME"), ".bitcoin", "blocks"),
	}
	if _, err := flags.Parse(&cfg); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	files, err := blockchain.OpenBlockFiles(cfg.BlocksDir, cfg.MaxBlock)
	if err != nil {
		return err
	}
	defer files.Close()

	walker := blockchain.NewWalker(func(block wire.Block, height int64) {
		header := block.Header()
		txCount, _ := block.Transactions()
		fmt.Printf("%8d  %s  %s  %5d txs\n",
			height,
			header.BlockHash(),
			time.Unix(int64(header.Timestamp()), 0).UTC().Format(time.RFC3339),
			txCount)
	})
	for n := 0; n < files.NumFiles(); n++ {
		if err := walker.WalkFile(wire.NewReader(files.File(n))); err != nil {
			fmt.Fprintf(os.Stderr, "file %d: %v\n", n, err)
		}
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
