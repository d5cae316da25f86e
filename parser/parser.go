// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/flokiorg/chainsift/blockchain"
	"github.com/flokiorg/chainsift/cluster"
)

// DefaultQueueSize is the capacity of the inter-stage channels when
// the caller does not pick one.
const DefaultQueueSize = 1000

// DefaultSalt prefixes the anonymized address digests in the CSV
// output.
const DefaultSalt = "kyblsoft.cz"

// Config carries everything a pipeline run needs.
type Config struct {
	// BlocksDir is the directory holding the node's blk*.dat files.
	BlocksDir string

	// MaxBlock caps the blk file index to process; zero means all.
	MaxBlock int

	// QueueSize is the capacity of the channels between stages.
	QueueSize int

	// OutputPath receives the cluster CSV.
	OutputPath string

	// InputPath optionally names the taint seed file.  Taint
	// propagation runs iff it is non-empty.
	InputPath string

	// GraphPath optionally names the cluster graph output.  The
	// graph pass reruns the decoding stages after clustering.
	GraphPath string

	// Salt prefixes the anonymized address digests.
	Salt string
}

// Parser drives the full run: block reading, transaction decoding,
// clustering, and the optional graph pass.
type Parser struct {
	cfg Config

	startTxs []StartTx
	labels   map[string]uint8
}

// New returns a parser for the given configuration, applying defaults
// for the queue size and salt.
func New(cfg Config) *Parser {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Salt == "" {
		cfg.Salt = DefaultSalt
	}
	return &Parser{cfg: cfg}
}

// Run executes the pipeline to completion.  Inability to open the
// blocks directory, the taint input, or an output file is fatal;
// everything below that level is logged and survived.
func (p *Parser) Run() error {
	if p.cfg.InputPath != "" {
		startTxs, labels, err := LoadStartTxs(p.cfg.InputPath)
		if err != nil {
			return err
		}
		p.startTxs, p.labels = startTxs, labels
		p.logLabels()
	}

	files, err := blockchain.OpenBlockFiles(p.cfg.BlocksDir, p.cfg.MaxBlock)
	if err != nil {
		return err
	}
	defer files.Close()
	log.Infof("Mapped %d block files from %s", files.NumFiles(), p.cfg.BlocksDir)

	out, err := os.Create(p.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file %q: %w", p.cfg.OutputPath, err)
	}
	defer out.Close()

	clusterizer := cluster.NewClusterizer(p.cfg.Salt, len(p.startTxs) > 0)
	p.runPass(files, clusterizer.OnTransaction)

	clusters, err := clusterizer.WriteCSV(out)
	if err != nil {
		return fmt.Errorf("unable to write output file %q: %w", p.cfg.OutputPath, err)
	}
	log.Infof("Wrote %d clusters to %s", clusters, p.cfg.OutputPath)

	if p.cfg.GraphPath != "" {
		if err := p.runGraphPass(files, clusterizer); err != nil {
			return err
		}
	}
	return nil
}

// runPass runs the three pipeline stages over the mapped files and
// hands every transaction record to sink on the clustering worker.
//
// Stage one walks blocks into main-chain order, stage two decodes
// transactions against the UTXO table, and stage three is the sink.
// The bounded channels apply backpressure between them; closing each
// channel propagates end-of-stream downstream.  The call returns once
// all three workers have drained.
func (p *Parser) runPass(files *blockchain.BlockFiles, sink func(*blockchain.TxRecord)) {
	blockCh := make(chan blockMsg, p.cfg.QueueSize)
	txCh := make(chan *blockchain.TxRecord, p.cfg.QueueSize)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		readBlocks(files, blockCh)
	}()
	go func() {
		defer wg.Done()
		decodeTransactions(blockCh, txCh, buildStartQueues(p.startTxs))
	}()
	go func() {
		defer wg.Done()
		for rec := range txCh {
			sink(rec)
		}
	}()
	wg.Wait()
}

// runGraphPass reruns the decoding stages with a fresh UTXO table and
// fresh taint queues, aggregating cluster-to-cluster edges against the
// finalized clusterizer, and writes the edge list.
func (p *Parser) runGraphPass(files *blockchain.BlockFiles, clusterizer *cluster.Clusterizer) error {
	log.Infof("Building cluster graph")

	graph := cluster.NewGraphWriter(clusterizer)
	p.runPass(files, graph.OnTransaction)

	out, err := os.Create(p.cfg.GraphPath)
	if err != nil {
		return fmt.Errorf("unable to create graph file %q: %w", p.cfg.GraphPath, err)
	}
	defer out.Close()

	if err := graph.WriteTo(out); err != nil {
		return fmt.Errorf("unable to write graph file %q: %w", p.cfg.GraphPath, err)
	}
	log.Infof("Wrote %d graph edges to %s", graph.NumEdges(), p.cfg.GraphPath)
	return nil
}

// logLabels reports the tag-to-label assignment of the taint input.
func (p *Parser) logLabels() {
	tags := make([]string, 0, len(p.labels))
	for tag := range p.labels {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return p.labels[tags[i]] < p.labels[tags[j]]
	})
	for _, tag := range tags {
		log.Infof("Tracking taint label %d: %s", p.labels[tag], tag)
	}
}
