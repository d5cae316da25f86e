// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package parser

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/flokiorg/chainsift/chainutil"
)

// StartTx seeds taint at a transaction: every output of the named
// transaction draws its taint from a queue preloaded with Amount under
// Label.
type StartTx struct {
	TxID   chainhash.Hash
	Label  uint8
	Amount uint64
}

// maxLabels caps the distinct start transactions: label zero is
// reserved for untainted value and labels are a single byte.
const maxLabels = 255

// LoadStartTxs parses a taint input file of one record per line in the
// form "txid_hex,tag,amount", with the txid in display (big-endian)
// byte order and the amount in satoshis.
//
// Each unique txid is assigned a monotonically increasing label
// starting at one; repeated txids keep their first record.  The
// returned map takes each tag to its label for reporting; when several
// start transactions share a tag, it holds the label of the last one.
func LoadStartTxs(path string) ([]StartTx, map[string]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open taint input %q: %w", path, err)
	}
	defer f.Close()

	var startTxs []StartTx
	labels := make(map[string]uint8)
	seen := make(map[chainhash.Hash]struct{})

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("taint input line %d: expected txid,tag,amount", lineNo)
		}

		txid, err := chainhash.NewHashFromStr(parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("taint input line %d: bad txid: %w", lineNo, err)
		}
		if _, ok := seen[*txid]; ok {
			continue
		}

		amount, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("taint input line %d: bad amount: %w", lineNo, err)
		}

		if len(startTxs) == maxLabels {
			return nil, nil, fmt.Errorf("taint input holds more than %d start transactions", maxLabels)
		}
		label := uint8(len(startTxs) + 1)
		seen[*txid] = struct{}{}
		labels[parts[1]] = label
		startTxs = append(startTxs, StartTx{
			TxID:   *txid,
			Label:  label,
			Amount: amount,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("unable to read taint input %q: %w", path, err)
	}

	return startTxs, labels, nil
}

// buildStartQueues materializes fresh taint queues for one pipeline
// pass.  Queues are consumed as the pass runs, so each pass needs its
// own copy.
func buildStartQueues(startTxs []StartTx) map[chainhash.Hash]*chainutil.TaintQueue {
	if len(startTxs) == 0 {
		return nil
	}
	queues := make(map[chainhash.Hash]*chainutil.TaintQueue, len(startTxs))
	for _, st := range startTxs {
		queues[st.TxID] = chainutil.NewTaintQueue(chainutil.Taint{
			Label:  st.Label,
			Amount: st.Amount,
		})
	}
	return queues
}
