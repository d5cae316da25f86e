// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// minTxInLen is the smallest possible serialized transaction
	// input: previous output 36, script length 1, sequence 4.
	minTxInLen = 41

	// minTxOutLen is the smallest possible serialized transaction
	// output: value 8, script length 1.
	minTxOutLen = 9

	// witnessMarker and witnessFlag introduce the extended
	// serialization format carrying segregated witness data.
	witnessMarker = 0x00
	witnessFlag   = 0x01
)

// OutPoint identifies a previous transaction output.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn is a decoded transaction input.  SignatureScript aliases the
// file mapping.
type TxIn struct {
	PrevOut         OutPoint
	SignatureScript []byte
	Sequence        uint32
}

// TxOut is a decoded transaction output.  PkScript aliases the file
// mapping.
type TxOut struct {
	Value    uint64
	PkScript []byte
}

// MsgTx is a decoded transaction together with its canonical id.
type MsgTx struct {
	Version  uint32
	LockTime uint32
	TxIn     []TxIn
	TxOut    []TxOut

	// TxID is the double sha256 over the serialized transaction
	// excluding the witness marker, flag, and witness data, held in
	// internal (little-endian) byte order.
	TxID chainhash.Hash

	// HasWitness reports whether the transaction used the extended
	// serialization format.
	HasWitness bool
}

// ReadMsgTx decodes the next transaction from r.
//
// The id is computed over exactly the non-witness byte ranges: the
// version, the input and output area, and the lock time, straddling
// the witness block when one is present.  Witness items themselves are
// skipped, not retained.
func ReadMsgTx(r *Reader) (*MsgTx, error) {
	versionBytes, err := r.ReadSlice(4)
	if err != nil {
		return nil, err
	}

	tx := &MsgTx{Version: littleEndian.Uint32(versionBytes)}

	marker, err := r.PeekByte()
	if err != nil {
		return nil, err
	}
	if marker == witnessMarker {
		r.ReadByte()
		flag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if flag != witnessFlag {
			return nil, ErrInvalid
		}
		tx.HasWitness = true
	}

	// Everything from here through the last output contributes to the
	// transaction id.
	body := r.Rest()

	inCount, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if inCount > uint64(r.Len()/minTxInLen)+1 {
		return nil, ErrInvalid
	}
	tx.TxIn = make([]TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		txIn, err := readTxIn(r)
		if err != nil {
			return nil, err
		}
		tx.TxIn = append(tx.TxIn, txIn)
	}

	outCount, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if outCount > uint64(r.Len()/minTxOutLen)+1 {
		return nil, ErrInvalid
	}
	tx.TxOut = make([]TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		txOut, err := readTxOut(r)
		if err != nil {
			return nil, err
		}
		tx.TxOut = append(tx.TxOut, txOut)
	}

	body = body[:len(body)-r.Len()]

	if tx.HasWitness {
		if err := skipWitnesses(r, inCount); err != nil {
			return nil, err
		}
	}

	lockTimeBytes, err := r.ReadSlice(4)
	if err != nil {
		return nil, err
	}
	tx.LockTime = littleEndian.Uint32(lockTimeBytes)

	// The three spans are contiguous for legacy transactions but
	// straddle the marker, flag, and witness block for segwit ones.
	// DoubleHashRaw streams them without reassembling a copy.
	tx.TxID = chainhash.DoubleHashRaw(func(w io.Writer) error {
		if _, err := w.Write(versionBytes); err != nil {
			return err
		}
		if _, err := w.Write(body); err != nil {
			return err
		}
		_, err := w.Write(lockTimeBytes)
		return err
	})
	return tx, nil
}

// readTxIn decodes a single transaction input.
func readTxIn(r *Reader) (TxIn, error) {
	var txIn TxIn

	prevHash, err := r.ReadSlice(chainhash.HashSize)
	if err != nil {
		return txIn, err
	}
	copy(txIn.PrevOut.Hash[:], prevHash)

	if txIn.PrevOut.Index, err = r.ReadUint32(); err != nil {
		return txIn, err
	}

	scriptLen, err := r.ReadVarInt()
	if err != nil {
		return txIn, err
	}
	if txIn.SignatureScript, err = r.ReadSlice(int(scriptLen)); err != nil {
		return txIn, err
	}

	txIn.Sequence, err = r.ReadUint32()
	return txIn, err
}

// readTxOut decodes a single transaction output.
func readTxOut(r *Reader) (TxOut, error) {
	var txOut TxOut

	value, err := r.ReadUint64()
	if err != nil {
		return txOut, err
	}
	txOut.Value = value

	scriptLen, err := r.ReadVarInt()
	if err != nil {
		return txOut, err
	}
	txOut.PkScript, err = r.ReadSlice(int(scriptLen))
	return txOut, err
}

// skipWitnesses advances past the witness stacks of all inputs without
// retaining the data.
func skipWitnesses(r *Reader, inCount uint64) error {
	for i := uint64(0); i < inCount; i++ {
		itemCount, err := r.ReadVarInt()
		if err != nil {
			return err
		}
		for j := uint64(0); j < itemCount; j++ {
			itemLen, err := r.ReadVarInt()
			if err != nil {
				return err
			}
			if _, err := r.ReadSlice(int(itemLen)); err != nil {
				return err
			}
		}
	}
	return nil
}
