// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// littleEndian is a convenience alias so the field readers line up with
// the serialization code they were derived from.
var littleEndian = binary.LittleEndian

// Reader is a zero-copy cursor over a byte slice, typically a read-only
// memory mapping of a blk file.  All Read methods advance the cursor
// and return slices that alias the underlying buffer, so the results
// must not outlive the mapping.
type Reader struct {
	buf []byte
}

// NewReader returns a cursor positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if len(r.buf) < 1 {
		return 0, ErrEOF
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

// PeekByte returns the next byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) {
	if len(r.buf) < 1 {
		return 0, ErrEOF
	}
	return r.buf[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if len(r.buf) < 2 {
		return 0, ErrEOF
	}
	v := littleEndian.Uint16(r.buf)
	r.buf = r.buf[2:]
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrEOF
	}
	v := littleEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if len(r.buf) < 8 {
		return 0, ErrEOF
	}
	v := littleEndian.Uint64(r.buf)
	r.buf = r.buf[8:]
	return v, nil
}

// ReadSlice reads n bytes and returns them as a sub-slice of the
// underlying buffer without copying.
func (r *Reader) ReadSlice(n int) ([]byte, error) {
	if n < 0 || len(r.buf) < n {
		return nil, ErrEOF
	}
	s := r.buf[:n:n]
	r.buf = r.buf[n:]
	return s, nil
}

// Rest returns every unread byte without advancing the cursor.
func (r *Reader) Rest() []byte {
	return r.buf
}

// ReadVarInt reads a variable length integer per the bitcoin
// serialization convention: a first byte below 0xfd is the value
// itself, while 0xfd, 0xfe, and 0xff prefix a little-endian 2, 4, or
// 8 byte value respectively.
func (r *Reader) ReadVarInt() (uint64, error) {
	discriminant, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch discriminant {
	case 0xff:
		return r.ReadUint64()

	case 0xfe:
		v, err := r.ReadUint32()
		return uint64(v), err

	case 0xfd:
		v, err := r.ReadUint16()
		return uint64(v), err

	default:
		return uint64(discriminant), nil
	}
}
