// Package rle implements the concrete run-length decoders the column
// readers treat as black boxes: boolean RLE, byte RLE, and integer RLE V1
// and V2 (with zigzag/varint helpers). Grounded on the teacher's
// orc/encoding package and root orc/encoding.go.
package rle

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ZigZag maps a signed integer onto an unsigned one so small magnitudes of
// either sign encode as small varints.
func ZigZag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// UnZigZag is ZigZag's inverse.
func UnZigZag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// ReadVarUint reads a base-128 varint, least significant group first.
func ReadVarUint(in io.ByteReader) (uint64, error) {
	var r uint64
	var shift uint
	for {
		b, err := in.ReadByte()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		r |= uint64(b&0x7f) << shift
		shift += 7
		if b < 0x80 {
			break
		}
		if shift > 63 {
			return 0, errors.New("rle: varint too long")
		}
	}
	return r, nil
}

// ReadVarInt reads a zigzag-encoded signed varint.
func ReadVarInt(in io.ByteReader) (int64, error) {
	u, err := ReadVarUint(in)
	if err != nil {
		return 0, err
	}
	return UnZigZag(u), nil
}

var big7f = big.NewInt(0x7f)

// ReadVarBigInt reads a base-128 varint of arbitrary width (DECIMAL's
// unscaled value can exceed 64 bits at precision 38) and un-zigzags it.
// Grounded on the ORC/protobuf varint scheme used throughout this package,
// widened to math/big since no int128 type exists in this repo's
// dependency set.
func ReadVarBigInt(in io.ByteReader) (*big.Int, error) {
	r := new(big.Int)
	shift := uint(0)
	for {
		b, err := in.ReadByte()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		group := new(big.Int).SetUint64(uint64(b & 0x7f))
		group.Lsh(group, shift)
		r.Or(r, group)
		shift += 7
		if b < 0x80 {
			break
		}
	}
	// un-zigzag: (r >> 1) ^ -(r & 1)
	bit0 := new(big.Int).And(r, big.NewInt(1))
	signed := new(big.Int).Rsh(r, 1)
	if bit0.Sign() != 0 {
		signed.Not(signed)
	}
	return signed, nil
}
