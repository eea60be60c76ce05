package rle

import (
	"io"

	"github.com/pkg/errors"
)

// IntV1Decoder decodes RLE V1 integer runs: a control byte selects between
// a fixed-delta run (base + i*delta for i in [0, length)) and a literal
// run of varints. Grounded on the (disabled) intRunLengthV1 in the
// teacher's root orc/encoding.go, corrected against the per-index delta
// semantics the ORC spec defines — the teacher's version there applies the
// same base+delta to every element in a run instead of base+i*delta.
type IntV1Decoder struct {
	in     io.ByteReader
	signed bool

	run       bool
	remaining int
	base      int64
	delta     int64
	index     int
}

func NewIntV1Decoder(in io.ByteReader, signed bool) *IntV1Decoder {
	return &IntV1Decoder{in: in, signed: signed}
}

func readVarSigned(in io.ByteReader, signed bool) (int64, error) {
	if signed {
		return ReadVarInt(in)
	}
	u, err := ReadVarUint(in)
	return int64(u), err
}

func (d *IntV1Decoder) startRun() error {
	control, err := d.in.ReadByte()
	if err != nil {
		return errors.WithStack(err)
	}
	signedControl := int8(control)
	if signedControl >= 0 {
		d.run = true
		d.remaining = int(signedControl) + 3
		deltaByte, err := d.in.ReadByte()
		if err != nil {
			return errors.WithStack(err)
		}
		d.delta = int64(int8(deltaByte))
		d.base, err = readVarSigned(d.in, d.signed)
		if err != nil {
			return err
		}
		d.index = 0
	} else {
		d.run = false
		d.remaining = -int(signedControl)
	}
	return nil
}

func (d *IntV1Decoder) next() (int64, error) {
	if d.remaining == 0 {
		if err := d.startRun(); err != nil {
			return 0, err
		}
	}
	var v int64
	if d.run {
		v = d.base + int64(d.index)*d.delta
		d.index++
	} else {
		var err error
		v, err = readVarSigned(d.in, d.signed)
		if err != nil {
			return 0, err
		}
	}
	d.remaining--
	return v, nil
}

// Next fills dst with n decoded values (as int64; callers needing uint64
// semantics reinterpret the bits, same as the teacher's RLE V2 decoder).
func (d *IntV1Decoder) Next(dst []int64) error {
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// NextMasked fills dst, consuming an input value only where mask is nil or
// mask[i] != 0.
func (d *IntV1Decoder) NextMasked(dst []int64, mask []byte) error {
	for i := range dst {
		if mask != nil && mask[i] == 0 {
			dst[i] = 0
			continue
		}
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (d *IntV1Decoder) Skip(n int) error {
	buf := make([]int64, n)
	return d.Next(buf)
}
