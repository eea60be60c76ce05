package rle

import (
	"io"

	"github.com/pkg/errors"
)

// DecodeByteRun decodes len(dst) bytes of byte-RLE into dst in one shot.
// Control byte < 0x80 is a run: the next literal byte repeats
// (control+3) times. Control byte >= 0x80 is a literal sequence of
// (256-control) raw bytes. Grounded on orc/encoding/byte.go.
func DecodeByteRun(in io.ByteReader, dst []byte) error {
	d := NewByteRunDecoder(in)
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// ByteRunDecoder decodes byte RLE one value at a time, so a mask-aware
// caller (§4.1's PRESENT decode, §4.8's union tag stream) can skip
// consuming input for masked-out positions without losing run state.
type ByteRunDecoder struct {
	in io.ByteReader

	runMode      bool
	runValue     byte
	runRemaining int // remaining repeats (run mode) or remaining literals
}

func NewByteRunDecoder(in io.ByteReader) *ByteRunDecoder {
	return &ByteRunDecoder{in: in}
}

func (d *ByteRunDecoder) next() (byte, error) {
	for d.runRemaining == 0 {
		control, err := d.in.ReadByte()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		if control < 0x80 {
			d.runMode = true
			d.runRemaining = int(control) + 3
			v, err := d.in.ReadByte()
			if err != nil {
				return 0, errors.WithStack(err)
			}
			d.runValue = v
		} else {
			d.runMode = false
			d.runRemaining = 256 - int(control)
		}
	}
	d.runRemaining--
	if d.runMode {
		return d.runValue, nil
	}
	return d.in.ReadByte()
}

// Next fills dst with len(dst) decoded bytes.
func (d *ByteRunDecoder) Next(dst []byte) error {
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// NextMasked fills dst, consuming an input byte only where mask is nil or
// mask[i] != 0; masked-out positions are left zero.
func (d *ByteRunDecoder) NextMasked(dst []byte, mask []byte) error {
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

func (d *ByteRunDecoder) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := d.next(); err != nil {
			return err
		}
	}
	return nil
}
