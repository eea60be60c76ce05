package rle

import "io"

// BoolDecoder unpacks boolean RLE: a byte-RLE stream of packed bits, MSB
// first within each byte. Grounded on orc/encoding/bool.go.
type BoolDecoder struct {
	bytes  *ByteRunDecoder
	buf    [1]byte
	bitPos int // 8 means a fresh byte must be pulled
}

func NewBoolDecoder(in io.ByteReader) *BoolDecoder {
	return &BoolDecoder{bytes: NewByteRunDecoder(in), bitPos: 8}
}

func (d *BoolDecoder) next() (bool, error) {
	if d.bitPos == 8 {
		if err := d.bytes.Next(d.buf[:]); err != nil {
			return false, err
		}
		d.bitPos = 0
	}
	bit := (d.buf[0]>>(7-uint(d.bitPos)))&0x1 == 0x1
	d.bitPos++
	return bit, nil
}

// Next fills dst with n decoded booleans.
func (d *BoolDecoder) Next(dst []bool) error {
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// NextMasked fills dst, consuming an input bit only where mask is nil or
// mask[i] != 0; masked-out positions are left false, per spec.md §6's RLE
// decoder contract ("do not consume an input bit/value for positions
// where mask is zero").
func (d *BoolDecoder) NextMasked(dst []bool, mask []byte) error {
	for i := range dst {
		if mask != nil && mask[i] == 0 {
			dst[i] = false
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

func (d *BoolDecoder) Skip(n int) error {
	buf := make([]bool, n)
	return d.Next(buf)
}
