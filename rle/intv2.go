package rle

import (
	"io"

	"github.com/pkg/errors"
)

type intV2SubEncoding byte

const (
	subShortRepeat intV2SubEncoding = 0
	subDirect      intV2SubEncoding = 1
	subPatchedBase intV2SubEncoding = 2
	subDelta       intV2SubEncoding = 3
)

// widthDecoding maps the 5-bit encoded width field (W) of RLE V2's Direct,
// Patched Base, and Delta sub-encodings to an actual bit width. Grounded on
// orc/encoding/encoding.go's widthDecoding.
func widthDecoding(w byte, delta bool) (byte, error) {
	switch {
	case 2 <= w && w <= 23:
		return w + 1, nil
	case w == 24:
		return 26, nil
	case w == 25:
		return 28, nil
	case w == 26:
		return 30, nil
	}
	switch w {
	case 0:
		if delta {
			return 0, nil
		}
		return 1, nil
	case 1:
		return 2, nil
	case 27:
		return 32, nil
	case 28:
		return 40, nil
	case 29:
		return 48, nil
	case 30:
		return 56, nil
	case 31:
		return 64, nil
	default:
		return 0, errors.Errorf("rle: int v2 width code %d out of range", w)
	}
}

// IntV2Decoder decodes RLE V2 integer runs. A run is decoded in full on
// each call that starts one and buffered until consumed, since none of the
// four sub-encodings can be unpacked one value at a time without first
// reading its header. Grounded on orc/encoding/int.go's IntRL2.Decode.
type IntV2Decoder struct {
	in     io.ByteReader
	signed bool

	lastByte byte
	bitsLeft int

	buf    []uint64
	bufPos int
}

func NewIntV2Decoder(in io.ByteReader, signed bool) *IntV2Decoder {
	return &IntV2Decoder{in: in, signed: signed}
}

// readFullFromByteReader fills buf by reading one byte at a time, since
// io.ReadFull requires an io.Reader and d.in is only an io.ByteReader.
func readFullFromByteReader(r io.ByteReader, buf []byte) error {
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

func (d *IntV2Decoder) forgetBits() {
	d.bitsLeft = 0
	d.lastByte = 0
}

func (d *IntV2Decoder) readBits(bits int) (uint64, error) {
	hasBits := d.bitsLeft
	data := uint64(d.lastByte)
	for hasBits < bits {
		b, err := d.in.ReadByte()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		data = data<<8 | uint64(b)
		hasBits += 8
	}
	d.bitsLeft = hasBits - bits
	value := data >> uint(d.bitsLeft)
	mask := (uint64(1) << uint(d.bitsLeft)) - 1
	d.lastByte = byte(data & mask)
	return value, nil
}

func (d *IntV2Decoder) decodeRun() ([]uint64, error) {
	firstByte, err := d.in.ReadByte()
	if err != nil {
		return nil, err
	}
	sub := intV2SubEncoding(firstByte >> 6)

	switch sub {
	case subShortRepeat:
		width := 1 + (firstByte>>3)&0x07
		repeatCount := int(3 + firstByte&0x07)
		var v uint64
		for i := int(width); i > 0; {
			i--
			b, err := d.in.ReadByte()
			if err != nil {
				return nil, errors.WithStack(err)
			}
			v |= uint64(b) << uint(8*i)
		}
		values := make([]uint64, repeatCount)
		for i := range values {
			values[i] = v
		}
		return values, nil

	case subDirect:
		b1, err := d.in.ReadByte()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		header := uint16(firstByte)<<8 | uint16(b1)
		w := byte(header>>9) & 0x1f
		width, err := widthDecoding(w, false)
		if err != nil {
			return nil, err
		}
		length := int(header&0x1ff) + 1

		d.forgetBits()
		values := make([]uint64, length)
		for i := range values {
			v, err := d.readBits(int(width))
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil

	case subPatchedBase:
		return d.decodePatchedBase(firstByte)

	case subDelta:
		return d.decodeDelta(firstByte)
	}

	return nil, errors.Errorf("rle: int v2 sub-encoding %d not recognized", sub)
}

func (d *IntV2Decoder) decodePatchedBase(firstByte byte) ([]uint64, error) {
	header := make([]byte, 4)
	header[0] = firstByte
	if err := readFullFromByteReader(d.in, header[1:4]); err != nil {
		return nil, errors.WithStack(err)
	}

	w := header[0] >> 1 & 0x1f
	width, err := widthDecoding(w, false)
	if err != nil {
		return nil, err
	}
	length := int(uint16(header[0])&0x01<<8|uint16(header[1])) + 1
	bw := int(header[2])>>5&0x07 + 1
	pw, err := widthDecoding(header[2]&0x1f, false)
	if err != nil {
		return nil, err
	}
	pgw := int(header[3])>>5&0x07 + 1
	if int(pw)+pgw > 64 {
		return nil, errors.New("rle: int v2 patch width + gap width must be <= 64")
	}
	pll := int(header[3] & 0x1f)

	baseBytes := make([]byte, bw)
	if err := readFullFromByteReader(d.in, baseBytes); err != nil {
		return nil, errors.WithStack(err)
	}
	neg := baseBytes[0]>>7 == 0x01
	baseBytes[0] &= 0x7f
	var ubase uint64
	for i := 0; i < bw; i++ {
		ubase |= uint64(baseBytes[i]) << uint(8*(bw-i-1))
	}
	base := int64(ubase)
	if neg {
		base = -base
	}

	d.forgetBits()
	values := make([]uint64, length)
	for i := range values {
		delta, err := d.readBits(int(width))
		if err != nil {
			return nil, err
		}
		values[i] = ZigZag(base + int64(delta))
	}

	d.forgetBits()
	mark := 0
	for i := 0; i < pll; i++ {
		pp, err := d.readBits(int(pw) + pgw)
		if err != nil {
			return nil, err
		}
		gap := int(pp >> uint(pw))
		patch := pp & (1<<uint(pw) - 1)
		mark += gap

		v := UnZigZag(values[mark])
		v -= base
		v |= int64(patch) << uint(width)
		v += base
		values[mark] = ZigZag(v)
	}

	return values, nil
}

func (d *IntV2Decoder) decodeDelta(firstByte byte) ([]uint64, error) {
	b1, err := d.in.ReadByte()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	width, err := widthDecoding(firstByte>>1&0x1f, true)
	if err != nil {
		return nil, err
	}
	length := int(firstByte)&0x01<<8 | int(b1) + 1

	var ubase uint64
	var base int64
	if d.signed {
		base, err = ReadVarInt(d.in)
		if err != nil {
			return nil, err
		}
		ubase = ZigZag(base)
	} else {
		ubase, err = ReadVarUint(d.in)
		if err != nil {
			return nil, err
		}
		base = int64(ubase)
	}

	deltaBase, err := ReadVarInt(d.in)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, 0, length)
	values = append(values, ubase)
	if d.signed {
		values = append(values, ZigZag(base+deltaBase))
	} else if deltaBase >= 0 {
		values = append(values, ubase+uint64(deltaBase))
	} else {
		values = append(values, ubase-uint64(-deltaBase))
	}

	d.forgetBits()
	for i := 2; i < length; i++ {
		if width == 0 {
			// fixed delta: every remaining value repeats the same step
			if d.signed {
				prev := UnZigZag(values[len(values)-1])
				values = append(values, ZigZag(prev+deltaBase))
			} else if deltaBase >= 0 {
				values = append(values, values[len(values)-1]+uint64(deltaBase))
			} else {
				values = append(values, values[len(values)-1]-uint64(-deltaBase))
			}
			continue
		}
		delta, err := d.readBits(int(width))
		if err != nil {
			return nil, err
		}
		if d.signed {
			prev := UnZigZag(values[len(values)-1])
			if deltaBase >= 0 {
				values = append(values, ZigZag(prev+int64(delta)))
			} else {
				values = append(values, ZigZag(prev-int64(delta)))
			}
		} else if deltaBase >= 0 {
			values = append(values, values[len(values)-1]+delta)
		} else {
			values = append(values, values[len(values)-1]-delta)
		}
	}

	return values, nil
}

func (d *IntV2Decoder) next() (int64, error) {
	if d.bufPos >= len(d.buf) {
		run, err := d.decodeRun()
		if err != nil {
			return 0, err
		}
		d.buf = run
		d.bufPos = 0
	}
	raw := d.buf[d.bufPos]
	d.bufPos++
	if d.signed {
		return UnZigZag(raw), nil
	}
	return int64(raw), nil
}

// NextMasked fills dst, consuming a decoded value only where mask is nil
// or mask[i] != 0.
func (d *IntV2Decoder) NextMasked(dst []int64, mask []byte) error {
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

// Next fills dst with n decoded values, reinterpreted as signed when the
// decoder was constructed with signed=true.
func (d *IntV2Decoder) Next(dst []int64) error {
	for i := range dst {
		v, err := d.next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (d *IntV2Decoder) Skip(n int) error {
	buf := make([]int64, n)
	return d.Next(buf)
}

// Reset clears any run buffered mid-decode and any partial bit-read state,
// for use right after the underlying stream has been repositioned by
// seek_to_row_group.
func (d *IntV2Decoder) Reset() {
	d.buf = nil
	d.bufPos = 0
	d.forgetBits()
}
