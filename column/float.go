package column

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// floatReader decodes FLOAT/DOUBLE from one DATA stream of fixed-width
// little-endian IEEE-754 values, maintaining a (cursor, end) view into the
// stream's current chunk per spec.md §4.3. Grounded on the original C++
// DoubleColumnReader's readDouble/readByte buffer-pointer pattern (the
// teacher's orc/column/float_reader.go reads through stream.DoubleReader
// one value at a time with no chunk-boundary fast path).
type floatReader struct {
	base
	dataS      stripeio.SeekableByteStream
	bytesPer   int // 4 for FLOAT, 8 for DOUBLE
	wide       bool
	chunk      []byte
	cursor     int
}

func newFloatReader(columnID uint32, streams stripeio.StripeStreams, bytesPer int, wide bool) (*floatReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &floatReader{base: b, dataS: dataStream, bytesPer: bytesPer, wide: wide}, nil
}

func (r *floatReader) refill() error {
	chunk, err := r.dataS.Next()
	if err != nil {
		return err
	}
	r.chunk = chunk
	r.cursor = 0
	return nil
}

// readOne assembles one value's raw bytes with the same copy loop whether
// the value lies inside the current chunk or straddles a chunk boundary,
// and decodes them as little-endian on every host. There is no separate
// host-dependent or bulk-copy path.
func (r *floatReader) readOne() (float64, error) {
	var raw [8]byte
	for have := 0; have < r.bytesPer; {
		if r.cursor >= len(r.chunk) {
			if err := r.refill(); err != nil {
				return 0, err
			}
			continue
		}
		n := copy(raw[have:r.bytesPer], r.chunk[r.cursor:])
		r.cursor += n
		have += n
	}
	if r.bytesPer == 4 {
		bits := binary.LittleEndian.Uint32(raw[:4])
		return float64(math.Float32frombits(bits)), nil
	}
	bits := binary.LittleEndian.Uint64(raw[:8])
	return math.Float64frombits(bits), nil
}

func (r *floatReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	switch b := batch.(type) {
	case *vector.DoubleBatch:
		b.Resize(n)
		for i := 0; i < n; i++ {
			if mask != nil && mask[i] == 0 {
				continue
			}
			v, err := r.readOne()
			if err != nil {
				return err
			}
			b.Values[i] = v
		}
	case *vector.FloatBatch:
		if r.bytesPer != 4 {
			return errors.WithStack(vector.ErrBatchKindMismatch)
		}
		b.Resize(n)
		for i := 0; i < n; i++ {
			if mask != nil && mask[i] == 0 {
				continue
			}
			v, err := r.readOne()
			if err != nil {
				return err
			}
			b.Values[i] = float32(v)
		}
	default:
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	return nil
}

func (r *floatReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *floatReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	bytesToSkip := nonNull * r.bytesPer
	for bytesToSkip > 0 {
		avail := len(r.chunk) - r.cursor
		if avail <= 0 {
			if err := r.dataS.Skip(bytesToSkip); err != nil && err != io.EOF {
				return 0, errors.WithStack(err)
			}
			r.chunk = nil
			r.cursor = 0
			break
		}
		if avail > bytesToSkip {
			avail = bytesToSkip
		}
		r.cursor += avail
		bytesToSkip -= avail
	}
	return nonNull, nil
}

func (r *floatReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.dataS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.chunk = nil
	r.cursor = 0
	return nil
}

var _ ColumnReader = (*floatReader)(nil)
