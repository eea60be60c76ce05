package column

import (
	"github.com/pkg/errors"

	"github.com/orccore/columnar/rle"
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// booleanReader decodes BOOLEAN via boolean RLE over one DATA stream into a
// separate []bool buffer, then writes 0 or 1 per row into either a tight
// ByteBatch or a wide LongBatch. Grounded on orc/column/bool.go's boolReader
// shape.
type booleanReader struct {
	base
	dataS stripeio.SeekableByteStream
	data  *rle.BoolDecoder
	wide  bool
}

func newBooleanReader(columnID uint32, streams stripeio.StripeStreams, wide bool) (*booleanReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &booleanReader{
		base:  b,
		dataS: dataStream,
		data:  rle.NewBoolDecoder(stripeio.NewChunkByteReader(dataStream)),
		wide:  wide,
	}, nil
}

func (r *booleanReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull
	buf := make([]bool, n)
	if err := r.data.NextMasked(buf, mask); err != nil {
		return err
	}
	switch b := batch.(type) {
	case *vector.ByteBatch:
		if r.wide {
			return errors.WithStack(vector.ErrBatchKindMismatch)
		}
		b.Resize(n)
		for i, v := range buf {
			if v {
				b.Values[i] = 1
			} else {
				b.Values[i] = 0
			}
		}
	case *vector.LongBatch:
		if !r.wide {
			return errors.WithStack(vector.ErrBatchKindMismatch)
		}
		b.Resize(n)
		for i, v := range buf {
			if v {
				b.Values[i] = 1
			} else {
				b.Values[i] = 0
			}
		}
	default:
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	return nil
}

func (r *booleanReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *booleanReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.data.Skip(nonNull); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *booleanReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.dataS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.data = rle.NewBoolDecoder(stripeio.NewChunkByteReader(r.dataS))
	return nil
}

// byteReader decodes BYTE via byte RLE over one DATA stream. Shares the
// wide/tight split with booleanReader. Bytes are decoded into a separate
// buffer; in the wide case each one is sign-extended into the LongBatch.
// Source and destination share no backing array, so the high-to-low walk
// is not needed to avoid aliasing; it is kept to match the pattern
// spec.md §4.2 describes for an in-place widen over a single buffer.
type byteReader struct {
	base
	dataS stripeio.SeekableByteStream
	data  *rle.ByteRunDecoder
	wide  bool
}

func newByteReader(columnID uint32, streams stripeio.StripeStreams, wide bool) (*byteReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &byteReader{
		base:  b,
		dataS: dataStream,
		data:  rle.NewByteRunDecoder(stripeio.NewChunkByteReader(dataStream)),
		wide:  wide,
	}, nil
}

func (r *byteReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull
	buf := make([]byte, n)
	if err := r.data.NextMasked(buf, mask); err != nil {
		return err
	}
	switch b := batch.(type) {
	case *vector.ByteBatch:
		if r.wide {
			return errors.WithStack(vector.ErrBatchKindMismatch)
		}
		b.Resize(n)
		copy(b.Values, buf)
	case *vector.LongBatch:
		if !r.wide {
			return errors.WithStack(vector.ErrBatchKindMismatch)
		}
		b.Resize(n)
		for i := n - 1; i >= 0; i-- {
			b.Values[i] = int64(int8(buf[i]))
		}
	default:
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	return nil
}

func (r *byteReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *byteReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.data.Skip(nonNull); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *byteReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.dataS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.data = rle.NewByteRunDecoder(stripeio.NewChunkByteReader(r.dataS))
	return nil
}

var _ ColumnReader = (*booleanReader)(nil)
var _ ColumnReader = (*byteReader)(nil)
