package column

import (
	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// listReader decodes LIST via an unsigned LENGTH stream giving each row's
// element count (no entry for null rows, per the mask-aware RLE contract),
// prefix-summed into the batch's Offsets, then recurses the element reader
// over the flattened [0, total) range. Grounded on spec.md §4.8 and the
// original's ListColumnReader; the teacher has no composite readers.
type listReader struct {
	base
	lengthS  stripeio.SeekableByteStream
	length   intDecoder
	version  schema.RLEVersion
	elements ColumnReader
}

func newListReader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion, elements ColumnReader) (*listReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	lengthStream, err := streams.GetStream(columnID, schema.LENGTH, true)
	if err != nil {
		return nil, err
	}
	return &listReader{
		base:     b,
		lengthS:  lengthStream,
		length:   newIntDecoder(lengthStream, version, false),
		version:  version,
		elements: elements,
	}, nil
}

func (r *listReader) decode(batch vector.Batch, n int, parentMask []byte, encoded bool) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.ListBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	lengths := make([]int64, n)
	if err := r.length.NextMasked(lengths, mask); err != nil {
		return err
	}
	b.Offsets[0] = 0
	for i := 0; i < n; i++ {
		l := int64(0)
		if mask == nil || mask[i] != 0 {
			l = lengths[i]
		}
		b.Offsets[i+1] = b.Offsets[i] + l
	}
	total := int(b.Offsets[n])
	if encoded {
		return r.elements.NextEncoded(b.Elements, total, nil)
	}
	return r.elements.Next(b.Elements, total, nil)
}

func (r *listReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	return r.decode(batch, n, parentMask, false)
}

func (r *listReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.decode(batch, n, parentMask, true)
}

func (r *listReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	lengths := make([]int64, nonNull)
	if err := r.length.Next(lengths); err != nil {
		return 0, err
	}
	var total int64
	for _, l := range lengths {
		total += l
	}
	if _, err := r.elements.Skip(int(total)); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *listReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.lengthS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.length = newIntDecoder(r.lengthS, r.version, false)
	return r.elements.SeekToRowGroup(positions)
}

var _ ColumnReader = (*listReader)(nil)
