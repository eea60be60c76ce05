package column

import (
	"github.com/pkg/errors"

	"github.com/orccore/columnar/rle"
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// unionReader decodes UNION via a byte-RLE tag stream selecting, per row,
// which Children entry owns it; Offsets[i] is that row's index within its
// tag's own flattened child range, derived from a running per-tag counter
// rather than stored on disk. Grounded on spec.md §4.8 and the original's
// UnionColumnReader.
type unionReader struct {
	base
	tagS     stripeio.SeekableByteStream
	tags     *rle.ByteRunDecoder
	children []ColumnReader
}

func newUnionReader(columnID uint32, streams stripeio.StripeStreams, children []ColumnReader) (*unionReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	tagStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &unionReader{
		base:     b,
		tagS:     tagStream,
		tags:     rle.NewByteRunDecoder(stripeio.NewChunkByteReader(tagStream)),
		children: children,
	}, nil
}

func (r *unionReader) decode(batch vector.Batch, n int, parentMask []byte, encoded bool) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.UnionBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)
	if len(b.Children) != len(r.children) {
		return errors.New("column: union batch child count mismatch")
	}

	tagBuf := make([]byte, n)
	if err := r.tags.NextMasked(tagBuf, mask); err != nil {
		return err
	}

	counts := make([]int, len(r.children))
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			b.Tags[i] = 0
			b.Offsets[i] = 0
			continue
		}
		tag := tagBuf[i]
		if int(tag) >= len(r.children) {
			return newParseError("union tag %d out of range [0,%d)", tag, len(r.children))
		}
		b.Tags[i] = tag
		b.Offsets[i] = int64(counts[tag])
		counts[tag]++
	}

	for c, child := range r.children {
		if encoded {
			if err := child.NextEncoded(b.Children[c], counts[c], nil); err != nil {
				return err
			}
			continue
		}
		if err := child.Next(b.Children[c], counts[c], nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *unionReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	return r.decode(batch, n, parentMask, false)
}

func (r *unionReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.decode(batch, n, parentMask, true)
}

func (r *unionReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	tagBuf := make([]byte, nonNull)
	if err := r.tags.Next(tagBuf); err != nil {
		return 0, err
	}
	counts := make([]int, len(r.children))
	for _, tag := range tagBuf {
		if int(tag) >= len(r.children) {
			return 0, newParseError("union tag %d out of range [0,%d)", tag, len(r.children))
		}
		counts[tag]++
	}
	for c, child := range r.children {
		if _, err := child.Skip(counts[c]); err != nil {
			return 0, err
		}
	}
	return nonNull, nil
}

func (r *unionReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.tagS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.tags = rle.NewByteRunDecoder(stripeio.NewChunkByteReader(r.tagS))
	for _, child := range r.children {
		if err := child.SeekToRowGroup(positions); err != nil {
			return err
		}
	}
	return nil
}

var _ ColumnReader = (*unionReader)(nil)
