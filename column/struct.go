package column

import (
	"github.com/pkg/errors"

	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// structReader recurses every field reader over the same row range as its
// own PRESENT stream: a struct's children are row-aligned with it, unlike
// list/map/union whose children are a flattened, variable-length space.
// children is already pruned to the selected subtypes by BuildReader (per
// stripeio.StripeStreams.GetSelectedColumns) — this reader never consults
// the bitset itself, it just recurses into whatever it was given. Grounded
// on spec.md §4.8 and the original's StructColumnReader, which the teacher
// has no equivalent of (orc/column has no composite readers).
type structReader struct {
	base
	children []ColumnReader
}

func newStructReader(columnID uint32, streams stripeio.StripeStreams, children []ColumnReader) (*structReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	return &structReader{base: b, children: children}, nil
}

func (r *structReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.StructBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)
	if len(b.Fields) != len(r.children) {
		return errors.New("column: struct batch field count mismatch")
	}
	for i, child := range r.children {
		if err := child.Next(b.Fields[i], n, mask); err != nil {
			return err
		}
	}
	return nil
}

func (r *structReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.StructBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)
	if len(b.Fields) != len(r.children) {
		return errors.New("column: struct batch field count mismatch")
	}
	for i, child := range r.children {
		if err := child.NextEncoded(b.Fields[i], n, mask); err != nil {
			return err
		}
	}
	return nil
}

func (r *structReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	for _, child := range r.children {
		if _, err := child.Skip(n); err != nil {
			return 0, err
		}
	}
	return nonNull, nil
}

func (r *structReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	for _, child := range r.children {
		if err := child.SeekToRowGroup(positions); err != nil {
			return err
		}
	}
	return nil
}

var _ ColumnReader = (*structReader)(nil)
