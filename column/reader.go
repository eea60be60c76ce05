// Package column implements the ColumnReader tree: one reader per selected
// schema node, each decoding its owned byte streams into a vector.Batch in
// bounded chunks. Grounded throughout on the teacher's orc/column package
// (the shape of Next/Skip/Seek and the per-kind reader split) and, for
// semantics the teacher's column.go files get wrong or skip, on
// original_source/c++/src/ColumnReader.cc.
package column

import (
	"github.com/sirupsen/logrus"

	"github.com/orccore/columnar/rle"
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

var logger = logrus.New()

// SetLogLevel matches the teacher's orc/column/package.go-style hook,
// setting the level of this package's own logger without touching
// process-global logging config. No reader in this package writes to that
// logger.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// ColumnReader is the operation set every leaf and composite reader
// implements, per spec.md §6.
type ColumnReader interface {
	// Next decodes N values into batch, threading parentMask as the
	// incoming null mask (nil means "no parent, nothing is null from
	// above").
	Next(batch vector.Batch, n int, parentMask []byte) error

	// NextEncoded is Next but skips dictionary materialization where
	// applicable; the default behavior (most leaf readers) is identical
	// to Next. String-dictionary and composite readers override it.
	NextEncoded(batch vector.Batch, n int, parentMask []byte) error

	// Skip advances every owned stream by n logical rows and returns the
	// number of non-null rows (the count child readers, if any, must
	// then skip).
	Skip(n int) (int, error)

	// SeekToRowGroup repositions every stream this reader (and its
	// subtree) owns using the per-column position providers in
	// positions, keyed by column_id.
	SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error
}

// base is the shared null-mask handling of spec.md §4.1, held by value
// inside every concrete reader (not an embedded interface — a plain
// struct of common fields per spec.md §9's note against an inheritance
// hierarchy).
type base struct {
	columnID uint32
	present  *rle.BoolDecoder
	presentS stripeio.SeekableByteStream
}

func newBase(columnID uint32, streams stripeio.StripeStreams) (base, error) {
	b := base{columnID: columnID}
	s, err := streams.GetStream(columnID, schema.PRESENT, false)
	if err != nil {
		return base{}, err
	}
	if s != nil {
		b.presentS = s
		b.present = rle.NewBoolDecoder(stripeio.NewChunkByteReader(s))
	}
	return b, nil
}

// decodeNulls implements spec.md §4.1 steps 1-5, writing the refined mask
// into hdr.NotNull[0:n]; it returns only an error, and callers read
// hdr.NotNull to mask their payload decode and, for composites, to pass to
// their children.
func (b *base) decodeNulls(hdr *vector.Header, n int, parentMask []byte) error {
	hdr.Resize(n)
	if b.present != nil {
		buf := make([]bool, n)
		if err := b.present.NextMasked(buf, parentMask); err != nil {
			return err
		}
		for i, v := range buf {
			if v {
				hdr.NotNull[i] = 1
			} else {
				hdr.NotNull[i] = 0
			}
		}
		hdr.HasNulls = !hdr.AllNonNull()
		return nil
	}
	if parentMask != nil {
		copy(hdr.NotNull, parentMask[:n])
		hdr.HasNulls = true
		return nil
	}
	for i := 0; i < n; i++ {
		hdr.NotNull[i] = 1
	}
	hdr.HasNulls = false
	return nil
}

// skipNulls implements §4.1's skip contract: without a PRESENT stream it
// is a no-op count-through; with one it reads n bytes in <=32KiB chunks
// and returns n minus the zero count.
func (b *base) skipNulls(n int) (int, error) {
	if b.present == nil {
		return n, nil
	}
	const chunk = 32 * 1024
	nonNull := 0
	buf := make([]bool, chunk)
	for n > 0 {
		c := chunk
		if c > n {
			c = n
		}
		if err := b.present.Next(buf[:c]); err != nil {
			return 0, err
		}
		for _, v := range buf[:c] {
			if v {
				nonNull++
			}
		}
		n -= c
	}
	return nonNull, nil
}

func (b *base) seekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if b.present == nil {
		return nil
	}
	pos := positions[b.columnID]
	if err := b.presentS.Seek(pos); err != nil {
		return err
	}
	b.present = rle.NewBoolDecoder(stripeio.NewChunkByteReader(b.presentS))
	return nil
}
