package column

import (
	"io"

	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// stringDirectReader decodes STRING-family direct encoding: LENGTH (an
// unsigned RLE) plus DATA (a raw byte blob), per spec.md §4.5. Grounded on
// orc/column/binary.go's binaryV2Reader (DATA via StringContentsReader,
// LENGTH via IntRLV2Reader, NextBytes(l) pattern).
type stringDirectReader struct {
	base
	lengthS stripeio.SeekableByteStream
	dataS   stripeio.SeekableByteStream
	length  intDecoder
	version schema.RLEVersion

	chunk  []byte
	cursor int
}

func newStringDirectReader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion) (*stringDirectReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	lengthStream, err := streams.GetStream(columnID, schema.LENGTH, true)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &stringDirectReader{
		base:    b,
		lengthS: lengthStream,
		dataS:   dataStream,
		length:  newIntDecoder(lengthStream, version, false),
		version: version,
	}, nil
}

func (r *stringDirectReader) readBytes(dst []byte) error {
	for have := 0; have < len(dst); {
		if r.cursor >= len(r.chunk) {
			chunk, err := r.dataS.Next()
			if err != nil {
				return err
			}
			r.chunk = chunk
			r.cursor = 0
		}
		n := copy(dst[have:], r.chunk[r.cursor:])
		r.cursor += n
		have += n
	}
	return nil
}

func (r *stringDirectReader) skipBytes(n int) error {
	for n > 0 {
		avail := len(r.chunk) - r.cursor
		if avail <= 0 {
			if err := r.dataS.Skip(n); err != nil && err != io.EOF {
				return errors.WithStack(err)
			}
			r.chunk = nil
			r.cursor = 0
			return nil
		}
		if avail > n {
			avail = n
		}
		r.cursor += avail
		n -= avail
	}
	return nil
}

func (r *stringDirectReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.BytesBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	lengths := make([]int64, n)
	if err := r.length.NextMasked(lengths, mask); err != nil {
		return err
	}

	total := int64(0)
	for i := 0; i < n; i++ {
		if mask == nil || mask[i] != 0 {
			total += lengths[i]
		}
	}
	b.Blob = make([]byte, total)

	offset := int64(0)
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			b.Lengths[i] = 0
			b.DataPtrs[i] = nil
			continue
		}
		l := lengths[i]
		if err := r.readBytes(b.Blob[offset : offset+l]); err != nil {
			return err
		}
		b.DataPtrs[i] = b.Blob[offset : offset+l]
		b.Lengths[i] = l
		offset += l
	}
	return nil
}

func (r *stringDirectReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *stringDirectReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	const window = 1024
	remaining := nonNull
	for remaining > 0 {
		c := window
		if c > remaining {
			c = remaining
		}
		lengths := make([]int64, c)
		if err := r.length.Next(lengths); err != nil {
			return 0, err
		}
		var sum int64
		for _, l := range lengths {
			sum += l
		}
		if err := r.skipBytes(int(sum)); err != nil {
			return 0, err
		}
		remaining -= c
	}
	return nonNull, nil
}

func (r *stringDirectReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	pos := positions[r.columnID]
	if err := r.lengthS.Seek(pos); err != nil {
		return err
	}
	if err := r.dataS.Seek(pos); err != nil {
		return err
	}
	r.length = newIntDecoder(r.lengthS, r.version, false)
	r.chunk = nil
	r.cursor = 0
	return nil
}

var _ ColumnReader = (*stringDirectReader)(nil)
