package column

import (
	"io"

	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// stringDictionaryReader decodes STRING-family dictionary encoding. The
// dictionary is built eagerly at construction from LENGTH and
// DICTIONARY_DATA, per spec.md §4.6, then DATA carries per-row indices
// through either the decoded or encoded path. Grounded on
// orc/column/binary.go's dictionary-handling shape and orc/api/vector.go's
// StringDictionary-adjacent Decimal64 ownership note, generalized as
// described in DESIGN.md (the teacher doesn't share a dictionary across
// batches; this does, via vector.StringDictionary).
type stringDictionaryReader struct {
	base
	indexS  stripeio.SeekableByteStream
	index   intDecoder
	version schema.RLEVersion
	dict    *vector.StringDictionary
}

func newStringDictionaryReader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion, dictSize uint64) (*stringDictionaryReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}

	lengthStream, err := streams.GetStream(columnID, schema.LENGTH, true)
	if err != nil {
		return nil, err
	}
	lengthDecoder := newIntDecoder(lengthStream, version, false)
	lengths := make([]int64, dictSize)
	if err := lengthDecoder.Next(lengths); err != nil {
		return nil, err
	}

	offsets := make([]uint64, dictSize+1)
	for i, l := range lengths {
		if l < 0 {
			return nil, newParseError("negative dictionary entry length %d", l)
		}
		offsets[i+1] = offsets[i] + uint64(l)
	}

	dictDataStream, err := streams.GetStream(columnID, schema.DICTIONARY_DATA, dictSize > 0)
	if err != nil {
		return nil, err
	}
	blob := make([]byte, offsets[dictSize])
	if dictSize > 0 {
		if err := readFullStream(dictDataStream, blob); err != nil {
			return nil, err
		}
	}

	indexStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}

	return &stringDictionaryReader{
		base:    b,
		indexS:  indexStream,
		index:   newIntDecoder(indexStream, version, false),
		version: version,
		dict:    &vector.StringDictionary{Offsets: offsets, Blob: blob},
	}, nil
}

func readFullStream(s stripeio.SeekableByteStream, dst []byte) error {
	cr := stripeio.NewChunkByteReader(s)
	_, err := io.ReadFull(cr, dst)
	return err
}

func (r *stringDictionaryReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.DictionaryBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)
	b.IsEncoded = false
	b.Dict = r.dict

	// length reused as scratch for indices, per spec.md §4.6; each row's
	// index is overwritten with its entry's length once resolved.
	idx := b.Lengths
	if err := r.index.NextMasked(idx, mask); err != nil {
		return err
	}
	size := r.dict.Size()
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			b.DataPtrs[i] = nil
			b.Lengths[i] = 0
			continue
		}
		id := int(idx[i])
		if id < 0 || id >= size {
			return newParseError("dictionary index %d out of range [0,%d)", id, size)
		}
		b.DataPtrs[i] = r.dict.Entry(id)
		b.Lengths[i] = int64(len(b.DataPtrs[i]))
	}
	return nil
}

func (r *stringDictionaryReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.DictionaryBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)
	b.IsEncoded = true
	b.Dict = r.dict

	if err := r.index.NextMasked(b.Index, mask); err != nil {
		return err
	}
	return nil
}

func (r *stringDictionaryReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.index.Skip(nonNull); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *stringDictionaryReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.indexS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.index = newIntDecoder(r.indexS, r.version, false)
	return nil
}

var _ ColumnReader = (*stringDictionaryReader)(nil)
