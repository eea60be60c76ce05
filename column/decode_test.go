package column

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/vector"
)

// S1: nullable longs. PRESENT = [1,0,1,1,0], DATA (RLE V2 direct, signed)
// carries exactly the 3 non-null values 10, 20, 30.
func TestIntegerReaderNullableLongs(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.PRESENT, []byte{0xff, 0xb0}) // literal byte 0xb0 = 10110000
	fs.set(1, schema.DATA, []byte{0x4a, 0x02, 0x52, 0x8f, 0x00})

	r, err := newIntegerReader(1, fs, schema.RLEVersion2)
	assert.NoError(t, err)

	b := vector.NewLongBatch(1)
	assert.NoError(t, r.Next(b, 5, nil))

	assert.True(t, b.HasNulls)
	assert.Equal(t, []byte{1, 0, 1, 1, 0}, b.NotNull[:5])
	assert.Equal(t, []int64{10, 0, 20, 30, 0}, b.Values[:5])
}

// S2: direct strings, no nulls. LENGTH (RLE V2 direct, unsigned) = [3,2,4],
// DATA = "foohibazz".
func TestStringDirectReaderDecodesValues(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, []byte{0x44, 0x02, 0x6a, 0x00})
	fs.set(1, schema.DATA, []byte("foohibazz"))

	r, err := newStringDirectReader(1, fs, schema.RLEVersion2)
	assert.NoError(t, err)

	b := vector.NewBytesBatch(1)
	assert.NoError(t, r.Next(b, 3, nil))

	assert.False(t, b.HasNulls)
	assert.Equal(t, "foo", string(b.DataPtrs[0]))
	assert.Equal(t, "hi", string(b.DataPtrs[1]))
	assert.Equal(t, "bazz", string(b.DataPtrs[2]))
	assert.Equal(t, []int64{3, 2, 4}, b.Lengths[:3])
}

// S3: dictionary strings. Dictionary {"ab","xyz"}, index stream selects
// rows [1,0,1] -> "xyz","ab","xyz".
func TestStringDictionaryReaderDecodesValues(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, []byte{0x44, 0x01, 0x4c})
	fs.set(1, schema.DICTIONARY_DATA, []byte("abxyz"))
	fs.set(1, schema.DATA, []byte{0x40, 0x02, 0xa0})

	r, err := newStringDictionaryReader(1, fs, schema.RLEVersion2, 2)
	assert.NoError(t, err)

	b := vector.NewDictionaryBatch(1)
	assert.NoError(t, r.Next(b, 3, nil))

	assert.False(t, b.IsEncoded)
	assert.Equal(t, "xyz", string(b.DataPtrs[0]))
	assert.Equal(t, "ab", string(b.DataPtrs[1]))
	assert.Equal(t, "xyz", string(b.DataPtrs[2]))
}

func TestStringDictionaryReaderEncodedMode(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, []byte{0x44, 0x01, 0x4c})
	fs.set(1, schema.DICTIONARY_DATA, []byte("abxyz"))
	fs.set(1, schema.DATA, []byte{0x40, 0x02, 0xa0})

	r, err := newStringDictionaryReader(1, fs, schema.RLEVersion2, 2)
	assert.NoError(t, err)

	b := vector.NewDictionaryBatch(1)
	assert.NoError(t, r.NextEncoded(b, 3, nil))

	assert.True(t, b.IsEncoded)
	assert.Equal(t, []int64{1, 0, 1}, b.Index[:3])
	assert.Equal(t, "xyz", string(b.Dict.Entry(int(b.Index[0]))))
}

// Timestamp: TIMESTAMP_INSTANT, single row, seconds=0 (the ORC epoch
// itself), nanos trailing-zero-compressed to 40 (-> 5 raw nanos).
func TestTimestampReaderEpochPassthrough(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.DATA, []byte{0xff, 0x00})      // literal run, 1 value: zigzag(0)=0
	fs.set(1, schema.SECONDARY, []byte{0xff, 0x28}) // literal run, 1 value: 40

	r, err := newTimestampReader(1, fs, schema.RLEVersion1, true)
	assert.NoError(t, err)

	b := vector.NewTimestampBatch(1)
	assert.NoError(t, r.Next(b, 1, nil))

	assert.Equal(t, int64(1420070400), b.Seconds[0])
	assert.Equal(t, int64(5), b.Nanos[0])
}

// S5: list of longs, no nulls. LENGTH = [2,1], elements DATA (RLE V1
// literal run, signed) = [100, 200, 300].
func TestListReaderFlattensElements(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, []byte{0xfe, 0x02, 0x01})
	fs.set(2, schema.DATA, []byte{0xfd, 0xc8, 0x01, 0x90, 0x03, 0xd8, 0x04})

	elems, err := newIntegerReader(2, fs, schema.RLEVersion1)
	assert.NoError(t, err)

	r, err := newListReader(1, fs, schema.RLEVersion1, elems)
	assert.NoError(t, err)

	b := vector.NewListBatch(1, vector.NewLongBatch(2))
	assert.NoError(t, r.Next(b, 2, nil))

	assert.Equal(t, []int64{0, 2, 3}, b.Offsets[:3])
	elemBatch := b.Elements.(*vector.LongBatch)
	assert.Equal(t, []int64{100, 200, 300}, elemBatch.Values[:3])
}

// S6: Decimal64 rescale. Single row, raw unscaled value 12345 at read
// scale 3, target scale 2 -> 1234.
func TestDecimal64ReaderRescales(t *testing.T) {
	fs := newFakeStreams()
	fs.set(1, schema.DATA, []byte{0xf2, 0xc0, 0x01})
	fs.set(1, schema.SECONDARY, []byte{0xff, 0x03})

	r, err := newDecimal64Reader(1, fs, schema.RLEVersion1, 2)
	assert.NoError(t, err)

	b := vector.NewDecimal64Batch(1, 10, 2)
	assert.NoError(t, r.Next(b, 1, nil))

	assert.Equal(t, int64(1234), b.Values[0])
	assert.Equal(t, int32(3), b.ReadScales[0])
}

func TestDecimal64RescaleOverflowIsParseError(t *testing.T) {
	_, err := rescaleInt64(1, 0, 19)
	assert.Error(t, err)
	_, ok := errors.Cause(err).(*ParseError)
	assert.True(t, ok)
}

func TestDecimal128RescaleBig(t *testing.T) {
	v, err := rescaleBig(big.NewInt(12345), 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(1234), v.Int64())
}

// Union tag out of range is a hard ParseError, not a panic.
func TestUnionReaderRejectsOutOfRangeTag(t *testing.T) {
	fs := newFakeStreams()
	// byte-RLE literal run, 1 value: tag 5, but only 1 child registered.
	fs.set(1, schema.DATA, []byte{0xff, 0x05})
	fs.set(2, schema.DATA, []byte{0xff, 0x00})

	child, err := newIntegerReader(2, fs, schema.RLEVersion1)
	assert.NoError(t, err)

	r, err := newUnionReader(1, fs, []ColumnReader{child})
	assert.NoError(t, err)

	b := vector.NewUnionBatch(1, []vector.Batch{vector.NewLongBatch(2)})
	err = r.Next(b, 1, nil)
	assert.Error(t, err)
	_, ok := errors.Cause(err).(*ParseError)
	assert.True(t, ok)
}

// BuildReader end-to-end: a STRUCT of one LONG field, exercising factory
// dispatch, struct row-alignment, and integer decode together.
func TestBuildReaderStructOfLong(t *testing.T) {
	fs := newFakeStreams()
	fs.setEncoding(1, schema.ColumnEncodingInfo{Kind: schema.DIRECT_V2})
	fs.setEncoding(2, schema.ColumnEncodingInfo{Kind: schema.DIRECT_V2})
	fs.set(2, schema.DATA, []byte{0x4a, 0x02, 0x52, 0x8f, 0x00})

	root := &schema.TypeNode{
		ColumnID:   1,
		Kind:       schema.STRUCT,
		Children:   []*schema.TypeNode{{ColumnID: 2, Kind: schema.LONG}},
		FieldNames: []string{"a"},
	}

	reader, batch, err := BuildReader(root, fs, false, false)
	assert.NoError(t, err)

	sb := batch.(*vector.StructBatch)
	assert.NoError(t, reader.Next(sb, 3, nil))

	field := sb.Fields[0].(*vector.LongBatch)
	assert.Equal(t, []int64{10, 20, 30}, field.Values[:3])
}

// A non-nil selected-columns bitset prunes a STRUCT's unselected children:
// no reader/batch is built for them at all, and the pruned StructBatch's
// Fields only ever contains the selected subtype.
func TestBuildReaderStructPrunesUnselectedChildren(t *testing.T) {
	fs := newFakeStreams()
	fs.setEncoding(1, schema.ColumnEncodingInfo{Kind: schema.DIRECT_V2})
	fs.setEncoding(2, schema.ColumnEncodingInfo{Kind: schema.DIRECT_V2})
	fs.set(2, schema.DATA, []byte{0x4a, 0x02, 0x52, 0x8f, 0x00})
	// column 3 gets no stream/encoding at all: if BuildReader tried to
	// build it, newIntegerReader's required DATA fetch would error.
	fs.selectedColumns = []bool{false, true, true, false}

	root := &schema.TypeNode{
		ColumnID: 1,
		Kind:     schema.STRUCT,
		Children: []*schema.TypeNode{
			{ColumnID: 2, Kind: schema.LONG},
			{ColumnID: 3, Kind: schema.LONG},
		},
		FieldNames: []string{"a", "b"},
	}

	reader, batch, err := BuildReader(root, fs, false, false)
	assert.NoError(t, err)

	sb := batch.(*vector.StructBatch)
	assert.Len(t, sb.Fields, 1)
	assert.NoError(t, reader.Next(sb, 3, nil))

	field := sb.Fields[0].(*vector.LongBatch)
	assert.Equal(t, []int64{10, 20, 30}, field.Values[:3])
}
