package column

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// Every test here builds a stream out of two back-to-back, independently
// decodable row groups, seeks a freshly constructed reader straight to the
// second one via SeekToRowGroup, and checks its Next output against a
// reader built from scratch over just the second row group's bytes —
// exercising spec.md §8.3's "seek_to_row_group(positions_r); next(N)
// produces the same output as scanning from stripe start" property.

func twice(b []byte) []byte {
	out := make([]byte, 0, 2*len(b))
	out = append(out, b...)
	out = append(out, b...)
	return out
}

func TestIntegerReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	run := []byte{0x4a, 0x02, 0x52, 0x8f, 0x00} // RLE V2 direct: [10,20,30]

	fs := newFakeStreams()
	fs.set(1, schema.DATA, twice(run))
	r, err := newIntegerReader(1, fs, schema.RLEVersion2)
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(run))}),
	}))

	got := vector.NewLongBatch(1)
	assert.NoError(t, r.Next(got, 3, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.DATA, run)
	scratch, err := newIntegerReader(1, scratchFS, schema.RLEVersion2)
	assert.NoError(t, err)
	want := vector.NewLongBatch(1)
	assert.NoError(t, scratch.Next(want, 3, nil))

	assert.Equal(t, want.Values[:3], got.Values[:3])
}

func TestStringDirectReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	lengthRun := []byte{0x44, 0x02, 0x6a, 0x00} // [3,2,4]
	dataRun := []byte("foohibazz")

	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, twice(lengthRun))
	fs.set(1, schema.DATA, twice(dataRun))
	r, err := newStringDirectReader(1, fs, schema.RLEVersion2)
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(lengthRun)), uint64(len(dataRun))}),
	}))

	got := vector.NewBytesBatch(1)
	assert.NoError(t, r.Next(got, 3, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.LENGTH, lengthRun)
	scratchFS.set(1, schema.DATA, dataRun)
	scratch, err := newStringDirectReader(1, scratchFS, schema.RLEVersion2)
	assert.NoError(t, err)
	want := vector.NewBytesBatch(1)
	assert.NoError(t, scratch.Next(want, 3, nil))

	assert.Equal(t, string(want.DataPtrs[0]), string(got.DataPtrs[0]))
	assert.Equal(t, string(want.DataPtrs[1]), string(got.DataPtrs[1]))
	assert.Equal(t, string(want.DataPtrs[2]), string(got.DataPtrs[2]))
}

func TestDecimal64ReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	dataRun := []byte{0xf2, 0xc0, 0x01}
	scaleRun := []byte{0xff, 0x03}

	fs := newFakeStreams()
	fs.set(1, schema.DATA, twice(dataRun))
	fs.set(1, schema.SECONDARY, twice(scaleRun))
	r, err := newDecimal64Reader(1, fs, schema.RLEVersion1, 2)
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(dataRun)), uint64(len(scaleRun))}),
	}))

	got := vector.NewDecimal64Batch(1, 10, 2)
	assert.NoError(t, r.Next(got, 1, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.DATA, dataRun)
	scratchFS.set(1, schema.SECONDARY, scaleRun)
	scratch, err := newDecimal64Reader(1, scratchFS, schema.RLEVersion1, 2)
	assert.NoError(t, err)
	want := vector.NewDecimal64Batch(1, 10, 2)
	assert.NoError(t, scratch.Next(want, 1, nil))

	assert.Equal(t, want.Values[0], got.Values[0])
	assert.Equal(t, want.ReadScales[0], got.ReadScales[0])
}

func TestListReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	lengthRun := []byte{0xfe, 0x02, 0x01}                             // [2,1]
	elemRun := []byte{0xfd, 0xc8, 0x01, 0x90, 0x03, 0xd8, 0x04}       // [100,200,300]

	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, twice(lengthRun))
	fs.set(2, schema.DATA, twice(elemRun))
	elems, err := newIntegerReader(2, fs, schema.RLEVersion1)
	assert.NoError(t, err)
	r, err := newListReader(1, fs, schema.RLEVersion1, elems)
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(lengthRun))}),
		2: stripeio.NewPositionProvider([]uint64{uint64(len(elemRun))}),
	}))

	got := vector.NewListBatch(1, vector.NewLongBatch(2))
	assert.NoError(t, r.Next(got, 2, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.LENGTH, lengthRun)
	scratchFS.set(2, schema.DATA, elemRun)
	scratchElems, err := newIntegerReader(2, scratchFS, schema.RLEVersion1)
	assert.NoError(t, err)
	scratch, err := newListReader(1, scratchFS, schema.RLEVersion1, scratchElems)
	assert.NoError(t, err)
	want := vector.NewListBatch(1, vector.NewLongBatch(2))
	assert.NoError(t, scratch.Next(want, 2, nil))

	assert.Equal(t, want.Offsets[:3], got.Offsets[:3])
	wantElems := want.Elements.(*vector.LongBatch)
	gotElems := got.Elements.(*vector.LongBatch)
	assert.Equal(t, wantElems.Values[:3], gotElems.Values[:3])
}

func TestMapReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	lengthRun := []byte{0xfe, 0x02, 0x01}                       // [2,1]
	keyRun := []byte{0xfd, 0x02, 0x04, 0x06}                    // [1,2,3]
	elemRun := []byte{0xfd, 0xc8, 0x01, 0x90, 0x03, 0xd8, 0x04} // [100,200,300]

	fs := newFakeStreams()
	fs.set(1, schema.LENGTH, twice(lengthRun))
	fs.set(2, schema.DATA, twice(keyRun))
	fs.set(3, schema.DATA, twice(elemRun))
	keys, err := newIntegerReader(2, fs, schema.RLEVersion1)
	assert.NoError(t, err)
	elems, err := newIntegerReader(3, fs, schema.RLEVersion1)
	assert.NoError(t, err)
	r, err := newMapReader(1, fs, schema.RLEVersion1, keys, elems)
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(lengthRun))}),
		2: stripeio.NewPositionProvider([]uint64{uint64(len(keyRun))}),
		3: stripeio.NewPositionProvider([]uint64{uint64(len(elemRun))}),
	}))

	got := vector.NewMapBatch(1, vector.NewLongBatch(2), vector.NewLongBatch(3))
	assert.NoError(t, r.Next(got, 2, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.LENGTH, lengthRun)
	scratchFS.set(2, schema.DATA, keyRun)
	scratchFS.set(3, schema.DATA, elemRun)
	scratchKeys, err := newIntegerReader(2, scratchFS, schema.RLEVersion1)
	assert.NoError(t, err)
	scratchElems, err := newIntegerReader(3, scratchFS, schema.RLEVersion1)
	assert.NoError(t, err)
	scratch, err := newMapReader(1, scratchFS, schema.RLEVersion1, scratchKeys, scratchElems)
	assert.NoError(t, err)
	want := vector.NewMapBatch(1, vector.NewLongBatch(2), vector.NewLongBatch(3))
	assert.NoError(t, scratch.Next(want, 2, nil))

	assert.Equal(t, want.Offsets[:3], got.Offsets[:3])
	wantKeys := want.Keys.(*vector.LongBatch)
	gotKeys := got.Keys.(*vector.LongBatch)
	assert.Equal(t, wantKeys.Values[:3], gotKeys.Values[:3])
}

func TestStructReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	fieldRun := []byte{0x4a, 0x02, 0x52, 0x8f, 0x00} // RLE V2 direct: [10,20,30]

	fs := newFakeStreams()
	fs.set(2, schema.DATA, twice(fieldRun))
	field, err := newIntegerReader(2, fs, schema.RLEVersion2)
	assert.NoError(t, err)
	r, err := newStructReader(1, fs, []ColumnReader{field})
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		2: stripeio.NewPositionProvider([]uint64{uint64(len(fieldRun))}),
	}))

	got := vector.NewStructBatch(1, []vector.Batch{vector.NewLongBatch(2)})
	assert.NoError(t, r.Next(got, 3, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(2, schema.DATA, fieldRun)
	scratchField, err := newIntegerReader(2, scratchFS, schema.RLEVersion2)
	assert.NoError(t, err)
	scratch, err := newStructReader(1, scratchFS, []ColumnReader{scratchField})
	assert.NoError(t, err)
	want := vector.NewStructBatch(1, []vector.Batch{vector.NewLongBatch(2)})
	assert.NoError(t, scratch.Next(want, 3, nil))

	wantField := want.Fields[0].(*vector.LongBatch)
	gotField := got.Fields[0].(*vector.LongBatch)
	assert.Equal(t, wantField.Values[:3], gotField.Values[:3])
}

func TestUnionReaderSeekToRowGroupMatchesScratch(t *testing.T) {
	tagRun := []byte{0xff, 0x00}  // literal run, 1 value: tag 0
	childRun := []byte{0xff, 0x0a} // RLE V1 literal run, 1 value: zigzag(5)=10

	fs := newFakeStreams()
	fs.set(1, schema.DATA, twice(tagRun))
	fs.set(2, schema.DATA, twice(childRun))
	child, err := newIntegerReader(2, fs, schema.RLEVersion1)
	assert.NoError(t, err)
	r, err := newUnionReader(1, fs, []ColumnReader{child})
	assert.NoError(t, err)

	assert.NoError(t, r.SeekToRowGroup(map[uint32]*stripeio.PositionProvider{
		1: stripeio.NewPositionProvider([]uint64{uint64(len(tagRun))}),
		2: stripeio.NewPositionProvider([]uint64{uint64(len(childRun))}),
	}))

	got := vector.NewUnionBatch(1, []vector.Batch{vector.NewLongBatch(2)})
	assert.NoError(t, r.Next(got, 1, nil))

	scratchFS := newFakeStreams()
	scratchFS.set(1, schema.DATA, tagRun)
	scratchFS.set(2, schema.DATA, childRun)
	scratchChild, err := newIntegerReader(2, scratchFS, schema.RLEVersion1)
	assert.NoError(t, err)
	scratch, err := newUnionReader(1, scratchFS, []ColumnReader{scratchChild})
	assert.NoError(t, err)
	want := vector.NewUnionBatch(1, []vector.Batch{vector.NewLongBatch(2)})
	assert.NoError(t, scratch.Next(want, 1, nil))

	assert.Equal(t, want.Tags[0], got.Tags[0])
	wantChild := want.Children[0].(*vector.LongBatch)
	gotChild := got.Children[0].(*vector.LongBatch)
	assert.Equal(t, wantChild.Values[0], gotChild.Values[0])
}
