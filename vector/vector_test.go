package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderResizeGrowsAndPreserves(t *testing.T) {
	h := &Header{}
	h.Resize(3)
	assert.Equal(t, 3, h.NumElements)
	assert.Equal(t, 3, h.Capacity)
	h.NotNull[0] = 1
	h.NotNull[1] = 0
	h.NotNull[2] = 1

	h.Resize(5)
	assert.Equal(t, 5, h.NumElements)
	assert.Equal(t, byte(1), h.NotNull[0])
	assert.Equal(t, byte(0), h.NotNull[1])
	assert.Equal(t, byte(1), h.NotNull[2])

	// shrinking NumElements doesn't shrink backing storage
	h.Resize(2)
	assert.Equal(t, 2, h.NumElements)
	assert.Equal(t, 5, h.Capacity)
}

func TestHeaderAllNonNull(t *testing.T) {
	h := &Header{}
	h.Resize(3)
	h.NotNull[0], h.NotNull[1], h.NotNull[2] = 1, 1, 1
	assert.True(t, h.AllNonNull())

	h.NotNull[1] = 0
	assert.False(t, h.AllNonNull())
}

func TestLongBatchResizeAndBase(t *testing.T) {
	b := NewLongBatch(7)
	b.Resize(4)
	assert.Equal(t, uint32(7), b.Base().ColumnID)
	assert.Len(t, b.Values, 4)
	b.Values[0] = 42
	b.Resize(6)
	assert.Equal(t, int64(42), b.Values[0])
	assert.Len(t, b.Values, 6)
}

func TestShortIntByteBatchResize(t *testing.T) {
	sb := NewShortBatch(1)
	sb.Resize(2)
	assert.Len(t, sb.Values, 2)

	ib := NewIntBatch(2)
	ib.Resize(2)
	assert.Len(t, ib.Values, 2)

	bb := NewByteBatch(3)
	bb.Resize(2)
	assert.Len(t, bb.Values, 2)
}

func TestBytesBatchResize(t *testing.T) {
	b := NewBytesBatch(1)
	b.Resize(3)
	assert.Len(t, b.DataPtrs, 3)
	assert.Len(t, b.Lengths, 3)
}

func TestStringDictionaryEntry(t *testing.T) {
	d := &StringDictionary{
		Offsets: []uint64{0, 3, 3, 5},
		Blob:    []byte("fooxy"),
	}
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, []byte("foo"), d.Entry(0))
	assert.Equal(t, []byte{}, d.Entry(1))
	assert.Equal(t, []byte("xy"), d.Entry(2))
}

func TestDictionaryBatchResize(t *testing.T) {
	b := NewDictionaryBatch(1)
	b.Resize(3)
	assert.Len(t, b.Index, 3)
	assert.Len(t, b.DataPtrs, 3)
	assert.Len(t, b.Lengths, 3)
}

func TestListBatchOffsetsSized(t *testing.T) {
	elem := NewLongBatch(2)
	b := NewListBatch(1, elem)
	b.Resize(4)
	assert.Len(t, b.Offsets, 5)
	assert.Same(t, elem, b.Elements.(*LongBatch))
}

func TestMapBatchOffsetsSized(t *testing.T) {
	keys := NewLongBatch(2)
	vals := NewBytesBatch(3)
	b := NewMapBatch(1, keys, vals)
	b.Resize(4)
	assert.Len(t, b.Offsets, 5)
}

func TestUnionBatchResize(t *testing.T) {
	children := []Batch{NewLongBatch(2), NewBytesBatch(3)}
	b := NewUnionBatch(1, children)
	b.Resize(4)
	assert.Len(t, b.Tags, 4)
	assert.Len(t, b.Offsets, 4)
	assert.Len(t, b.Children, 2)
}

func TestStructBatchResizeDoesNotTouchFields(t *testing.T) {
	field := NewLongBatch(2)
	b := NewStructBatch(1, []Batch{field})
	b.Resize(4)
	assert.Equal(t, 4, b.NumElements)
	assert.Equal(t, 0, field.NumElements)
}

func TestDecimal64BatchResize(t *testing.T) {
	b := NewDecimal64Batch(1, 10, 2)
	b.Resize(3)
	assert.Len(t, b.Values, 3)
	assert.Len(t, b.ReadScales, 3)
	assert.Equal(t, 10, b.Precision)
	assert.Equal(t, 2, b.Scale)
}

func TestDecimal128BatchResizeInitializesBigInts(t *testing.T) {
	b := NewDecimal128Batch(1, 38, 4)
	b.Resize(3)
	for _, v := range b.Values {
		assert.NotNil(t, v)
		assert.Equal(t, int64(0), v.Int64())
	}
}

func TestTimestampBatchResize(t *testing.T) {
	b := NewTimestampBatch(1)
	b.Resize(3)
	assert.Len(t, b.Seconds, 3)
	assert.Len(t, b.Nanos, 3)
}

func TestFloatDoubleBatchResize(t *testing.T) {
	fb := NewFloatBatch(1)
	fb.Resize(2)
	assert.Len(t, fb.Values, 2)

	db := NewDoubleBatch(2)
	db.Resize(2)
	assert.Len(t, db.Values, 2)
}
