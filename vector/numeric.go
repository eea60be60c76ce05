package vector

// LongBatch holds SHORT/INT/LONG/DATE values widened to int64, the "wide"
// monomorphization of spec.md §4.9, and also doubles as the wide BOOLEAN/
// BYTE batch (sign-extended per §4.2).
type LongBatch struct {
	Header
	Values []int64
}

func NewLongBatch(columnID uint32) *LongBatch {
	return &LongBatch{Header: Header{ColumnID: columnID}}
}

func (b *LongBatch) Base() *Header { return &b.Header }

func (b *LongBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]int64, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}

// IntBatch is the tight int32 monomorphization for SHORT/INT.
type IntBatch struct {
	Header
	Values []int32
}

func NewIntBatch(columnID uint32) *IntBatch {
	return &IntBatch{Header: Header{ColumnID: columnID}}
}

func (b *IntBatch) Base() *Header { return &b.Header }

func (b *IntBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]int32, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}

// ShortBatch is the tight int16 monomorphization for SHORT.
type ShortBatch struct {
	Header
	Values []int16
}

func NewShortBatch(columnID uint32) *ShortBatch {
	return &ShortBatch{Header: Header{ColumnID: columnID}}
}

func (b *ShortBatch) Base() *Header { return &b.Header }

func (b *ShortBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]int16, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}

// ByteBatch is the tight byte monomorphization for BOOLEAN/BYTE.
type ByteBatch struct {
	Header
	Values []byte
}

func NewByteBatch(columnID uint32) *ByteBatch {
	return &ByteBatch{Header: Header{ColumnID: columnID}}
}

func (b *ByteBatch) Base() *Header { return &b.Header }

func (b *ByteBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]byte, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}
