package vector

// DoubleBatch holds FLOAT or DOUBLE values widened to float64 per
// spec.md §4.3's "batch element type may be wider than stored type" note.
type DoubleBatch struct {
	Header
	Values []float64
}

func NewDoubleBatch(columnID uint32) *DoubleBatch {
	return &DoubleBatch{Header: Header{ColumnID: columnID}}
}

func (b *DoubleBatch) Base() *Header { return &b.Header }

func (b *DoubleBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]float64, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}

// FloatBatch holds FLOAT values at their native 32-bit width, for callers
// that don't want the widened DoubleBatch.
type FloatBatch struct {
	Header
	Values []float32
}

func NewFloatBatch(columnID uint32) *FloatBatch {
	return &FloatBatch{Header: Header{ColumnID: columnID}}
}

func (b *FloatBatch) Base() *Header { return &b.Header }

func (b *FloatBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		grown := make([]float32, n)
		copy(grown, b.Values)
		b.Values = grown
	}
}
