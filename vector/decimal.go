package vector

import "math/big"

// Decimal64Batch holds DECIMAL values (Decimal64 or Decimal64-V2) already
// adjusted to Precision/Scale. ReadScales[i] is the per-value scale the DATA stream
// carried before rescaling (spec.md §3's "read_scales"); kept for
// diagnostics and round-trip testing (§8 property 7), not consulted by
// any other reader.
type Decimal64Batch struct {
	Header
	Values     []int64
	ReadScales []int32
	Precision  int
	Scale      int
}

func NewDecimal64Batch(columnID uint32, precision, scale int) *Decimal64Batch {
	return &Decimal64Batch{Header: Header{ColumnID: columnID}, Precision: precision, Scale: scale}
}

func (b *Decimal64Batch) Base() *Header { return &b.Header }

func (b *Decimal64Batch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		vals := make([]int64, n)
		copy(vals, b.Values)
		b.Values = vals

		scales := make([]int32, n)
		copy(scales, b.ReadScales)
		b.ReadScales = scales
	}
}

// Decimal128Batch holds Decimal128 and Decimal-Hive-0.11 values, both of
// which may exceed 64 bits. Uses math/big.Int: no int128 type exists
// anywhere in this repo's dependency set, and big.Int is the standard
// library's answer to arbitrary-precision decimal arithmetic (see
// DESIGN.md).
type Decimal128Batch struct {
	Header
	Values     []*big.Int
	ReadScales []int32
	Precision  int
	Scale      int
}

func NewDecimal128Batch(columnID uint32, precision, scale int) *Decimal128Batch {
	return &Decimal128Batch{Header: Header{ColumnID: columnID}, Precision: precision, Scale: scale}
}

func (b *Decimal128Batch) Base() *Header { return &b.Header }

func (b *Decimal128Batch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Values) {
		vals := make([]*big.Int, n)
		copy(vals, b.Values)
		for i := len(b.Values); i < n; i++ {
			vals[i] = new(big.Int)
		}
		b.Values = vals

		scales := make([]int32, n)
		copy(scales, b.ReadScales)
		b.ReadScales = scales
	}
}
