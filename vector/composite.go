package vector

// StructBatch holds one child Batch per selected field, in schema order.
// Per spec.md §4.8, child sub-batches are held by the parent batch, not
// by the reader.
type StructBatch struct {
	Header
	Fields []Batch
}

func NewStructBatch(columnID uint32, fields []Batch) *StructBatch {
	return &StructBatch{Header: Header{ColumnID: columnID}, Fields: fields}
}

func (b *StructBatch) Base() *Header { return &b.Header }

func (b *StructBatch) Resize(n int) {
	b.Header.Resize(n)
	// Fields are resized by the struct reader recursing into each child
	// with the same N, not here: each field's element count tracks the
	// row count directly, unlike list/map/union children.
}

// ListBatch holds a prefix-sum Offsets array (len >= NumElements+1) and
// one child element Batch, per spec.md §3/§4.8. Offsets[NumElements] is
// the total element count recursed into Elements.
type ListBatch struct {
	Header
	Offsets  []int64
	Elements Batch
}

func NewListBatch(columnID uint32, elements Batch) *ListBatch {
	return &ListBatch{Header: Header{ColumnID: columnID}, Elements: elements}
}

func (b *ListBatch) Base() *Header { return &b.Header }

func (b *ListBatch) Resize(n int) {
	b.Header.Resize(n)
	if n+1 > len(b.Offsets) {
		off := make([]int64, n+1)
		copy(off, b.Offsets)
		b.Offsets = off
	}
}

// MapBatch mirrors ListBatch with two children: Keys and Elements (the
// values), both recursed with the same total from Offsets.
type MapBatch struct {
	Header
	Offsets  []int64
	Keys     Batch
	Elements Batch
}

func NewMapBatch(columnID uint32, keys, elements Batch) *MapBatch {
	return &MapBatch{Header: Header{ColumnID: columnID}, Keys: keys, Elements: elements}
}

func (b *MapBatch) Base() *Header { return &b.Header }

func (b *MapBatch) Resize(n int) {
	b.Header.Resize(n)
	if n+1 > len(b.Offsets) {
		off := make([]int64, n+1)
		copy(off, b.Offsets)
		b.Offsets = off
	}
}

// UnionBatch holds a per-row Tags array selecting which Children entry a
// row belongs to, and Offsets giving each row's index within its tag's
// child batch, per spec.md §4.8.
type UnionBatch struct {
	Header
	Tags     []byte
	Offsets  []int64
	Children []Batch
}

func NewUnionBatch(columnID uint32, children []Batch) *UnionBatch {
	return &UnionBatch{Header: Header{ColumnID: columnID}, Children: children}
}

func (b *UnionBatch) Base() *Header { return &b.Header }

func (b *UnionBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Tags) {
		tags := make([]byte, n)
		copy(tags, b.Tags)
		b.Tags = tags

		off := make([]int64, n)
		copy(off, b.Offsets)
		b.Offsets = off
	}
}
