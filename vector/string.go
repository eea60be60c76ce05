package vector

// BytesBatch holds direct-encoded STRING/VARCHAR/CHAR/BINARY/GEOMETRY/
// GEOGRAPHY values: one shared blob plus parallel pointer+length views
// into it, per spec.md §4.5.
type BytesBatch struct {
	Header
	Blob     []byte
	DataPtrs [][]byte // DataPtrs[i] is a sub-slice of Blob, valid only while Blob is retained
	Lengths  []int64
}

func NewBytesBatch(columnID uint32) *BytesBatch {
	return &BytesBatch{Header: Header{ColumnID: columnID}}
}

func (b *BytesBatch) Base() *Header { return &b.Header }

func (b *BytesBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.DataPtrs) {
		ptrs := make([][]byte, n)
		copy(ptrs, b.DataPtrs)
		b.DataPtrs = ptrs

		lens := make([]int64, n)
		copy(lens, b.Lengths)
		b.Lengths = lens
	}
}

// StringDictionary is the immutable dictionary built eagerly by a
// string-dictionary reader, per spec.md §4.6/§3. Offsets[0..=len(Offsets)-1]
// is monotonically non-decreasing with Offsets[0] == 0; Blob's length
// equals the last offset. Shared by reference between the reader and any
// batch produced in encoded mode — Go's GC retains it as long as any
// holder does, which is the "reference-counted handle" spec.md §9 asks
// for without requiring manual refcounting.
type StringDictionary struct {
	Offsets []uint64
	Blob    []byte
}

func (d *StringDictionary) Size() int { return len(d.Offsets) - 1 }

// Entry returns the dictionary entry at idx as a view into Blob. Callers
// must validate 0 <= idx < d.Size() first; spec.md §3 invariant (c).
func (d *StringDictionary) Entry(idx int) []byte {
	return d.Blob[d.Offsets[idx]:d.Offsets[idx+1]]
}

// DictionaryBatch holds STRING-family values read through a dictionary
// encoding, in either decoded mode (DataPtrs/Lengths populated as views
// into Dict) or encoded mode (Index populated, IsEncoded true, no
// materialization) per spec.md §4.6.
type DictionaryBatch struct {
	Header
	Dict      *StringDictionary
	IsEncoded bool

	Index    []int64 // encoded mode: dictionary entry id per row
	DataPtrs [][]byte
	Lengths  []int64
}

func NewDictionaryBatch(columnID uint32) *DictionaryBatch {
	return &DictionaryBatch{Header: Header{ColumnID: columnID}}
}

func (b *DictionaryBatch) Base() *Header { return &b.Header }

func (b *DictionaryBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Index) {
		idx := make([]int64, n)
		copy(idx, b.Index)
		b.Index = idx

		ptrs := make([][]byte, n)
		copy(ptrs, b.DataPtrs)
		b.DataPtrs = ptrs

		lens := make([]int64, n)
		copy(lens, b.Lengths)
		b.Lengths = lens
	}
}
