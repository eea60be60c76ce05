package vector

// TimestampBatch holds paired (seconds, nanoseconds) values per spec.md
// §3/§4.4. Seconds is already rebased to the reader timezone (a no-op for
// TIMESTAMP_INSTANT columns); Nanos is the expanded value, never the
// trailing-zero-compressed wire form.
type TimestampBatch struct {
	Header
	Seconds []int64
	Nanos   []int64
}

func NewTimestampBatch(columnID uint32) *TimestampBatch {
	return &TimestampBatch{Header: Header{ColumnID: columnID}}
}

func (b *TimestampBatch) Base() *Header { return &b.Header }

func (b *TimestampBatch) Resize(n int) {
	b.Header.Resize(n)
	if n > len(b.Seconds) {
		secs := make([]int64, n)
		copy(secs, b.Seconds)
		b.Seconds = secs

		nanos := make([]int64, n)
		copy(nanos, b.Nanos)
		b.Nanos = nanos
	}
}
