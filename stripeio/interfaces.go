// Package stripeio defines the external collaborators the columnar decode
// core consumes but does not implement on its own: the per-column byte
// streams a stripe exposes, and the stripe-level configuration the core
// reads through (timezones, schema evolution, error sink). Concrete
// implementations live elsewhere (stripe/footer parsing, the I/O layer);
// this package also ships two reference implementations, the compressed
// chunk stream in codec.go and the in-memory MemoryStream in memory.go, so
// the column package can be exercised without a full file reader.
package stripeio

import (
	"io"
	"time"

	"github.com/orccore/columnar/schema"
)

// SeekableByteStream is a sequence of contiguous byte chunks, already
// decompressed, that a column reader's decoders pull from.
type SeekableByteStream interface {
	// Next returns the next contiguous chunk with no copy. Returns
	// io.EOF when the stream is exhausted.
	Next() ([]byte, error)

	// Skip discards n bytes. n is assumed to already fit the platform's
	// int range; callers chunk larger skips themselves.
	Skip(n int) error

	// Seek rewinds/forwards to a saved position, consuming as many
	// positions from the provider as this stream's encoding needs.
	Seek(pos *PositionProvider) error

	Name() string
}

// PositionProvider is a cursor over a finite ordered sequence of positions
// for one column, consumed left to right by each stream the column owns.
type PositionProvider struct {
	positions []uint64
	index     int
}

func NewPositionProvider(positions []uint64) *PositionProvider {
	return &PositionProvider{positions: positions}
}

// Next returns the next saved position and advances the cursor.
func (p *PositionProvider) Next() (uint64, error) {
	if p == nil || p.index >= len(p.positions) {
		return 0, io.EOF
	}
	v := p.positions[p.index]
	p.index++
	return v, nil
}

// SchemaEvolution decides whether a given writer-schema node needs a
// convert-reader interposed ahead of the reader schema's native reader.
type SchemaEvolution interface {
	NeedsConvert(t *schema.TypeNode) bool
}

// MemoryPool and ReaderMetrics are opaque collaborators injected by the
// stripe and exposed through StripeStreams; the column readers neither
// reserve memory through MemoryPool nor record through ReaderMetrics.
type MemoryPool interface {
	Reserve(bytes int)
	Release(bytes int)
}

type ReaderMetrics interface {
	IncDecodedValues(columnID uint32, n int64)
	IncSkippedValues(columnID uint32, n int64)
}

// StripeStreams is everything a column reader tree needs from the stripe
// that owns it.
type StripeStreams interface {
	GetStream(columnID uint32, kind schema.StreamKind, required bool) (SeekableByteStream, error)
	GetEncoding(columnID uint32) schema.ColumnEncodingInfo
	// GetSelectedColumns returns a bitset indexed by column id (nil means
	// every column is selected). column.BuildReader consults it only at a
	// STRUCT node, pruning children to selected subtypes per spec.md §4.8.
	GetSelectedColumns() []bool

	GetWriterTimezone() *time.Location
	GetReaderTimezone() *time.Location

	GetForcedScaleOnHive11Decimal() int32
	GetThrowOnHive11DecimalOverflow() bool
	GetErrorStream() io.Writer

	GetSchemaEvolution() SchemaEvolution

	GetMemoryPool() MemoryPool
	GetReaderMetrics() ReaderMetrics
	IsDecimalAsLong() bool
}
