package column

import (
	"bytes"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
)

// fakeStreams is a minimal in-memory stripeio.StripeStreams, grounded on
// stripeio/memory.go's MemoryStream and the teacher's orc/column test
// fixtures that build a reader directly against byte slices instead of a
// full stripe/footer reader.
type fakeStreams struct {
	streams    map[streamKey][]byte
	encodings  map[uint32]schema.ColumnEncodingInfo
	writerTZ   *time.Location
	readerTZ   *time.Location

	forcedScale     int32
	throwOnOverflow bool
	errBuf          bytes.Buffer

	decimalAsLong   bool
	selectedColumns []bool
}

type streamKey struct {
	columnID uint32
	kind     schema.StreamKind
}

func newFakeStreams() *fakeStreams {
	return &fakeStreams{
		streams:   map[streamKey][]byte{},
		encodings: map[uint32]schema.ColumnEncodingInfo{},
		writerTZ:  time.UTC,
		readerTZ:  time.UTC,
	}
}

func (f *fakeStreams) set(columnID uint32, kind schema.StreamKind, data []byte) {
	f.streams[streamKey{columnID, kind}] = data
}

func (f *fakeStreams) setEncoding(columnID uint32, enc schema.ColumnEncodingInfo) {
	f.encodings[columnID] = enc
}

func (f *fakeStreams) GetStream(columnID uint32, kind schema.StreamKind, required bool) (stripeio.SeekableByteStream, error) {
	data, ok := f.streams[streamKey{columnID, kind}]
	if !ok {
		if required {
			return nil, errors.Errorf("fake stream missing: column %d kind %s", columnID, kind)
		}
		return nil, nil
	}
	return stripeio.NewMemoryStream(kind.String(), data, 0), nil
}

func (f *fakeStreams) GetEncoding(columnID uint32) schema.ColumnEncodingInfo {
	return f.encodings[columnID]
}

func (f *fakeStreams) GetSelectedColumns() []bool { return f.selectedColumns }

func (f *fakeStreams) GetWriterTimezone() *time.Location { return f.writerTZ }
func (f *fakeStreams) GetReaderTimezone() *time.Location { return f.readerTZ }

func (f *fakeStreams) GetForcedScaleOnHive11Decimal() int32   { return f.forcedScale }
func (f *fakeStreams) GetThrowOnHive11DecimalOverflow() bool  { return f.throwOnOverflow }
func (f *fakeStreams) GetErrorStream() io.Writer              { return &f.errBuf }

func (f *fakeStreams) GetSchemaEvolution() stripeio.SchemaEvolution { return nil }

func (f *fakeStreams) GetMemoryPool() stripeio.MemoryPool       { return nil }
func (f *fakeStreams) GetReaderMetrics() stripeio.ReaderMetrics { return nil }
func (f *fakeStreams) IsDecimalAsLong() bool                    { return f.decimalAsLong }

var _ stripeio.StripeStreams = (*fakeStreams)(nil)
