package column

import (
	"github.com/pkg/errors"

	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/timezone"
	"github.com/orccore/columnar/vector"
)

// decodeNano expands the SECONDARY stream's trailing-zero-compressed
// nanosecond encoding: the low 3 bits are a count z, and if z != 0 the
// remaining bits are multiplied by 10^(z+1). Grounded on orc/encoding.go's
// decodingNano (commented out there, reconstructed per spec.md §4.4).
func decodeNano(encoded uint64) int64 {
	zeros := encoded & 0x07
	nano := encoded >> 3
	for i := uint64(0); i <= zeros && zeros != 0; i++ {
		nano *= 10
	}
	return int64(nano)
}

// timestampReader decodes TIMESTAMP/TIMESTAMP_INSTANT through two RLE
// streams (DATA: seconds since the ORC epoch; SECONDARY: encoded nanos)
// plus, for non-instant columns, the DST-aware rebase in the timezone
// package. Grounded on orc/column/time.go's timestampV2Reader for the
// stream wiring; the rebase itself has no teacher equivalent (see
// DESIGN.md).
type timestampReader struct {
	base
	secondsS stripeio.SeekableByteStream
	nanosS   stripeio.SeekableByteStream
	seconds  intDecoder
	nanos    intDecoder
	version  schema.RLEVersion

	instant bool
	rebase  *timezone.Rebaser
}

func newTimestampReader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion, instant bool) (*timestampReader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	secondsStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	nanosStream, err := streams.GetStream(columnID, schema.SECONDARY, true)
	if err != nil {
		return nil, err
	}

	r := &timestampReader{
		base:     b,
		secondsS: secondsStream,
		nanosS:   nanosStream,
		version:  version,
		instant:  instant,
	}
	r.seconds = newIntDecoder(secondsStream, version, true)
	r.nanos = newIntDecoder(nanosStream, version, false)

	writerTZ, readerTZ := streams.GetWriterTimezone(), streams.GetReaderTimezone()
	if instant {
		r.rebase = timezone.NewRebaser(nil, nil) // both pinned to GMT, a no-op rebase
	} else {
		r.rebase = timezone.NewRebaser(writerTZ, readerTZ)
	}
	return r, nil
}

func (r *timestampReader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.TimestampBatch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	secs := make([]int64, n)
	if err := r.seconds.NextMasked(secs, mask); err != nil {
		return err
	}
	rawNanos := make([]int64, n)
	if err := r.nanos.NextMasked(rawNanos, mask); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			continue
		}
		nanos := decodeNano(uint64(rawNanos[i]))
		sec, nanos := r.rebase.Rebase(secs[i], nanos)
		b.Seconds[i] = sec
		b.Nanos[i] = nanos
	}
	return nil
}

func (r *timestampReader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *timestampReader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.seconds.Skip(nonNull); err != nil {
		return 0, err
	}
	if err := r.nanos.Skip(nonNull); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *timestampReader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	pos := positions[r.columnID]
	if err := r.secondsS.Seek(pos); err != nil {
		return err
	}
	if err := r.nanosS.Seek(pos); err != nil {
		return err
	}
	r.seconds = newIntDecoder(r.secondsS, r.version, true)
	r.nanos = newIntDecoder(r.nanosS, r.version, false)
	return nil
}

var _ ColumnReader = (*timestampReader)(nil)
