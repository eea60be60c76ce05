// Package timezone implements the DST-aware timestamp rebase a TIMESTAMP
// (not TIMESTAMP_INSTANT) column reader applies when the writer and reader
// timezones disagree, following the algorithm in the Apache ORC C++
// TimestampColumnReader::next (the teacher's orc/column/time.go stores the
// reader's *time.Location but never actually rebases, so this package has
// no direct teacher equivalent and is grounded on the original instead).
package timezone

import "time"

// orcEpoch is 2015-01-01T00:00:00 interpreted in a given location, the
// instant ORC stores TIMESTAMP seconds relative to.
func orcEpoch(loc *time.Location) int64 {
	return time.Date(2015, time.January, 1, 0, 0, 0, 0, loc).Unix()
}

// Rebaser converts writer-relative (seconds, nanos) pairs read off the DATA
// and SECONDARY streams into reader-timezone-relative Unix seconds.
type Rebaser struct {
	writerLoc, readerLoc *time.Location
	epochOffset          int64
	sameTimezone         bool
}

func NewRebaser(writerLoc, readerLoc *time.Location) *Rebaser {
	if writerLoc == nil {
		writerLoc = time.UTC
	}
	if readerLoc == nil {
		readerLoc = time.UTC
	}
	return &Rebaser{
		writerLoc:    writerLoc,
		readerLoc:    readerLoc,
		epochOffset:  orcEpoch(writerLoc),
		sameTimezone: hasSameRule(writerLoc, readerLoc, orcEpoch(writerLoc)),
	}
}

// zoneVariant is a timezone's UTC offset and DST rule at one instant.
type zoneVariant struct {
	name       string
	gmtOffsetS int
}

func variantAt(loc *time.Location, unixSec int64) zoneVariant {
	name, offset := time.Unix(unixSec, 0).In(loc).Zone()
	return zoneVariant{name: name, gmtOffsetS: offset}
}

// hasSameTzRule mirrors the original's TimezoneVariant::hasSameTzRule: the
// two variants describe the same wall-clock rule if they share both name
// and offset.
func (v zoneVariant) hasSameTzRule(o zoneVariant) bool {
	return v.name == o.name && v.gmtOffsetS == o.gmtOffsetS
}

func hasSameRule(writerLoc, readerLoc *time.Location, at int64) bool {
	return variantAt(writerLoc, at).hasSameTzRule(variantAt(readerLoc, at))
}

// Rebase applies the writer-epoch shift and, when the writer and reader
// timezones disagree, the DST-boundary re-evaluation from the original:
// the writer and reader variants at the writer-relative instant are
// compared, and if their tz rules differ, the reader-relative instant is
// re-evaluated once more against the reader timezone at the
// offset-corrected instant, folding in any DST transition crossed between
// the writer's wall-clock time and the reader's.
//
// secs is the raw DATA-stream value (seconds since the ORC epoch, writer
// timezone); nanos is the already-decoded nanosecond value in [0, 1e9).
// Returns the reader-timezone-relative Unix seconds and a possibly
// adjusted nanos (negative-second carry correction, see below).
func (r *Rebaser) Rebase(secs, nanos int64) (int64, int64) {
	writerTime := secs + r.epochOffset

	if !r.sameTimezone {
		wv := variantAt(r.writerLoc, writerTime)
		rv := variantAt(r.readerLoc, writerTime)
		if !wv.hasSameTzRule(rv) {
			adjusted := writerTime + int64(wv.gmtOffsetS-rv.gmtOffsetS)
			adjustedReader := variantAt(r.readerLoc, adjusted)
			writerTime = writerTime + int64(wv.gmtOffsetS-adjustedReader.gmtOffsetS)
		}
	}

	// A writer-relative instant before the Unix epoch with a fractional
	// second carries its nanoseconds "backwards": -1.25s is represented as
	// secs=-2, nanos=750_000_000, so any value with >999999 nanos at a
	// negative second needs its second decremented once more here, same
	// as the original's post-rebase fixup.
	if writerTime < 0 && nanos > 999999 {
		writerTime--
	}

	return writerTime, nanos
}
