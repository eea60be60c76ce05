package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRebaseSameTimezonePassthrough(t *testing.T) {
	r := NewRebaser(time.UTC, time.UTC)
	secs, nanos := r.Rebase(1000, 500)
	assert.Equal(t, int64(1000)+orcEpoch(time.UTC), secs)
	assert.Equal(t, int64(500), nanos)
}

func TestRebaseNilLocationsDefaultToUTC(t *testing.T) {
	r := NewRebaser(nil, nil)
	secs, _ := r.Rebase(0, 0)
	assert.Equal(t, orcEpoch(time.UTC), secs)
}

func TestRebaseDifferentFixedOffsetShiftsSeconds(t *testing.T) {
	writer := time.FixedZone("W", 0)
	reader := time.FixedZone("R", 3600) // one hour east
	r := NewRebaser(writer, reader)

	secs, _ := r.Rebase(0, 0)
	// Fixed zones never cross a DST boundary, so the writer-relative instant
	// shifts by exactly the offset difference.
	want := orcEpoch(writer) + int64(0-3600)
	assert.Equal(t, want, secs)
}

func TestRebasePreEpochNanosCarriesSecond(t *testing.T) {
	r := NewRebaser(time.UTC, time.UTC)
	epoch := orcEpoch(time.UTC)
	secs, nanos := r.Rebase(-epoch-2, 1000000)
	assert.Equal(t, int64(-3), secs)
	assert.Equal(t, int64(1000000), nanos)
}

func TestRebasePreEpochSmallNanosNoCarry(t *testing.T) {
	r := NewRebaser(time.UTC, time.UTC)
	epoch := orcEpoch(time.UTC)
	secs, nanos := r.Rebase(-epoch-2, 500)
	assert.Equal(t, int64(-2), secs)
	assert.Equal(t, int64(500), nanos)
}

func TestZoneVariantHasSameTzRule(t *testing.T) {
	a := zoneVariant{name: "UTC", gmtOffsetS: 0}
	b := zoneVariant{name: "UTC", gmtOffsetS: 0}
	c := zoneVariant{name: "EST", gmtOffsetS: -18000}
	assert.True(t, a.hasSameTzRule(b))
	assert.False(t, a.hasSameTzRule(c))
}
