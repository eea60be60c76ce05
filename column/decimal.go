package column

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/orccore/columnar/rle"
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

var pow10i64 = [...]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000, 100000000000, 1000000000000,
	10000000000000, 100000000000000, 1000000000000000,
	10000000000000000, 100000000000000000, 1000000000000000000,
}

func rescaleInt64(v int64, readScale, targetScale int32) (int64, error) {
	diff := int64(targetScale) - int64(readScale)
	if diff == 0 {
		return v, nil
	}
	if diff > 18 || diff < -18 {
		return 0, newParseError("decimal scale out of range: read scale %d vs target scale %d", readScale, targetScale)
	}
	if diff > 0 {
		return v * pow10i64[diff], nil
	}
	return v / pow10i64[-diff], nil
}

func pow10Big(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func rescaleBig(v *big.Int, readScale, targetScale int32) (*big.Int, error) {
	diff := int64(targetScale) - int64(readScale)
	if diff == 0 {
		return v, nil
	}
	if diff > 18 || diff < -18 {
		return nil, newParseError("decimal scale out of range: read scale %d vs target scale %d", readScale, targetScale)
	}
	if diff > 0 {
		return new(big.Int).Mul(v, pow10Big(diff)), nil
	}
	return new(big.Int).Quo(v, pow10Big(-diff)), nil
}

// decimal64Reader decodes the direct (Hive-0.12-and-later) DECIMAL
// encoding for precision<=18: DATA is a plain zigzag varint per value (not
// RLE-framed) and SECONDARY is an unsigned integer RLE stream carrying the
// per-value read scale. Grounded on the original C++ Decimal64ColumnReader
// (the teacher has no decimal reader at all); the RLE version for
// SECONDARY follows the column's ColumnEncodingInfo like every other RLE
// stream in this package.
type decimal64Reader struct {
	base
	dataS  stripeio.SeekableByteStream
	dataR  *stripeio.ChunkByteReader
	scaleS stripeio.SeekableByteStream
	scale  intDecoder
	version schema.RLEVersion

	targetScale int32
}

func newDecimal64Reader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion, targetScale int32) (*decimal64Reader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	scaleStream, err := streams.GetStream(columnID, schema.SECONDARY, true)
	if err != nil {
		return nil, err
	}
	return &decimal64Reader{
		base:        b,
		dataS:       dataStream,
		dataR:       stripeio.NewChunkByteReader(dataStream),
		scaleS:      scaleStream,
		scale:       newIntDecoder(scaleStream, version, false),
		version:     version,
		targetScale: targetScale,
	}, nil
}

func (r *decimal64Reader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.Decimal64Batch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	scales := make([]int64, n)
	if err := r.scale.NextMasked(scales, mask); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			continue
		}
		raw, err := rle.ReadVarInt(r.dataR)
		if err != nil {
			return err
		}
		readScale := int32(scales[i])
		v, err := rescaleInt64(raw, readScale, r.targetScale)
		if err != nil {
			return err
		}
		b.Values[i] = v
		b.ReadScales[i] = readScale
	}
	return nil
}

func (r *decimal64Reader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *decimal64Reader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.scale.Skip(nonNull); err != nil {
		return 0, err
	}
	for i := 0; i < nonNull; i++ {
		if _, err := rle.ReadVarInt(r.dataR); err != nil {
			return 0, err
		}
	}
	return nonNull, nil
}

func (r *decimal64Reader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	pos := positions[r.columnID]
	if err := r.dataS.Seek(pos); err != nil {
		return err
	}
	if err := r.scaleS.Seek(pos); err != nil {
		return err
	}
	r.dataR = stripeio.NewChunkByteReader(r.dataS)
	r.scale = newIntDecoder(r.scaleS, r.version, false)
	return nil
}

var _ ColumnReader = (*decimal64Reader)(nil)

// decimal128Reader is decimal64Reader generalized to precision>18, where
// the unscaled value may exceed 64 bits. DATA carries the same zigzag
// varint framing, just wider; SECONDARY is unchanged.
type decimal128Reader struct {
	base
	dataS  stripeio.SeekableByteStream
	dataR  *stripeio.ChunkByteReader
	scaleS stripeio.SeekableByteStream
	scale  intDecoder

	version     schema.RLEVersion
	targetScale int32
}

func newDecimal128Reader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion, targetScale int32) (*decimal128Reader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	scaleStream, err := streams.GetStream(columnID, schema.SECONDARY, true)
	if err != nil {
		return nil, err
	}
	return &decimal128Reader{
		base:        b,
		dataS:       dataStream,
		dataR:       stripeio.NewChunkByteReader(dataStream),
		scaleS:      scaleStream,
		scale:       newIntDecoder(scaleStream, version, false),
		version:     version,
		targetScale: targetScale,
	}, nil
}

func (r *decimal128Reader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.Decimal128Batch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	scales := make([]int64, n)
	if err := r.scale.NextMasked(scales, mask); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			continue
		}
		raw, err := rle.ReadVarBigInt(r.dataR)
		if err != nil {
			return err
		}
		readScale := int32(scales[i])
		v, err := rescaleBig(raw, readScale, r.targetScale)
		if err != nil {
			return err
		}
		b.Values[i] = v
		b.ReadScales[i] = readScale
	}
	return nil
}

func (r *decimal128Reader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *decimal128Reader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.scale.Skip(nonNull); err != nil {
		return 0, err
	}
	for i := 0; i < nonNull; i++ {
		if _, err := rle.ReadVarBigInt(r.dataR); err != nil {
			return 0, err
		}
	}
	return nonNull, nil
}

func (r *decimal128Reader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	pos := positions[r.columnID]
	if err := r.dataS.Seek(pos); err != nil {
		return err
	}
	if err := r.scaleS.Seek(pos); err != nil {
		return err
	}
	r.dataR = stripeio.NewChunkByteReader(r.dataS)
	r.scale = newIntDecoder(r.scaleS, r.version, false)
	return nil
}

var _ ColumnReader = (*decimal128Reader)(nil)

// decimal64V2Reader decodes the Hive-2.0+ "decimal as long" optimization
// for precision<=18: DATA is a signed RLE V2 stream of already-scaled
// int64 values, with no SECONDARY stream at all. Grounded on
// config.ReaderOptions.IsDecimalAsLong and the original's
// Decimal64ColumnReaderV2.
type decimal64V2Reader struct {
	base
	dataS stripeio.SeekableByteStream
	data  intDecoder
	scale int32
}

func newDecimal64V2Reader(columnID uint32, streams stripeio.StripeStreams, scale int32) (*decimal64V2Reader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	return &decimal64V2Reader{
		base:  b,
		dataS: dataStream,
		data:  rle.NewIntV2Decoder(stripeio.NewChunkByteReader(dataStream), true),
		scale: scale,
	}, nil
}

func (r *decimal64V2Reader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.Decimal64Batch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	if err := r.data.NextMasked(b.Values, mask); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b.ReadScales[i] = r.scale
	}
	return nil
}

func (r *decimal64V2Reader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *decimal64V2Reader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.data.Skip(nonNull); err != nil {
		return 0, err
	}
	return nonNull, nil
}

func (r *decimal64V2Reader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	if err := r.dataS.Seek(positions[r.columnID]); err != nil {
		return err
	}
	r.data = rle.NewIntV2Decoder(stripeio.NewChunkByteReader(r.dataS), true)
	return nil
}

var _ ColumnReader = (*decimal64V2Reader)(nil)

// decimalHive011Reader decodes the legacy Hive-0.11 DECIMAL encoding:
// precision/scale weren't tracked in the type at write time, so every
// value carries its own natural scale in SECONDARY and must be forced to
// a single reader-chosen scale (config.ReaderOptions.ForcedScaleOnHive11Decimal).
// Values that don't fit (a scale gap over 18, or more than 38 digits after
// rescaling) are either a hard error or null-with-warning
// depending on ThrowOnHive11DecimalOverflow, written to the stripe's
// error stream. Grounded on the original's Decimal64ColumnReader "hive
// 0.11" path and spec.md §9's note that a value nulled this way must also
// set the batch's has_nulls flag, which the teacher's closest analogue
// (orc's present-stream handling) always does and this reader must too
// even though its own PRESENT stream said the row was non-null.
type decimalHive011Reader struct {
	base
	dataS  stripeio.SeekableByteStream
	dataR  *stripeio.ChunkByteReader
	scaleS stripeio.SeekableByteStream
	scale  intDecoder
	version schema.RLEVersion

	forcedScale int32
	throwOnOverflow bool
	errStream   io.Writer
}

func newDecimalHive011Reader(columnID uint32, streams stripeio.StripeStreams, version schema.RLEVersion) (*decimalHive011Reader, error) {
	b, err := newBase(columnID, streams)
	if err != nil {
		return nil, err
	}
	dataStream, err := streams.GetStream(columnID, schema.DATA, true)
	if err != nil {
		return nil, err
	}
	scaleStream, err := streams.GetStream(columnID, schema.SECONDARY, true)
	if err != nil {
		return nil, err
	}
	return &decimalHive011Reader{
		base:            b,
		dataS:           dataStream,
		dataR:           stripeio.NewChunkByteReader(dataStream),
		scaleS:          scaleStream,
		scale:           newIntDecoder(scaleStream, version, false),
		version:         version,
		forcedScale:     streams.GetForcedScaleOnHive11Decimal(),
		throwOnOverflow: streams.GetThrowOnHive11DecimalOverflow(),
		errStream:       streams.GetErrorStream(),
	}, nil
}

func (r *decimalHive011Reader) Next(batch vector.Batch, n int, parentMask []byte) error {
	hdr := batch.Base()
	if err := r.decodeNulls(hdr, n, parentMask); err != nil {
		return err
	}
	mask := hdr.NotNull

	b, ok := batch.(*vector.Decimal128Batch)
	if !ok {
		return errors.WithStack(vector.ErrBatchKindMismatch)
	}
	b.Resize(n)

	scales := make([]int64, n)
	if err := r.scale.NextMasked(scales, mask); err != nil {
		return err
	}
	maxAbs := new(big.Int).Sub(pow10Big(38), big.NewInt(1))
	for i := 0; i < n; i++ {
		if mask != nil && mask[i] == 0 {
			continue
		}
		raw, err := rle.ReadVarBigInt(r.dataR)
		if err != nil {
			return err
		}
		readScale := int32(scales[i])
		v, err := rescaleBig(raw, readScale, r.forcedScale)
		if err == nil && v.CmpAbs(maxAbs) > 0 {
			err = newParseError("hive-0.11 decimal value exceeds 38 digits")
		}
		if err != nil {
			if r.throwOnOverflow {
				return errors.Wrapf(err, "column %d: hive-0.11 decimal overflow at forced scale %d", r.columnID, r.forcedScale)
			}
			if r.errStream != nil {
				fmt.Fprintf(r.errStream, "column %d: hive-0.11 decimal overflow, nulling row\n", r.columnID)
			}
			b.Values[i] = new(big.Int)
			b.ReadScales[i] = readScale
			hdr.NotNull[i] = 0
			hdr.HasNulls = true
			continue
		}
		b.Values[i] = v
		b.ReadScales[i] = readScale
	}
	return nil
}

func (r *decimalHive011Reader) NextEncoded(batch vector.Batch, n int, parentMask []byte) error {
	return r.Next(batch, n, parentMask)
}

func (r *decimalHive011Reader) Skip(n int) (int, error) {
	nonNull, err := r.skipNulls(n)
	if err != nil {
		return 0, err
	}
	if err := r.scale.Skip(nonNull); err != nil {
		return 0, err
	}
	for i := 0; i < nonNull; i++ {
		if _, err := rle.ReadVarBigInt(r.dataR); err != nil {
			return 0, err
		}
	}
	return nonNull, nil
}

func (r *decimalHive011Reader) SeekToRowGroup(positions map[uint32]*stripeio.PositionProvider) error {
	if err := r.seekToRowGroup(positions); err != nil {
		return err
	}
	pos := positions[r.columnID]
	if err := r.dataS.Seek(pos); err != nil {
		return err
	}
	if err := r.scaleS.Seek(pos); err != nil {
		return err
	}
	r.dataR = stripeio.NewChunkByteReader(r.dataS)
	r.scale = newIntDecoder(r.scaleS, r.version, false)
	return nil
}

var _ ColumnReader = (*decimalHive011Reader)(nil)
