// Package config is a plain holder for reader-wide options, modeled on the
// teacher's orc/config.ReaderOptions but scoped to the columnar decode core.
// No code in this module reads it: column.BuildReader takes its flags as
// arguments, and the decimal and timezone settings reach the readers through
// the stripeio.StripeStreams getters. Compression kind and stripe/footer
// layout also stay on stripeio.StripeStreams, since those are stripe-level,
// not reader-wide.
package config

import "github.com/orccore/columnar/stripeio"

// ReaderOptions controls decode behavior that is the same for every column
// in a reader's lifetime.
type ReaderOptions struct {
	// BatchSize is a default batch row count for a caller's own use; the
	// readers take N as an argument to Next and never read this field.
	BatchSize int

	// UseTightNumericVectors is the value for column.BuildReader's
	// useTightNumericVectors argument, which picks narrow Go integer batch
	// element types (int16 for SHORT, int32 for INT, byte for BOOLEAN/BYTE)
	// instead of always widening to int64.
	UseTightNumericVectors bool

	// ThrowOnSchemaEvolutionOverflow describes the convert-reader seam's
	// behavior on narrowing overflow. Nothing in this module passes it on:
	// neither column.BuildReader, column.BuildConvertReader nor
	// stripeio.SchemaEvolution takes such a flag.
	ThrowOnSchemaEvolutionOverflow bool

	// ConvertToReadType is the value for column.BuildReader's
	// convertToReadType argument. When false, BuildReader builds the native
	// reader for every node without consulting schema evolution; when true,
	// it asks stripeio.SchemaEvolution per node and uses
	// column.BuildConvertReader where a conversion is needed.
	ConvertToReadType bool

	// ForcedScaleOnHive11Decimal and ThrowOnHive11DecimalOverflow only
	// affect the legacy precision-0 decimal reader. They mirror the
	// StripeStreams getters of the same names, which are what that reader
	// reads.
	ForcedScaleOnHive11Decimal   int32
	ThrowOnHive11DecimalOverflow bool

	// IsDecimalAsLong mirrors StripeStreams.IsDecimalAsLong, which is what
	// column.BuildReader reads to select Decimal64ColumnReaderV2 (RLE V2
	// direct, already-scaled i64, no SECONDARY stream) over plain Decimal64
	// for short (precision<=18) decimals.
	IsDecimalAsLong bool

	MemoryPool    stripeio.MemoryPool
	ReaderMetrics stripeio.ReaderMetrics
}

// DefaultReaderOptions mirrors the teacher's zero-value ReaderOptions
// behavior: wide numeric vectors, no schema evolution, strict decimal
// overflow.
func DefaultReaderOptions() *ReaderOptions {
	return &ReaderOptions{
		BatchSize:                    1024,
		ThrowOnHive11DecimalOverflow: true,
	}
}
