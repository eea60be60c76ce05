package column

import (
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
	"github.com/orccore/columnar/vector"
)

// BuildReader implements spec.md §4.9's build_reader / the original's
// buildReader(): given a schema node and the stripe it belongs to, it
// returns a ColumnReader (recursing into children for composites) and a
// matching vector.Batch tree the caller can hand to Next. useTightNumericVectors
// selects narrow Go element types for SHORT/INT/BOOLEAN/BYTE per
// SPEC_FULL.md's supplemental feature 2; convertToReadType gates the
// schema evolution seam. BuildReader takes no throwOnSchemaEvolutionOverflow
// flag, and BuildConvertReader receives none, so overflow handling during
// conversion is left entirely to the registered convert-reader.
func BuildReader(t *schema.TypeNode, streams stripeio.StripeStreams, useTightNumericVectors bool, convertToReadType bool) (ColumnReader, vector.Batch, error) {
	if convertToReadType {
		if ev := streams.GetSchemaEvolution(); ev != nil && ev.NeedsConvert(t) {
			if BuildConvertReader == nil {
				return nil, nil, newNotImplementedError("schema evolution requested for column %d but no convert-reader is registered", t.ColumnID)
			}
			r, err := BuildConvertReader(t, streams)
			if err != nil {
				return nil, nil, err
			}
			batch, err := newBatchFor(t, streams, useTightNumericVectors)
			if err != nil {
				return nil, nil, err
			}
			return r, batch, nil
		}
	}

	enc := streams.GetEncoding(t.ColumnID)
	version := enc.Kind.RLEVersion()

	switch t.Kind {
	case schema.SHORT, schema.INT, schema.LONG, schema.DATE:
		r, err := newIntegerReader(t.ColumnID, streams, version)
		if err != nil {
			return nil, nil, err
		}
		return r, newIntegerBatch(t, useTightNumericVectors), nil

	case schema.BOOLEAN:
		wide := !useTightNumericVectors
		r, err := newBooleanReader(t.ColumnID, streams, wide)
		if err != nil {
			return nil, nil, err
		}
		if wide {
			return r, vector.NewLongBatch(t.ColumnID), nil
		}
		return r, vector.NewByteBatch(t.ColumnID), nil

	case schema.BYTE:
		wide := !useTightNumericVectors
		r, err := newByteReader(t.ColumnID, streams, wide)
		if err != nil {
			return nil, nil, err
		}
		if wide {
			return r, vector.NewLongBatch(t.ColumnID), nil
		}
		return r, vector.NewByteBatch(t.ColumnID), nil

	case schema.STRING, schema.VARCHAR, schema.CHAR, schema.BINARY, schema.GEOMETRY, schema.GEOGRAPHY:
		if enc.Kind.IsDictionary() {
			r, err := newStringDictionaryReader(t.ColumnID, streams, version, enc.DictionarySize)
			if err != nil {
				return nil, nil, err
			}
			return r, vector.NewDictionaryBatch(t.ColumnID), nil
		}
		r, err := newStringDirectReader(t.ColumnID, streams, version)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewBytesBatch(t.ColumnID), nil

	case schema.FLOAT:
		r, err := newFloatReader(t.ColumnID, streams, 4, false)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewFloatBatch(t.ColumnID), nil

	case schema.DOUBLE:
		r, err := newFloatReader(t.ColumnID, streams, 8, true)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewDoubleBatch(t.ColumnID), nil

	case schema.TIMESTAMP, schema.TIMESTAMP_INSTANT:
		r, err := newTimestampReader(t.ColumnID, streams, version, t.Kind == schema.TIMESTAMP_INSTANT)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewTimestampBatch(t.ColumnID), nil

	case schema.DECIMAL:
		return buildDecimalReader(t, streams, version)

	case schema.LIST:
		if len(t.Children) != 1 {
			return nil, nil, newParseError("LIST column %d must have exactly one child type", t.ColumnID)
		}
		elemReader, elemBatch, err := BuildReader(t.Children[0], streams, useTightNumericVectors, convertToReadType)
		if err != nil {
			return nil, nil, err
		}
		r, err := newListReader(t.ColumnID, streams, version, elemReader)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewListBatch(t.ColumnID, elemBatch), nil

	case schema.MAP:
		if len(t.Children) != 2 {
			return nil, nil, newParseError("MAP column %d must have exactly two child types", t.ColumnID)
		}
		keyReader, keyBatch, err := BuildReader(t.Children[0], streams, useTightNumericVectors, convertToReadType)
		if err != nil {
			return nil, nil, err
		}
		valReader, valBatch, err := BuildReader(t.Children[1], streams, useTightNumericVectors, convertToReadType)
		if err != nil {
			return nil, nil, err
		}
		r, err := newMapReader(t.ColumnID, streams, version, keyReader, valReader)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewMapBatch(t.ColumnID, keyBatch, valBatch), nil

	case schema.STRUCT:
		selected := streams.GetSelectedColumns()
		var children []ColumnReader
		var fields []vector.Batch
		for _, c := range t.Children {
			if !isColumnSelected(selected, c.ColumnID) {
				continue
			}
			cr, cb, err := BuildReader(c, streams, useTightNumericVectors, convertToReadType)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, cr)
			fields = append(fields, cb)
		}
		r, err := newStructReader(t.ColumnID, streams, children)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewStructBatch(t.ColumnID, fields), nil

	case schema.UNION:
		children := make([]ColumnReader, len(t.Children))
		childBatches := make([]vector.Batch, len(t.Children))
		for i, c := range t.Children {
			cr, cb, err := BuildReader(c, streams, useTightNumericVectors, convertToReadType)
			if err != nil {
				return nil, nil, err
			}
			children[i] = cr
			childBatches[i] = cb
		}
		r, err := newUnionReader(t.ColumnID, streams, children)
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewUnionBatch(t.ColumnID, childBatches), nil

	default:
		return nil, nil, newNotImplementedError("unhandled type kind %s for column %d", t.Kind, t.ColumnID)
	}
}

// isColumnSelected reports whether columnID is included in a
// GetSelectedColumns bitset indexed by column id. A nil bitset means every
// column is selected (the common case: no column pruning requested).
func isColumnSelected(selected []bool, columnID uint32) bool {
	if selected == nil {
		return true
	}
	return int(columnID) < len(selected) && selected[columnID]
}

func newIntegerBatch(t *schema.TypeNode, tight bool) vector.Batch {
	if !tight {
		return vector.NewLongBatch(t.ColumnID)
	}
	switch t.Kind {
	case schema.SHORT:
		return vector.NewShortBatch(t.ColumnID)
	case schema.INT:
		return vector.NewIntBatch(t.ColumnID)
	default:
		return vector.NewLongBatch(t.ColumnID)
	}
}

func buildDecimalReader(t *schema.TypeNode, streams stripeio.StripeStreams, version schema.RLEVersion) (ColumnReader, vector.Batch, error) {
	switch {
	case t.Precision == 0:
		r, err := newDecimalHive011Reader(t.ColumnID, streams, version)
		if err != nil {
			return nil, nil, err
		}
		scale := streams.GetForcedScaleOnHive11Decimal()
		return r, vector.NewDecimal128Batch(t.ColumnID, 38, int(scale)), nil

	case t.Precision <= 18:
		if streams.IsDecimalAsLong() {
			r, err := newDecimal64V2Reader(t.ColumnID, streams, int32(t.Scale))
			if err != nil {
				return nil, nil, err
			}
			return r, vector.NewDecimal64Batch(t.ColumnID, t.Precision, t.Scale), nil
		}
		r, err := newDecimal64Reader(t.ColumnID, streams, version, int32(t.Scale))
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewDecimal64Batch(t.ColumnID, t.Precision, t.Scale), nil

	default:
		r, err := newDecimal128Reader(t.ColumnID, streams, version, int32(t.Scale))
		if err != nil {
			return nil, nil, err
		}
		return r, vector.NewDecimal128Batch(t.ColumnID, t.Precision, t.Scale), nil
	}
}

// newBatchFor builds the batch shape for a node without building a native
// reader, used only on the schema-evolution path where BuildConvertReader
// supplies the reader but this package still owns the vector layout.
func newBatchFor(t *schema.TypeNode, streams stripeio.StripeStreams, useTightNumericVectors bool) (vector.Batch, error) {
	switch t.Kind {
	case schema.SHORT, schema.INT, schema.LONG, schema.DATE:
		return newIntegerBatch(t, useTightNumericVectors), nil
	case schema.BOOLEAN, schema.BYTE:
		if useTightNumericVectors {
			return vector.NewByteBatch(t.ColumnID), nil
		}
		return vector.NewLongBatch(t.ColumnID), nil
	case schema.STRING, schema.VARCHAR, schema.CHAR, schema.BINARY, schema.GEOMETRY, schema.GEOGRAPHY:
		enc := streams.GetEncoding(t.ColumnID)
		if enc.Kind.IsDictionary() {
			return vector.NewDictionaryBatch(t.ColumnID), nil
		}
		return vector.NewBytesBatch(t.ColumnID), nil
	case schema.FLOAT:
		return vector.NewFloatBatch(t.ColumnID), nil
	case schema.DOUBLE:
		return vector.NewDoubleBatch(t.ColumnID), nil
	case schema.TIMESTAMP, schema.TIMESTAMP_INSTANT:
		return vector.NewTimestampBatch(t.ColumnID), nil
	case schema.DECIMAL:
		if t.Precision == 0 || t.Precision > 18 {
			return vector.NewDecimal128Batch(t.ColumnID, t.Precision, t.Scale), nil
		}
		return vector.NewDecimal64Batch(t.ColumnID, t.Precision, t.Scale), nil
	case schema.LIST:
		elemBatch, err := newBatchFor(t.Children[0], streams, useTightNumericVectors)
		if err != nil {
			return nil, err
		}
		return vector.NewListBatch(t.ColumnID, elemBatch), nil
	case schema.MAP:
		keyBatch, err := newBatchFor(t.Children[0], streams, useTightNumericVectors)
		if err != nil {
			return nil, err
		}
		valBatch, err := newBatchFor(t.Children[1], streams, useTightNumericVectors)
		if err != nil {
			return nil, err
		}
		return vector.NewMapBatch(t.ColumnID, keyBatch, valBatch), nil
	case schema.STRUCT:
		selected := streams.GetSelectedColumns()
		var fields []vector.Batch
		for _, c := range t.Children {
			if !isColumnSelected(selected, c.ColumnID) {
				continue
			}
			fb, err := newBatchFor(c, streams, useTightNumericVectors)
			if err != nil {
				return nil, err
			}
			fields = append(fields, fb)
		}
		return vector.NewStructBatch(t.ColumnID, fields), nil
	case schema.UNION:
		children := make([]vector.Batch, len(t.Children))
		for i, c := range t.Children {
			cb, err := newBatchFor(c, streams, useTightNumericVectors)
			if err != nil {
				return nil, err
			}
			children[i] = cb
		}
		return vector.NewUnionBatch(t.ColumnID, children), nil
	default:
		return nil, newNotImplementedError("unhandled type kind %s for column %d", t.Kind, t.ColumnID)
	}
}
