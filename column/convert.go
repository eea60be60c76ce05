package column

import (
	"github.com/orccore/columnar/schema"
	"github.com/orccore/columnar/stripeio"
)

// BuildConvertReader is the schema-evolution seam spec.md §4.9 step 1
// names: an external collaborator substituted ahead of the native reader
// when the stripe's schema evolution says a writer type needs converting
// to the reader's requested type. This decode core ships no concrete
// conversion logic (out of scope per spec.md §1) — a caller that passes
// convertToReadType=true to BuildReader sets this hook to its own
// converter; BuildReader calls it when streams.GetSchemaEvolution()
// reports a node needs conversion, and fails NotImplementedYet if the
// hook was never set.
var BuildConvertReader func(t *schema.TypeNode, streams stripeio.StripeStreams) (ColumnReader, error)
