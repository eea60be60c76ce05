// Package vector holds the typed row-batch buffers a ColumnReader tree
// decodes into. Unlike the teacher's orc/api.ColumnVector (one struct
// holding a []Value of boxed interface{} and downcast by callers), this
// package is a closed set of concrete batch types, one per TypeKind family,
// so a reader only ever accepts the one batch variant shaped for it. This
// follows spec.md §9's tagged-sum-type redesign note directly.
package vector

import "github.com/pkg/errors"

// ErrBatchKindMismatch is returned when a reader is handed a batch variant
// that doesn't match the kind it decodes.
var ErrBatchKindMismatch = errors.New("vector: batch kind does not match reader")

// Header is the field set every batch variant carries, mirroring
// ColumnVectorBatch's common fields in spec.md §3.
type Header struct {
	ColumnID    uint32
	Capacity    int
	NumElements int
	HasNulls    bool
	NotNull     []byte // 1 = present; len >= NumElements after Resize
}

// Resize grows Capacity/NotNull to at least n and sets NumElements = n.
// Concrete batch types call this, then grow their own payload slices to
// match; it never shrinks backing storage, only NumElements.
func (h *Header) Resize(n int) {
	if n > h.Capacity {
		grown := make([]byte, n)
		copy(grown, h.NotNull)
		h.NotNull = grown
		h.Capacity = n
	}
	h.NumElements = n
}

// AllNonNull reports whether NotNull[0:NumElements] is all ones, the
// condition under which step 5 of §4.1 clears HasNulls.
func (h *Header) AllNonNull() bool {
	for i := 0; i < h.NumElements; i++ {
		if h.NotNull[i] == 0 {
			return false
		}
	}
	return true
}

// Batch is satisfied by every concrete batch variant below. Base returns
// the shared header (named Base, not Header, since every variant embeds
// a field of type Header and Go forbids a method shadowing its own type's
// embedded field name).
type Batch interface {
	Base() *Header
}
