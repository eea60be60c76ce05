// Package schema describes the writer/reader schema tree that a stripe's
// column readers are built against.
package schema

import (
	"fmt"
	"strings"
)

// TypeKind is the ORC-style primitive/composite kind of a schema node.
type TypeKind int

const (
	BOOLEAN TypeKind = iota
	BYTE
	SHORT
	INT
	LONG
	DATE
	FLOAT
	DOUBLE
	TIMESTAMP
	TIMESTAMP_INSTANT
	STRING
	VARCHAR
	CHAR
	BINARY
	GEOMETRY
	GEOGRAPHY
	DECIMAL
	LIST
	MAP
	STRUCT
	UNION
)

func (k TypeKind) String() string {
	switch k {
	case BOOLEAN:
		return "boolean"
	case BYTE:
		return "byte"
	case SHORT:
		return "short"
	case INT:
		return "int"
	case LONG:
		return "long"
	case DATE:
		return "date"
	case FLOAT:
		return "float"
	case DOUBLE:
		return "double"
	case TIMESTAMP:
		return "timestamp"
	case TIMESTAMP_INSTANT:
		return "timestamp_instant"
	case STRING:
		return "string"
	case VARCHAR:
		return "varchar"
	case CHAR:
		return "char"
	case BINARY:
		return "binary"
	case GEOMETRY:
		return "geometry"
	case GEOGRAPHY:
		return "geography"
	case DECIMAL:
		return "decimal"
	case LIST:
		return "list"
	case MAP:
		return "map"
	case STRUCT:
		return "struct"
	case UNION:
		return "union"
	default:
		return "unknown"
	}
}

// IsStringFamily reports whether the kind is dispatched through the string
// reader pair (direct/dictionary), which also covers binary and the
// geospatial kinds per the factory table in §4.9.
func (k TypeKind) IsStringFamily() bool {
	switch k {
	case STRING, VARCHAR, CHAR, BINARY, GEOMETRY, GEOGRAPHY:
		return true
	default:
		return false
	}
}

// TypeNode is an immutable node in the schema tree. ColumnId is the
// pre-order index of the node, unique within the tree and stable across
// stripes of the same writer schema.
type TypeNode struct {
	ColumnID uint32
	Kind     TypeKind

	Children     []*TypeNode
	FieldNames   []string // STRUCT field names, parallel to Children

	// Precision/Scale only meaningful for DECIMAL. Precision == 0 flags a
	// Hive-0.11 legacy decimal (no declared precision, 128-bit output,
	// caller-forced scale).
	Precision int
	Scale     int
}

func (t *TypeNode) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s", t.ColumnID, t.Kind)
	if t.Kind == DECIMAL {
		fmt.Fprintf(&sb, "(%d,%d)", t.Precision, t.Scale)
	}
	for i, c := range t.Children {
		sb.WriteString(" ")
		if i < len(t.FieldNames) {
			fmt.Fprintf(&sb, "%s:", t.FieldNames[i])
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Walk visits the node and every descendant pre-order.
func (t *TypeNode) Walk(visit func(*TypeNode)) {
	visit(t)
	for _, c := range t.Children {
		c.Walk(visit)
	}
}

// Normalize assigns pre-order ColumnIDs to the tree rooted at t, starting
// from startID, and returns the next unused id.
func Normalize(t *TypeNode, startID uint32) uint32 {
	t.ColumnID = startID
	next := startID + 1
	for _, c := range t.Children {
		next = Normalize(c, next)
	}
	return next
}
