package predicate

import "github.com/zoobzio/predicate/internal/types"

// Operator is a shorthand operator name.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	// Comparison operators.
	OpEQ   = types.EQ
	OpNE   = types.NE
	OpLTGT = types.LTGT
	OpGT   = types.GT
	OpGE   = types.GE
	OpLT   = types.LT
	OpLE   = types.LE

	// Logical operators.
	OpAnd = types.AND
	OpOr  = types.OR
	OpNot = types.NOT

	// Range and set operators.
	OpBetween    = types.BETWEEN
	OpNotBetween = types.NotBetween
	OpIn         = types.IN
	OpNotIn      = types.NotIn

	// Pattern operators.
	OpLike      = types.LIKE
	OpNotLike   = types.NotLike
	OpOrLike    = types.OrLike
	OpOrNotLike = types.OrNotLike

	// Subquery operators.
	OpExists    = types.EXISTS
	OpNotExists = types.NotExists

	// Array/JSON operators.
	OpOverlaps = types.Overlaps

	// Null tests.
	OpIsNull    = types.IsNull
	OpIsNotNull = types.IsNotNull
)

// Logic operators.
const (
	AndLogic = types.AndLogic
	OrLogic  = types.OrLogic
)

// ParseOperator normalizes a shorthand operator name: case-insensitive, with
// inner whitespace collapsed.
func ParseOperator(name string) Operator {
	return types.ParseOperator(name)
}
