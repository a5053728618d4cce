package types

import "strings"

// Operator represents a shorthand operator name.
type Operator string

const (
	// Comparison operators.
	EQ   Operator = "="
	NE   Operator = "!="
	LTGT Operator = "<>"
	GT   Operator = ">"
	GE   Operator = ">="
	LT   Operator = "<"
	LE   Operator = "<="

	// Logical operators.
	AND Operator = "AND"
	OR  Operator = "OR"
	NOT Operator = "NOT"

	// Range and set operators.
	BETWEEN    Operator = "BETWEEN"
	NotBetween Operator = "NOT BETWEEN"
	IN         Operator = "IN"
	NotIn      Operator = "NOT IN"

	// Pattern operators.
	LIKE      Operator = "LIKE"
	NotLike   Operator = "NOT LIKE"
	OrLike    Operator = "OR LIKE"
	OrNotLike Operator = "OR NOT LIKE"

	// Subquery operators.
	EXISTS    Operator = "EXISTS"
	NotExists Operator = "NOT EXISTS"

	// Array/JSON operators.
	Overlaps Operator = "OVERLAPS"

	// Null tests, rendered from normalized conditions.
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"
)

// ParseOperator normalizes a shorthand operator name.
// Matching is case-insensitive and tolerates repeated inner whitespace.
func ParseOperator(name string) Operator {
	return Operator(strings.ToUpper(strings.Join(strings.Fields(name), " ")))
}

// IsComparison reports whether op is a binary comparison operator.
func (op Operator) IsComparison() bool {
	switch op {
	case EQ, NE, LTGT, GT, GE, LT, LE:
		return true
	}
	return false
}

// Negates reports whether op is the "not equal" family.
func (op Operator) Negates() bool {
	return op == NE || op == LTGT
}
