// Package predicate compiles SQL filter conditions into dialect-specific,
// parameterized SQL.
//
// A condition is built either with the typed constructors in this package or
// parsed from the shorthand definition grammar, then compiled against a
// Dialect. Leaf values bound against a known column are cast through that
// column's descriptor; everything else is bound as-is with generic inference.
//
// # Basic Usage
//
//	import "github.com/zoobzio/predicate/postgres"
//
//	cond, err := predicate.Parse([]any{"between", "age", 18, 65})
//	if err != nil {
//		return err
//	}
//
//	result, err := predicate.NewCompiler(postgres.New()).Compile(cond)
//	// result.SQL:    "age" BETWEEN :qp0 AND :qp1
//	// result.Params: qp0=18, qp1=65
//
// # Shorthand Grammar
//
// A definition is a list whose first element names the operator, or a
// column/value mapping that compiles to an AND of equalities:
//
//	[]any{"and", cond1, cond2, ...}
//	[]any{"not", cond}
//	[]any{"between", column, low, high}
//	[]any{"in", column, []any{1, 2, 3}}
//	[]any{"in", []any{"a", "b"}, []any{[]any{1, 2}, []any{3, 4}}}
//	[]any{"like", column, "pattern", map[string]any{"mode": "startsWith"}}
//	[]any{"exists", subquery}
//	[]any{">=", column, value}
//	map[string]any{"status": 1, "deleted_at": nil}
//
// Plain strings inside "and", "or" and "not" are embedded as raw SQL. Never
// pass untrusted input as a condition string; bind it as a value instead.
//
// # Type-Aware Binding
//
// A ColumnLookup supplies column descriptors so values are marshaled for the
// column's type before binding. An Instance built from a DBML project is one
// such lookup:
//
//	instance, err := predicate.NewFromDBML(project, predicate.WithProfile(postgres.Profile()))
//	compiler := predicate.NewCompiler(postgres.New(), predicate.WithLookup(instance))
//
// # Output Format
//
// Compiled SQL uses named placeholders (":qp0") for use with sqlx-style
// drivers. The dialect packages rewrite them for native drivers (pgx named
// arguments, "?" markers, "@name" arguments).
package predicate

import (
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/internal/types"
)

// Condition is a node of a filter tree.
type Condition = types.Condition

// Kind tags a condition variant.
type Kind = types.Kind

// Re-export condition kinds for renderer registration.
const (
	KindCompare        = types.KindCompare
	KindBetween        = types.KindBetween
	KindBetweenColumns = types.KindBetweenColumns
	KindIn             = types.KindIn
	KindLike           = types.KindLike
	KindExists         = types.KindExists
	KindConjunction    = types.KindConjunction
	KindNot            = types.KindNot
	KindHash           = types.KindHash
	KindOverlap        = types.KindOverlap
	KindAll            = types.KindAll
	KindNone           = types.KindNone
	KindRaw            = types.KindRaw
)

// Condition variants, exposed for renderer overrides.
type (
	CompareCondition        = types.Compare
	BetweenCondition        = types.Between
	BetweenColumnsCondition = types.BetweenColumns
	InCondition             = types.In
	LikeCondition           = types.Like
	ExistsCondition         = types.Exists
	ConjunctionCondition    = types.Conjunction
	NotCondition            = types.Not
	HashCondition           = types.Hash
	OverlapCondition        = types.Overlap
	AllCondition            = types.All
	NoneCondition           = types.None
	RawCondition            = types.Raw
)

// HashEntry is one column/value pair of a hash condition.
type HashEntry = types.HashEntry

// Column is a condition operand naming a column or holding a raw expression.
type Column = types.Column

// Expression is a raw SQL fragment with its own parameters.
type Expression = types.Expression

// Subquery compiles itself for embedding in another statement.
type Subquery = types.Subquery

// Params is an ordered placeholder-name to value map.
type Params = types.Params

// Param is one named binding.
type Param = types.Param

// LogicOperator joins conjunction children.
type LogicOperator = types.LogicOperator

// LikeMode places wildcards around LIKE patterns.
type LikeMode = types.LikeMode

// Re-export like modes.
const (
	Contains   = types.LikeContains
	StartsWith = types.LikeStartsWith
	EndsWith   = types.LikeEndsWith
	Custom     = types.LikeCustom
)

// Capabilities describes what a dialect can express.
type Capabilities = render.Capabilities

// UnsupportedFeatureError is returned when a dialect cannot express a condition.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// InvalidArgumentError is returned for malformed condition definitions.
type InvalidArgumentError = render.InvalidArgumentError

// MaxConditionDepth bounds how deeply conjunctions and negations may nest.
const MaxConditionDepth = types.MaxConditionDepth

// MaxSubqueryDepth bounds how deeply subqueries built by a Compiler may nest.
const MaxSubqueryDepth = 3

// NewParams creates a parameter map seeded with params in order.
func NewParams(params ...Param) *Params {
	return types.NewParams(params...)
}

// P creates a named parameter.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Expr creates a raw SQL expression with optional parameters.
// The SQL is emitted verbatim; never build it from untrusted input.
func Expr(sql string, params ...Param) Expression {
	return Expression{SQL: sql, Params: types.NewParams(params...)}
}

// Col creates a column operand. It marks bare names where a value would
// otherwise be expected, such as the bounds of a between-columns range.
func Col(name string) Column {
	return Column{Name: name}
}
