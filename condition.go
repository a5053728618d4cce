package predicate

import (
	"sort"

	"github.com/zoobzio/predicate/internal/types"
)

// TryCompare creates a binary comparison, returning an error if invalid.
// The column is a name, a Column, or an Expression.
func TryCompare(op Operator, column, value any) (Condition, error) {
	return types.NewCompare(op, column, value)
}

// Compare creates a binary comparison.
// Panics if the operator or operands are invalid.
func Compare(op Operator, column, value any) Condition {
	c, err := TryCompare(op, column, value)
	if err != nil {
		panic(err)
	}
	return c
}

// Eq creates an equality comparison; a nil value compiles to IS NULL.
func Eq(column, value any) Condition {
	return Compare(types.EQ, column, value)
}

// TryNull creates an IS NULL condition, returning an error if invalid.
func TryNull(column any) (Condition, error) {
	return types.NewCompare(types.EQ, column, nil)
}

// Null creates an IS NULL condition.
func Null(column any) Condition {
	c, err := TryNull(column)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNotNull creates an IS NOT NULL condition, returning an error if invalid.
func TryNotNull(column any) (Condition, error) {
	return types.NewCompare(types.NE, column, nil)
}

// NotNull creates an IS NOT NULL condition.
func NotNull(column any) Condition {
	c, err := TryNotNull(column)
	if err != nil {
		panic(err)
	}
	return c
}

// TryBetween creates a BETWEEN condition, returning an error if invalid.
func TryBetween(column, start, end any) (Condition, error) {
	return types.NewBetween(types.BETWEEN, column, start, end)
}

// Between creates a BETWEEN condition.
func Between(column, start, end any) Condition {
	c, err := TryBetween(column, start, end)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNotBetween creates a NOT BETWEEN condition, returning an error if invalid.
func TryNotBetween(column, start, end any) (Condition, error) {
	return types.NewBetween(types.NotBetween, column, start, end)
}

// NotBetween creates a NOT BETWEEN condition.
func NotBetween(column, start, end any) Condition {
	c, err := TryNotBetween(column, start, end)
	if err != nil {
		panic(err)
	}
	return c
}

// TryBetweenColumns creates a "value BETWEEN start AND end" condition whose
// bounds are columns, returning an error if invalid.
func TryBetweenColumns(value, start, end any) (Condition, error) {
	return types.NewBetweenColumns(types.BETWEEN, value, start, end)
}

// BetweenColumns creates a condition testing a value against a column range.
func BetweenColumns(value, start, end any) Condition {
	c, err := TryBetweenColumns(value, start, end)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNotBetweenColumns creates the negated form of TryBetweenColumns.
func TryNotBetweenColumns(value, start, end any) (Condition, error) {
	return types.NewBetweenColumns(types.NotBetween, value, start, end)
}

// NotBetweenColumns creates the negated form of BetweenColumns.
func NotBetweenColumns(value, start, end any) Condition {
	c, err := TryNotBetweenColumns(value, start, end)
	if err != nil {
		panic(err)
	}
	return c
}

// TryIn creates an IN condition, returning an error if invalid.
// columns is a single column or a list of names for a composite key; values
// is a list (of rows for composite keys), a scalar, an Expression, or a Subquery.
func TryIn(columns, values any) (Condition, error) {
	return types.NewIn(types.IN, columns, values)
}

// In creates an IN condition.
func In(columns, values any) Condition {
	c, err := TryIn(columns, values)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNotIn creates a NOT IN condition, returning an error if invalid.
func TryNotIn(columns, values any) (Condition, error) {
	return types.NewIn(types.NotIn, columns, values)
}

// NotIn creates a NOT IN condition.
func NotIn(columns, values any) Condition {
	c, err := TryNotIn(columns, values)
	if err != nil {
		panic(err)
	}
	return c
}

// LikeOption tunes a LIKE condition.
type LikeOption func(*types.LikeOptions)

// CaseSensitive forces case-sensitive or case-insensitive matching.
// Without it the dialect default applies.
func CaseSensitive(sensitive bool) LikeOption {
	return func(o *types.LikeOptions) {
		o.CaseSensitive = &sensitive
	}
}

// Escape controls whether wildcard characters in patterns are escaped.
// Escaping is on by default.
func Escape(escape bool) LikeOption {
	return func(o *types.LikeOptions) {
		o.Escape = &escape
	}
}

// Mode sets where wildcards are placed around patterns.
func Mode(mode LikeMode) LikeOption {
	return func(o *types.LikeOptions) {
		o.Mode = mode
	}
}

func likeOptions(opts []LikeOption) types.LikeOptions {
	var o types.LikeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TryMatch creates a condition for any pattern operator (LIKE, NOT LIKE,
// OR LIKE, OR NOT LIKE), returning an error if invalid. pattern is nil, a
// string, an Expression, or a list of those.
func TryMatch(op Operator, column, pattern any, opts ...LikeOption) (Condition, error) {
	return types.NewLike(op, column, pattern, likeOptions(opts))
}

// Match creates a condition for any pattern operator.
func Match(op Operator, column, pattern any, opts ...LikeOption) Condition {
	c, err := TryMatch(op, column, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryLike creates a LIKE condition, returning an error if invalid.
// Multiple patterns must all match.
func TryLike(column, pattern any, opts ...LikeOption) (Condition, error) {
	return TryMatch(types.LIKE, column, pattern, opts...)
}

// Like creates a LIKE condition.
func Like(column, pattern any, opts ...LikeOption) Condition {
	return Match(types.LIKE, column, pattern, opts...)
}

// TryNotLike creates a NOT LIKE condition, returning an error if invalid.
func TryNotLike(column, pattern any, opts ...LikeOption) (Condition, error) {
	return TryMatch(types.NotLike, column, pattern, opts...)
}

// NotLike creates a NOT LIKE condition.
func NotLike(column, pattern any, opts ...LikeOption) Condition {
	return Match(types.NotLike, column, pattern, opts...)
}

// TryExists creates an EXISTS condition, returning an error if invalid.
func TryExists(sub any) (Condition, error) {
	return types.NewExists(types.EXISTS, sub)
}

// Exists creates an EXISTS condition.
func Exists(sub Subquery) Condition {
	c, err := TryExists(sub)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNotExists creates a NOT EXISTS condition, returning an error if invalid.
func TryNotExists(sub any) (Condition, error) {
	return types.NewExists(types.NotExists, sub)
}

// NotExists creates a NOT EXISTS condition.
func NotExists(sub Subquery) Condition {
	c, err := TryNotExists(sub)
	if err != nil {
		panic(err)
	}
	return c
}

// TryAnd creates an AND group, returning an error if nesting is too deep.
// Nil children are skipped and nested AND groups are flattened.
func TryAnd(conditions ...Condition) (Condition, error) {
	return types.NewConjunction(types.AndLogic, conditions...)
}

// And creates an AND group.
func And(conditions ...Condition) Condition {
	c, err := TryAnd(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryOr creates an OR group, returning an error if nesting is too deep.
func TryOr(conditions ...Condition) (Condition, error) {
	return types.NewConjunction(types.OrLogic, conditions...)
}

// Or creates an OR group.
func Or(conditions ...Condition) Condition {
	c, err := TryOr(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNot negates a condition, returning an error if it is nil.
func TryNot(inner Condition) (Condition, error) {
	return types.NewNot(inner)
}

// Not negates a condition.
func Not(inner Condition) Condition {
	c, err := TryNot(inner)
	if err != nil {
		panic(err)
	}
	return c
}

// TryHash creates an AND of equalities in entry order, returning an error if
// a column is empty or repeated. Nil values compile to IS NULL, lists and
// subqueries to IN.
func TryHash(entries ...HashEntry) (Condition, error) {
	return types.NewHash(entries...)
}

// Hash creates an AND of equalities in entry order.
func Hash(entries ...HashEntry) Condition {
	c, err := TryHash(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryHashMap creates a hash condition from a map, ordered by column name.
func TryHashMap(m map[string]any) (Condition, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]HashEntry, len(keys))
	for i, k := range keys {
		entries[i] = HashEntry{Column: k, Value: m[k]}
	}
	return types.NewHash(entries...)
}

// HashMap creates a hash condition from a map, ordered by column name.
func HashMap(m map[string]any) Condition {
	c, err := TryHashMap(m)
	if err != nil {
		panic(err)
	}
	return c
}

// TryOverlap creates a condition matching array or JSON columns sharing any
// element with values, returning an error if invalid.
func TryOverlap(column, values any) (Condition, error) {
	return types.NewOverlap(column, values)
}

// Overlap creates an overlap condition.
func Overlap(column, values any) Condition {
	c, err := TryOverlap(column, values)
	if err != nil {
		panic(err)
	}
	return c
}

// All matches every row. It compiles to an empty fragment.
func All() Condition {
	return types.All{}
}

// None matches no row.
func None() Condition {
	return types.None{}
}

// Raw embeds a SQL expression as a condition.
func Raw(sql string, params ...Param) Condition {
	return types.Raw{Expression: Expr(sql, params...)}
}

// RawExpr embeds an existing expression as a condition.
func RawExpr(expr Expression) Condition {
	return types.Raw{Expression: expr}
}
