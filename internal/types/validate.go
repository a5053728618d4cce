package types

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/predicate/internal/render"
)

// MaxConditionDepth bounds the nesting of conjunctions and negations.
const MaxConditionDepth = 64

func invalid(op Operator, format string, args ...any) error {
	return render.NewInvalidArgumentError(string(op), format, args...)
}

// ColumnOperand converts a column argument (name, Column, or Expression) into a Column.
func ColumnOperand(op Operator, v any) (Column, error) {
	switch c := v.(type) {
	case string:
		if c == "" {
			return Column{}, invalid(op, "column name is empty")
		}
		return Column{Name: c}, nil
	case Column:
		if c.Name == "" && c.Expr == nil {
			return Column{}, invalid(op, "column is empty")
		}
		return c, nil
	case Expression:
		return Column{Expr: &c}, nil
	case *Expression:
		if c == nil {
			return Column{}, invalid(op, "column expression is nil")
		}
		return Column{Expr: c}, nil
	default:
		return Column{}, invalid(op, "column must be a string or expression, got %T", v)
	}
}

// CheckValue rejects operands that can never be bound as a value.
func CheckValue(op Operator, v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(Condition); ok {
		return invalid(op, "a condition cannot be used as a value")
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return invalid(op, "unsupported value type %T", v)
	}
	return nil
}

// checkNested runs CheckValue on v and, for lists, on every element.
func checkNested(op Operator, v any) error {
	list, ok := AsList(v)
	if !ok {
		return CheckValue(op, v)
	}
	for _, item := range list {
		if err := checkNested(op, item); err != nil {
			return err
		}
	}
	return nil
}

// AsList expands a slice or array into []any. Byte slices and byte arrays
// (binary strings, UUIDs) are scalars and report false.
func AsList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// NewCompare validates a binary comparison. A list value is kept whole; it
// binds only through an array or JSON column descriptor at compile time.
func NewCompare(op Operator, column, value any) (Compare, error) {
	if !op.IsComparison() {
		return Compare{}, invalid(op, "unknown comparison operator")
	}
	col, err := ColumnOperand(op, column)
	if err != nil {
		return Compare{}, err
	}
	if err := checkNested(op, value); err != nil {
		return Compare{}, err
	}
	return Compare{Operator: op, Column: col, Value: value}, nil
}

// NewBetween validates a BETWEEN or NOT BETWEEN condition.
func NewBetween(op Operator, column, start, end any) (Between, error) {
	if op != BETWEEN && op != NotBetween {
		return Between{}, invalid(op, "unknown range operator")
	}
	col, err := ColumnOperand(op, column)
	if err != nil {
		return Between{}, err
	}
	for _, v := range []any{start, end} {
		if _, ok := AsList(v); ok {
			return Between{}, invalid(op, "bounds must be scalars, expressions, or subqueries, got %T", v)
		}
		if err := CheckValue(op, v); err != nil {
			return Between{}, err
		}
	}
	return Between{Column: col, Negated: op == NotBetween, Start: start, End: end}, nil
}

// NewBetweenColumns validates a value [NOT] BETWEEN column AND column condition.
func NewBetweenColumns(op Operator, value, start, end any) (BetweenColumns, error) {
	if op != BETWEEN && op != NotBetween {
		return BetweenColumns{}, invalid(op, "unknown range operator")
	}
	if err := CheckValue(op, value); err != nil {
		return BetweenColumns{}, err
	}
	if _, ok := AsList(value); ok {
		return BetweenColumns{}, invalid(op, "value must be a scalar, expression, or subquery, got %T", value)
	}
	startCol, err := ColumnOperand(op, start)
	if err != nil {
		return BetweenColumns{}, err
	}
	endCol, err := ColumnOperand(op, end)
	if err != nil {
		return BetweenColumns{}, err
	}
	return BetweenColumns{Value: value, Negated: op == NotBetween, Start: startCol, End: endCol}, nil
}

func columnList(op Operator, columns any) ([]Column, error) {
	if list, ok := AsList(columns); ok {
		if len(list) == 0 {
			return nil, invalid(op, "column list is empty")
		}
		cols := make([]Column, len(list))
		for i, item := range list {
			name, ok := item.(string)
			if !ok || name == "" {
				return nil, invalid(op, "composite columns must be non-empty names, got %T", item)
			}
			cols[i] = Column{Name: name}
		}
		return cols, nil
	}
	col, err := ColumnOperand(op, columns)
	if err != nil {
		return nil, err
	}
	return []Column{col}, nil
}

// NewIn validates an IN or NOT IN condition. A scalar value is treated as a
// one-element list; composite rows may be positional lists or maps keyed by column.
func NewIn(op Operator, columns, values any) (In, error) {
	if op != IN && op != NotIn {
		return In{}, invalid(op, "unknown set operator")
	}
	cols, err := columnList(op, columns)
	if err != nil {
		return In{}, err
	}
	cond := In{Columns: cols, Negated: op == NotIn}

	switch v := values.(type) {
	case Subquery:
		cond.Values = v
		return cond, nil
	case Expression:
		cond.Values = v
		return cond, nil
	case *Expression:
		if v == nil {
			return In{}, invalid(op, "values expression is nil")
		}
		cond.Values = *v
		return cond, nil
	}

	list, ok := AsList(values)
	if !ok {
		list = []any{values}
	}

	if !cond.Composite() {
		out := make([]any, len(list))
		for i, item := range list {
			if _, nested := AsList(item); nested {
				return In{}, invalid(op, "nested list given for single column %q", cols[0])
			}
			if err := CheckValue(op, item); err != nil {
				return In{}, err
			}
			out[i] = item
		}
		cond.Values = out
		return cond, nil
	}

	rows := make([]any, len(list))
	for i, item := range list {
		row, err := compositeRow(op, cols, item)
		if err != nil {
			return In{}, err
		}
		rows[i] = row
	}
	cond.Values = rows
	return cond, nil
}

func compositeRow(op Operator, cols []Column, item any) ([]any, error) {
	var row []any
	if m, ok := item.(map[string]any); ok {
		row = make([]any, len(cols))
		for i, col := range cols {
			row[i] = m[col.Name]
		}
	} else {
		row, ok = AsList(item)
		if !ok {
			return nil, invalid(op, "composite row must be a list or map, got %T", item)
		}
		if len(row) != len(cols) {
			return nil, invalid(op, "composite row has %d values for %d columns", len(row), len(cols))
		}
	}
	for _, v := range row {
		if err := CheckValue(op, v); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// LikeOptions tunes a LIKE condition. Nil fields take their defaults:
// escaping enabled, Contains mode, dialect case sensitivity.
type LikeOptions struct {
	CaseSensitive *bool
	Escape        *bool
	Mode          LikeMode
}

// NewLike validates a LIKE family condition.
func NewLike(op Operator, column, pattern any, opts LikeOptions) (Like, error) {
	cond := Like{Escape: true, Mode: LikeContains, Conjunction: AndLogic, CaseSensitive: opts.CaseSensitive}
	switch op {
	case LIKE:
	case NotLike:
		cond.Negated = true
	case OrLike:
		cond.Conjunction = OrLogic
	case OrNotLike:
		cond.Conjunction = OrLogic
		cond.Negated = true
	default:
		return Like{}, invalid(op, "unknown pattern operator")
	}

	col, err := ColumnOperand(op, column)
	if err != nil {
		return Like{}, err
	}
	cond.Column = col

	if opts.Escape != nil {
		cond.Escape = *opts.Escape
	}
	switch opts.Mode {
	case "":
	case LikeContains, LikeStartsWith, LikeEndsWith, LikeCustom:
		cond.Mode = opts.Mode
	default:
		return Like{}, invalid(op, "unknown mode %q", opts.Mode)
	}

	var list []any
	switch p := pattern.(type) {
	case nil:
	case Expression:
		list = []any{p}
	case *Expression:
		list = []any{*p}
	default:
		var ok bool
		if list, ok = AsList(pattern); !ok {
			list = []any{pattern}
		}
	}

	cond.Patterns = make([]any, 0, len(list))
	for _, item := range list {
		switch p := item.(type) {
		case string, Expression:
			cond.Patterns = append(cond.Patterns, p)
		case *Expression:
			cond.Patterns = append(cond.Patterns, *p)
		case fmt.Stringer:
			cond.Patterns = append(cond.Patterns, p.String())
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			cond.Patterns = append(cond.Patterns, fmt.Sprint(p))
		default:
			return Like{}, invalid(op, "pattern must be a string or expression, got %T", item)
		}
	}
	return cond, nil
}

// NewConjunction validates an AND/OR group. Nil children are skipped and
// nested groups with the same logic are flattened into this one.
func NewConjunction(logic LogicOperator, children ...Condition) (Conjunction, error) {
	op := Operator(logic)
	if logic != AndLogic && logic != OrLogic {
		return Conjunction{}, invalid(op, "unknown logic operator")
	}
	c := Conjunction{Logic: logic, Children: make([]Condition, 0, len(children)), depth: 1}
	for _, child := range children {
		if child == nil {
			continue
		}
		if nested, ok := child.(Conjunction); ok && nested.Logic == logic {
			c.Children = append(c.Children, nested.Children...)
			c.depth = max(c.depth, nested.depth)
			continue
		}
		c.Children = append(c.Children, child)
		c.depth = max(c.depth, Depth(child)+1)
	}
	if c.depth > MaxConditionDepth {
		return Conjunction{}, invalid(op, "nesting exceeds maximum depth of %d", MaxConditionDepth)
	}
	return c, nil
}

// NewNot validates a negation.
func NewNot(inner Condition) (Not, error) {
	if inner == nil {
		return Not{}, invalid(NOT, "requires exactly one inner condition")
	}
	depth := Depth(inner) + 1
	if depth > MaxConditionDepth {
		return Not{}, invalid(NOT, "nesting exceeds maximum depth of %d", MaxConditionDepth)
	}
	return Not{Inner: inner, depth: depth}, nil
}

// NewHash validates a column/value mapping.
func NewHash(entries ...HashEntry) (Hash, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]HashEntry, 0, len(entries))
	for _, e := range entries {
		if e.Column == "" {
			return Hash{}, invalid(EQ, "hash column name is empty")
		}
		if seen[e.Column] {
			return Hash{}, invalid(EQ, "duplicate hash column %q", e.Column)
		}
		seen[e.Column] = true
		if err := CheckValue(EQ, e.Value); err != nil {
			return Hash{}, err
		}
		out = append(out, e)
	}
	return Hash{Entries: out}, nil
}

// NewExists validates an EXISTS or NOT EXISTS condition.
func NewExists(op Operator, sub any) (Exists, error) {
	if op != EXISTS && op != NotExists {
		return Exists{}, invalid(op, "unknown subquery operator")
	}
	q, ok := sub.(Subquery)
	if !ok || q == nil {
		return Exists{}, invalid(op, "operand must be a subquery, got %T", sub)
	}
	return Exists{Negated: op == NotExists, Subquery: q}, nil
}

// NewOverlap validates an overlap condition.
func NewOverlap(column, values any) (Overlap, error) {
	col, err := ColumnOperand(Overlaps, column)
	if err != nil {
		return Overlap{}, err
	}
	switch v := values.(type) {
	case Expression:
		return Overlap{Column: col, Values: v}, nil
	case *Expression:
		if v == nil {
			return Overlap{}, invalid(Overlaps, "values expression is nil")
		}
		return Overlap{Column: col, Values: *v}, nil
	}
	list, ok := AsList(values)
	if !ok {
		return Overlap{}, invalid(Overlaps, "values must be a list or expression, got %T", values)
	}
	for _, item := range list {
		if err := CheckValue(Overlaps, item); err != nil {
			return Overlap{}, err
		}
	}
	return Overlap{Column: col, Values: list}, nil
}
