package predicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/internal/types"
)

// Ordered is a hash definition that keeps its declaration order.
type Ordered []HashEntry

func invalid(op Operator, format string, args ...any) error {
	return render.NewInvalidArgumentError(string(op), format, args...)
}

// Parse converts a shorthand definition into a validated condition.
//
// A definition is one of:
//   - nil, which matches everything
//   - a Condition, returned unchanged
//   - an Expression or a plain string, embedded as raw SQL
//   - a map[string]any or Ordered, compiled to an AND of equalities
//   - a []any whose first element names the operator
//
// All failures are InvalidArgumentError values naming the operator.
func Parse(definition any) (Condition, error) {
	switch d := definition.(type) {
	case nil:
		return types.All{}, nil
	case Condition:
		return d, nil
	case Expression:
		return types.Raw{Expression: d}, nil
	case *Expression:
		if d == nil {
			return types.All{}, nil
		}
		return types.Raw{Expression: *d}, nil
	case string:
		if strings.TrimSpace(d) == "" {
			return types.All{}, nil
		}
		return types.Raw{Expression: Expression{SQL: d}}, nil
	case map[string]any:
		return TryHashMap(d)
	case Ordered:
		return types.NewHash(d...)
	case []any:
		return parseList(d)
	}
	if list, ok := types.AsList(definition); ok {
		return parseList(list)
	}
	return nil, invalid("", "unsupported definition type %T", definition)
}

func parseList(def []any) (Condition, error) {
	if len(def) == 0 {
		return types.All{}, nil
	}
	name, ok := def[0].(string)
	if !ok {
		return nil, invalid("", "operator must be a string, got %T", def[0])
	}
	op := types.ParseOperator(name)
	operands := def[1:]

	switch {
	case op == types.AND || op == types.OR:
		return parseConjunction(types.LogicOperator(op), operands)
	case op == types.NOT:
		return parseNot(operands)
	case op == types.BETWEEN || op == types.NotBetween:
		return parseBetween(op, operands)
	case op == types.IN || op == types.NotIn:
		if len(operands) != 2 {
			return nil, invalid(op, "requires a column and values, got %d operands", len(operands))
		}
		return types.NewIn(op, operands[0], operands[1])
	case op == types.LIKE || op == types.NotLike || op == types.OrLike || op == types.OrNotLike:
		return parseLike(op, operands)
	case op == types.EXISTS || op == types.NotExists:
		if len(operands) != 1 {
			return nil, invalid(op, "requires exactly one subquery, got %d operands", len(operands))
		}
		return types.NewExists(op, operands[0])
	case op == types.Overlaps:
		if len(operands) != 2 {
			return nil, invalid(op, "requires a column and values, got %d operands", len(operands))
		}
		return types.NewOverlap(operands[0], operands[1])
	case op.IsComparison():
		if len(operands) != 2 {
			return nil, invalid(op, "requires a column and a value, got %d operands", len(operands))
		}
		return types.NewCompare(op, operands[0], operands[1])
	}
	return nil, invalid(op, "unknown operator")
}

func parseConjunction(logic types.LogicOperator, operands []any) (Condition, error) {
	children := make([]Condition, 0, len(operands))
	for i, operand := range operands {
		child, err := Parse(operand)
		if err != nil {
			return nil, fmt.Errorf("%s operand %d: %w", logic, i, err)
		}
		children = append(children, child)
	}
	return types.NewConjunction(logic, children...)
}

func parseNot(operands []any) (Condition, error) {
	if len(operands) != 1 || operands[0] == nil {
		return nil, invalid(types.NOT, "requires exactly one inner condition")
	}
	inner, err := Parse(operands[0])
	if err != nil {
		return nil, fmt.Errorf("NOT operand: %w", err)
	}
	return types.NewNot(inner)
}

// parseBetween builds a between-columns range when both bounds are Column values.
func parseBetween(op Operator, operands []any) (Condition, error) {
	if len(operands) != 3 {
		return nil, invalid(op, "requires exactly three operands, got %d", len(operands))
	}
	_, startCol := operands[1].(Column)
	_, endCol := operands[2].(Column)
	if startCol && endCol {
		return types.NewBetweenColumns(op, operands[0], operands[1], operands[2])
	}
	return types.NewBetween(op, operands[0], operands[1], operands[2])
}

func parseLike(op Operator, operands []any) (Condition, error) {
	if len(operands) < 2 || len(operands) > 3 {
		return nil, invalid(op, "requires a column, a pattern and optional options, got %d operands", len(operands))
	}
	var opts types.LikeOptions
	if len(operands) == 3 && operands[2] != nil {
		m, ok := operands[2].(map[string]any)
		if !ok {
			return nil, invalid(op, "options must be a map, got %T", operands[2])
		}
		var err error
		if opts, err = likeOptionsFromMap(op, m); err != nil {
			return nil, err
		}
	}
	return types.NewLike(op, operands[0], operands[1], opts)
}

func likeOptionsFromMap(op Operator, m map[string]any) (types.LikeOptions, error) {
	var opts types.LikeOptions
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m[k]
		switch k {
		case "escape":
			b, ok := v.(bool)
			if !ok {
				return opts, invalid(op, "option escape must be a bool, got %T", v)
			}
			opts.Escape = &b
		case "caseSensitive":
			if v == nil {
				continue
			}
			b, ok := v.(bool)
			if !ok {
				return opts, invalid(op, "option caseSensitive must be a bool, got %T", v)
			}
			opts.CaseSensitive = &b
		case "mode":
			s, ok := v.(string)
			if !ok {
				return opts, invalid(op, "option mode must be a string, got %T", v)
			}
			opts.Mode = types.LikeMode(s)
		default:
			return opts, invalid(op, "unknown option %q", k)
		}
	}
	return opts, nil
}
