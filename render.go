package predicate

import (
	"strings"

	"github.com/zoobzio/predicate/internal/types"
)

// falseSQL is the constant-false fragment.
const falseSQL = "0=1"

// DefaultRenderer returns the built-in renderer for kind, or nil if none exists.
func DefaultRenderer(kind Kind) RenderFunc {
	switch kind {
	case types.KindCompare:
		return renderCompare
	case types.KindBetween:
		return renderBetween
	case types.KindBetweenColumns:
		return renderBetweenColumns
	case types.KindIn:
		return renderIn
	case types.KindLike:
		return renderLike
	case types.KindExists:
		return renderExists
	case types.KindConjunction:
		return renderConjunction
	case types.KindNot:
		return renderNot
	case types.KindHash:
		return renderHash
	case types.KindOverlap:
		return renderOverlap
	case types.KindAll:
		return renderAll
	case types.KindNone:
		return renderNone
	case types.KindRaw:
		return renderRaw
	}
	return nil
}

func renderCompare(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Compare)
	col := ctx.QuoteColumn(cond.Column)
	if isNull(cond.Value) {
		switch {
		case cond.Operator == types.EQ:
			return col + " IS NULL", nil
		case cond.Operator.Negates():
			return col + " IS NOT NULL", nil
		}
	}
	if _, ok := types.AsList(cond.Value); ok {
		// Lists bind as one value cast by the column, e.g. an array literal.
		desc, ok := ctx.Descriptor(cond.Column)
		if !ok || desc == nil {
			return "", ctx.Dialect().Unsupported("list value in comparison",
				"resolve the column to an array or JSON descriptor, or use In for membership")
		}
		value, err := ctx.Bind(cond.Value, desc)
		if err != nil {
			return "", err
		}
		return col + " " + string(cond.Operator) + " " + value, nil
	}
	value, err := ctx.BindColumn(cond.Column, cond.Value)
	if err != nil {
		return "", err
	}
	return col + " " + string(cond.Operator) + " " + value, nil
}

func renderBetween(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Between)
	col := ctx.QuoteColumn(cond.Column)
	start, err := ctx.BindColumn(cond.Column, cond.Start)
	if err != nil {
		return "", err
	}
	end, err := ctx.BindColumn(cond.Column, cond.End)
	if err != nil {
		return "", err
	}
	op := " BETWEEN "
	if cond.Negated {
		op = " NOT BETWEEN "
	}
	return col + op + start + " AND " + end, nil
}

func renderBetweenColumns(ctx *Context, c Condition) (string, error) {
	cond := c.(types.BetweenColumns)
	value, err := ctx.BindColumn(cond.Start, cond.Value)
	if err != nil {
		return "", err
	}
	op := " BETWEEN "
	if cond.Negated {
		op = " NOT BETWEEN "
	}
	return value + op + ctx.QuoteColumn(cond.Start) + " AND " + ctx.QuoteColumn(cond.End), nil
}

func renderIn(ctx *Context, c Condition) (string, error) {
	cond := c.(types.In)
	op := " IN "
	if cond.Negated {
		op = " NOT IN "
	}

	switch v := cond.Values.(type) {
	case types.Subquery:
		sub, err := ctx.Subquery(v)
		if err != nil {
			return "", err
		}
		return columnTuple(ctx, cond.Columns) + op + sub, nil
	case types.Expression:
		return columnTuple(ctx, cond.Columns) + op + "(" + ctx.Merge(v.SQL, v.Params) + ")", nil
	}

	values, _ := cond.Values.([]any)
	if len(values) == 0 {
		if cond.Negated {
			return "", nil
		}
		return falseSQL, nil
	}
	if cond.Composite() {
		return renderCompositeIn(ctx, cond, values)
	}

	target := cond.Columns[0]
	col := ctx.QuoteColumn(target)
	rest := make([]any, 0, len(values))
	hasNull := false
	for _, v := range values {
		if isNull(v) {
			hasNull = true
			continue
		}
		rest = append(rest, v)
	}

	var sql string
	switch len(rest) {
	case 0:
		if cond.Negated {
			return col + " IS NOT NULL", nil
		}
		return col + " IS NULL", nil
	case 1:
		value, err := ctx.BindColumn(target, rest[0])
		if err != nil {
			return "", err
		}
		if cond.Negated {
			sql = col + " != " + value
		} else {
			sql = col + " = " + value
		}
	default:
		placeholders := make([]string, len(rest))
		for i, v := range rest {
			p, err := ctx.BindColumn(target, v)
			if err != nil {
				return "", err
			}
			placeholders[i] = p
		}
		sql = col + op + "(" + strings.Join(placeholders, ", ") + ")"
	}

	if !hasNull {
		return sql, nil
	}
	if cond.Negated {
		return "(" + sql + " AND " + col + " IS NOT NULL)", nil
	}
	return "(" + sql + " OR " + col + " IS NULL)", nil
}

func renderCompositeIn(ctx *Context, cond types.In, rows []any) (string, error) {
	if len(rows) == 1 {
		row, _ := rows[0].([]any)
		parts := make([]string, len(cond.Columns))
		for i, target := range cond.Columns {
			col := ctx.QuoteColumn(target)
			if isNull(row[i]) {
				parts[i] = col + " IS NULL"
				continue
			}
			value, err := ctx.BindColumn(target, row[i])
			if err != nil {
				return "", err
			}
			parts[i] = col + " = " + value
		}
		sql := strings.Join(parts, " AND ")
		if cond.Negated {
			return "NOT (" + sql + ")", nil
		}
		return sql, nil
	}

	d := ctx.Dialect()
	if !d.Capabilities.RowConstructors {
		return "", d.Unsupported("composite IN with multiple rows", "combine per-row equalities with Or")
	}

	tuples := make([]string, len(rows))
	for r, item := range rows {
		row, _ := item.([]any)
		placeholders := make([]string, len(cond.Columns))
		for i, target := range cond.Columns {
			p, err := ctx.BindColumn(target, row[i])
			if err != nil {
				return "", err
			}
			placeholders[i] = p
		}
		tuples[r] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	op := " IN "
	if cond.Negated {
		op = " NOT IN "
	}
	return columnTuple(ctx, cond.Columns) + op + "(" + strings.Join(tuples, ", ") + ")", nil
}

func columnTuple(ctx *Context, cols []Column) string {
	if len(cols) == 1 {
		return ctx.QuoteColumn(cols[0])
	}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = ctx.QuoteColumn(col)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func renderLike(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Like)
	if len(cond.Patterns) == 0 {
		if cond.Negated {
			return "", nil
		}
		return falseSQL, nil
	}

	d := ctx.Dialect()
	col := ctx.QuoteColumn(cond.Column)
	parts := make([]string, 0, len(cond.Patterns))
	for _, pattern := range cond.Patterns {
		var (
			value   string
			escaped bool
		)
		switch p := pattern.(type) {
		case types.Expression:
			value = ctx.Merge(p.SQL, p.Params)
		case string:
			if cond.Escape {
				p = d.escapeLike(p)
				escaped = true
			}
			bound, err := ctx.Bind(wildcard(p, cond.Mode), nil)
			if err != nil {
				return "", err
			}
			value = bound
		}
		sql, err := d.like(col, value, cond.CaseSensitive, cond.Negated)
		if err != nil {
			return "", err
		}
		if escaped {
			sql += d.LikeEscapeClause
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, " "+string(cond.Conjunction)+" "), nil
}

func wildcard(pattern string, mode types.LikeMode) string {
	switch mode {
	case types.LikeStartsWith:
		return pattern + "%"
	case types.LikeEndsWith:
		return "%" + pattern
	case types.LikeCustom:
		return pattern
	default:
		return "%" + pattern + "%"
	}
}

func renderExists(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Exists)
	sub, err := ctx.Subquery(cond.Subquery)
	if err != nil {
		return "", err
	}
	if cond.Negated {
		return "NOT EXISTS " + sub, nil
	}
	return "EXISTS " + sub, nil
}

func renderConjunction(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Conjunction)
	parts := make([]string, 0, len(cond.Children))
	tautology := false
	for _, child := range cond.Children {
		sql, err := ctx.Render(child)
		if err != nil {
			return "", err
		}
		if sql == "" {
			// An always-true child absorbs an OR and is neutral in an AND.
			tautology = tautology || cond.Logic == types.OrLogic
			continue
		}
		parts = append(parts, sql)
	}
	if tautology {
		return "", nil
	}
	return joinParts(parts, string(cond.Logic)), nil
}

// joinParts emits a single fragment bare and parenthesizes each of several.
func joinParts(parts []string, logic string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, ") "+logic+" (") + ")"
}

func renderNot(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Not)
	sql, err := ctx.Render(cond.Inner)
	if err != nil {
		return "", err
	}
	switch sql {
	case "":
		return falseSQL, nil
	case falseSQL:
		return "", nil
	}
	return "NOT (" + sql + ")", nil
}

func renderHash(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Hash)
	parts := make([]string, 0, len(cond.Entries))
	for _, entry := range cond.Entries {
		sql, err := renderHashEntry(ctx, entry)
		if err != nil {
			return "", err
		}
		if sql != "" {
			parts = append(parts, sql)
		}
	}
	return joinParts(parts, string(types.AndLogic)), nil
}

func renderHashEntry(ctx *Context, entry types.HashEntry) (string, error) {
	target := types.Column{Name: entry.Column}
	if _, ok := entry.Value.(types.Subquery); ok {
		return renderIn(ctx, types.In{Columns: []types.Column{target}, Values: entry.Value})
	}
	if list, ok := types.AsList(entry.Value); ok {
		return renderIn(ctx, types.In{Columns: []types.Column{target}, Values: list})
	}
	col := ctx.QuoteColumn(target)
	if isNull(entry.Value) {
		return col + " IS NULL", nil
	}
	value, err := ctx.BindColumn(target, entry.Value)
	if err != nil {
		return "", err
	}
	return col + "=" + value, nil
}

func renderOverlap(ctx *Context, _ Condition) (string, error) {
	return "", ctx.Dialect().Unsupported("overlap", "the dialect has no array or JSON overlap operator")
}

func renderAll(*Context, Condition) (string, error) {
	return "", nil
}

func renderNone(*Context, Condition) (string, error) {
	return falseSQL, nil
}

func renderRaw(ctx *Context, c Condition) (string, error) {
	cond := c.(types.Raw)
	return ctx.Merge(cond.Expression.SQL, cond.Expression.Params), nil
}
