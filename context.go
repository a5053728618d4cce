package predicate

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/placeholder"
	"github.com/zoobzio/predicate/internal/types"
)

// Context carries the state of one compilation: the shared parameter map,
// the placeholder counter and the subquery depth. Renderers receive it and
// must not retain it.
type Context struct {
	compiler *Compiler
	params   *Params
	counter  int
	depth    int
}

func newContext(c *Compiler, depth int) *Context {
	return &Context{compiler: c, params: types.NewParams(), depth: depth}
}

// Dialect returns the dialect being compiled for.
func (ctx *Context) Dialect() *Dialect {
	return ctx.compiler.dialect
}

// Params returns the parameters bound so far.
func (ctx *Context) Params() *Params {
	return ctx.params
}

// Render renders a child condition with the dialect's renderer for its kind.
func (ctx *Context) Render(cond Condition) (string, error) {
	if cond == nil {
		return "", nil
	}
	fn := ctx.Dialect().Renderer(cond.Kind())
	if fn == nil {
		return "", ctx.Dialect().Unsupported(fmt.Sprintf("condition kind %q", cond.Kind()))
	}
	return fn(ctx, cond)
}

// Descriptor resolves the column descriptor for an operand.
// Expression operands never resolve.
func (ctx *Context) Descriptor(col Column) (*column.Descriptor, bool) {
	if col.IsExpr() || ctx.compiler.lookup == nil {
		return nil, false
	}
	return ctx.compiler.lookup.Resolve(col.Name)
}

// QuoteColumn renders a column operand: names are quoted, expressions are
// emitted verbatim with their parameters merged.
func (ctx *Context) QuoteColumn(col Column) string {
	if col.IsExpr() {
		return ctx.Merge(col.Expr.SQL, col.Expr.Params)
	}
	return ctx.Dialect().quoter().QuoteColumnName(col.Name)
}

// BindColumn binds v as a value compared against col, casting it through the
// column's descriptor when one resolves.
func (ctx *Context) BindColumn(col Column, v any) (string, error) {
	desc, _ := ctx.Descriptor(col)
	return ctx.Bind(v, desc)
}

// Bind registers v as a parameter and returns its placeholder. Expressions
// are inlined and subqueries embedded in parentheses. When desc is non-nil
// the value is cast with desc.ToDatabase; otherwise generic inference applies.
func (ctx *Context) Bind(v any, desc *column.Descriptor) (string, error) {
	switch x := v.(type) {
	case Expression:
		return ctx.Merge(x.SQL, x.Params), nil
	case *Expression:
		if x != nil {
			return ctx.Merge(x.SQL, x.Params), nil
		}
	case Subquery:
		if desc == nil || desc.Type() != column.JSON {
			return ctx.Subquery(x)
		}
	}

	var value any
	if desc != nil {
		cast, err := desc.ToDatabase(v)
		if err != nil {
			return "", err
		}
		value = cast
	} else {
		value = inferValue(v)
	}
	name := ctx.fresh(nil)
	ctx.params.Add(name, value)
	return ":" + name, nil
}

// Subquery compiles sub and returns its SQL in parentheses, merging its
// parameters into this compilation.
func (ctx *Context) Subquery(sub Subquery) (string, error) {
	var (
		sql    string
		params *Params
		err    error
	)
	if s, ok := sub.(*Select); ok {
		sql, params, err = s.compile(ctx.depth + 1)
	} else {
		sql, params, err = sub.CompileForEmbedding()
	}
	if err != nil {
		return "", fmt.Errorf("subquery: %w", err)
	}
	return "(" + ctx.Merge(sql, params) + ")", nil
}

// Merge adds params to the compilation and returns sql with placeholders
// renamed where a name is already bound to a different value. Identical
// bindings are shared.
func (ctx *Context) Merge(sql string, params *Params) string {
	if params.Len() == 0 {
		return sql
	}
	renames := map[string]string{}
	for _, p := range params.List() {
		if existing, ok := ctx.params.Get(p.Name); ok {
			if reflect.DeepEqual(existing, p.Value) {
				continue
			}
			name := ctx.fresh(params)
			renames[p.Name] = name
			ctx.params.Add(name, p.Value)
			continue
		}
		ctx.params.Add(p.Name, p.Value)
	}
	if len(renames) == 0 {
		return sql
	}
	return placeholder.Rewrite(sql, func(name string) string {
		if to, ok := renames[name]; ok {
			return ":" + to
		}
		return ":" + name
	}, ctx.Dialect().identifierQuotes()...)
}

// fresh returns the next generated name not bound in this compilation or in reserved.
func (ctx *Context) fresh(reserved *Params) string {
	for {
		name := "qp" + strconv.Itoa(ctx.counter)
		ctx.counter++
		if !ctx.params.Has(name) && !reserved.Has(name) {
			return name
		}
	}
}

// isNull reports whether v is nil or a nil pointer.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// inferValue reduces a host value to a driver scalar when no column type is
// known: integers become int64, named types are reduced to their kind and
// pointers are dereferenced.
func inferValue(v any) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string, []byte, time.Time, driver.Valuer:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return unsignedValue(uint64(x))
	case uint64:
		return unsignedValue(x)
	case float32:
		return float64(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return inferValue(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsignedValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes()
		}
	}
	return v
}

// unsignedValue keeps values beyond int64 as exact decimal text.
func unsignedValue(u uint64) any {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10)
	}
	return int64(u)
}
