package predicate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/placeholder"
)

// ColumnLookup resolves column names to descriptors for type-aware binding.
type ColumnLookup interface {
	Resolve(name string) (*column.Descriptor, bool)
}

// LookupFunc adapts a function to ColumnLookup.
type LookupFunc func(name string) (*column.Descriptor, bool)

// Resolve implements ColumnLookup.
func (f LookupFunc) Resolve(name string) (*column.Descriptor, bool) {
	return f(name)
}

// Descriptors is a ColumnLookup over a fixed set of descriptors keyed by name.
type Descriptors map[string]*column.Descriptor

// Resolve implements ColumnLookup.
func (d Descriptors) Resolve(name string) (*column.Descriptor, bool) {
	desc, ok := d[name]
	return desc, ok
}

// Result is a compiled condition.
type Result struct {
	Params *Params
	SQL    string

	quotes []placeholder.Quote
}

// Where returns " WHERE " followed by the condition, or "" when the
// condition matches every row.
func (r *Result) Where() string {
	if r.SQL == "" {
		return ""
	}
	return " WHERE " + r.SQL
}

// Positional rewrites named placeholders with marker(i), i counting from 1,
// and returns the arguments in placeholder order. A placeholder appearing
// twice is bound twice.
func (r *Result) Positional(marker func(i int) string) (string, []any, error) {
	var (
		args    []any
		missing string
	)
	sql := placeholder.Rewrite(r.SQL, func(name string) string {
		v, ok := r.Params.Get(name)
		if !ok && missing == "" {
			missing = name
		}
		args = append(args, v)
		return marker(len(args))
	}, r.quotes...)
	if missing != "" {
		return "", nil, fmt.Errorf("placeholder %q has no bound value", missing)
	}
	return sql, args, nil
}

// Named rewrites ":name" placeholders to prefix+name and checks that every
// placeholder is bound.
func (r *Result) Named(prefix string) (string, error) {
	var missing string
	sql := placeholder.Rewrite(r.SQL, func(name string) string {
		if !r.Params.Has(name) && missing == "" {
			missing = name
		}
		return prefix + name
	}, r.quotes...)
	if missing != "" {
		return "", fmt.Errorf("placeholder %q has no bound value", missing)
	}
	return sql, nil
}

// Compiler renders conditions to SQL for one dialect. It is safe for
// concurrent use.
type Compiler struct {
	dialect *Dialect
	lookup  ColumnLookup
	logger  *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLookup enables type-aware binding through lookup.
func WithLookup(lookup ColumnLookup) Option {
	return func(c *Compiler) {
		c.lookup = lookup
	}
}

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

var discard = slog.New(slog.DiscardHandler)

// NewCompiler creates a compiler for dialect. A nil dialect uses Generic().
func NewCompiler(dialect *Dialect, opts ...Option) *Compiler {
	if dialect == nil {
		dialect = Generic()
	}
	c := &Compiler{dialect: dialect, logger: discard}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the compiler's dialect.
func (c *Compiler) Dialect() *Dialect {
	return c.dialect
}

// Lookup returns the compiler's column lookup, or nil.
func (c *Compiler) Lookup() ColumnLookup {
	return c.lookup
}

// Compile renders cond to SQL and its parameters. A nil condition matches
// every row. On error no SQL is returned.
func (c *Compiler) Compile(cond Condition) (*Result, error) {
	ctx := newContext(c, 0)
	sql, err := ctx.Render(cond)
	if err != nil {
		c.logger.Debug("compile failed",
			slog.String("dialect", c.dialect.Name),
			slog.String("kind", kindOf(cond)),
			slog.Any("error", err))
		return nil, err
	}
	return &Result{SQL: sql, Params: ctx.params, quotes: c.dialect.identifierQuotes()}, nil
}

// CompileDefinition parses a shorthand definition and compiles it.
func (c *Compiler) CompileDefinition(definition any) (*Result, error) {
	cond, err := Parse(definition)
	if err != nil {
		return nil, err
	}
	return c.Compile(cond)
}

func kindOf(cond Condition) string {
	if cond == nil {
		return ""
	}
	return string(cond.Kind())
}

// Subquery builds a "SELECT columns FROM table WHERE where" subquery compiled
// with this compiler. Unqualified column names in where resolve against table
// first.
func (c *Compiler) Subquery(table string, columns []string, where Condition) *Select {
	return &Select{compiler: c, table: table, columns: columns, where: where}
}

// Select is a minimal subquery for EXISTS and IN conditions.
type Select struct {
	compiler *Compiler
	where    Condition
	table    string
	columns  []string
}

// CompileForEmbedding implements Subquery.
func (s *Select) CompileForEmbedding() (string, *Params, error) {
	return s.compile(1)
}

func (s *Select) compile(depth int) (string, *Params, error) {
	if depth > MaxSubqueryDepth {
		return "", nil, fmt.Errorf("maximum subquery depth (%d) exceeded", MaxSubqueryDepth)
	}
	if s.table == "" {
		return "", nil, fmt.Errorf("subquery table cannot be empty")
	}

	inner := *s.compiler
	if inner.lookup != nil {
		inner.lookup = tableLookup{base: s.compiler.lookup, table: s.table}
	}
	ctx := newContext(&inner, depth)
	where, err := ctx.Render(s.where)
	if err != nil {
		return "", nil, err
	}

	q := inner.dialect.quoter()
	cols := "1"
	if len(s.columns) > 0 {
		quoted := make([]string, len(s.columns))
		for i, name := range s.columns {
			quoted[i] = q.QuoteColumnName(name)
		}
		cols = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(cols)
	b.WriteString(" FROM ")
	b.WriteString(q.QuoteTableName(s.table))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), ctx.params, nil
}

// tableLookup resolves unqualified names against one table before falling
// back to the base lookup.
type tableLookup struct {
	base  ColumnLookup
	table string
}

func (l tableLookup) Resolve(name string) (*column.Descriptor, bool) {
	if !strings.Contains(name, ".") {
		if desc, ok := l.base.Resolve(l.table + "." + name); ok {
			return desc, true
		}
	}
	return l.base.Resolve(name)
}
