// Package postgres provides the PostgreSQL dialect for predicate.
package postgres

import (
	"github.com/jackc/pgx/v5"
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/internal/types"
	"github.com/zoobzio/predicate/quote"
)

// Name identifies the dialect in errors and logs.
const Name = "postgres"

// Quoter returns a quoter using double-quoted identifiers.
func Quoter() *quote.Quoter {
	return quote.New(quote.Options{ColumnQuote: [2]string{`"`, `"`}})
}

// Profile returns the column profile for PostgreSQL: native booleans,
// native arrays and jsonb documents.
func Profile() *column.Profile {
	return &column.Profile{
		Name:          Name,
		BoolTrue:      true,
		BoolFalse:     false,
		JSONType:      "jsonb",
		NativeArrays:  true,
		Quoter:        Quoter(),
		NativeTypes:   nativeTypes,
		DefaultNative: defaultNative,
		Categories:    column.DefaultCategories(),
	}
}

// New creates the PostgreSQL dialect.
func New() *predicate.Dialect {
	return NewWithProfile(Profile())
}

// NewWithProfile creates the PostgreSQL dialect around a customized profile.
func NewWithProfile(profile *column.Profile) *predicate.Dialect {
	return &predicate.Dialect{
		Name:        Name,
		Quoter:      profile.Quoter,
		Profile:     profile,
		Like:        like,
		LikeEscapes: predicate.BackslashEscapes,
		Overrides: map[predicate.Kind]predicate.RenderFunc{
			predicate.KindOverlap: renderOverlap,
		},
		Capabilities: Capabilities(),
	}
}

// Capabilities returns the PostgreSQL feature set.
func Capabilities() render.Capabilities {
	return render.Capabilities{
		RowConstructors:     true,
		CaseInsensitiveLike: true,
		CaseSensitiveLike:   true,
		ArrayOperators:      true,
		JSONOverlaps:        false,
		NativeArrays:        true,
		NativeBoolean:       true,
	}
}

// like uses ILIKE for case-insensitive matches; LIKE is case-sensitive.
func like(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	op := "LIKE"
	if caseSensitive != nil && !*caseSensitive {
		op = "ILIKE"
	}
	if negated {
		op = "NOT " + op
	}
	return column + " " + op + " " + pattern, nil
}

// renderOverlap renders "column && values" with values bound as an array literal.
func renderOverlap(ctx *predicate.Context, c predicate.Condition) (string, error) {
	cond := c.(types.Overlap)
	col := ctx.QuoteColumn(cond.Column)
	if expr, ok := cond.Values.(types.Expression); ok {
		return col + " && " + ctx.Merge(expr.SQL, expr.Params), nil
	}
	values, _ := cond.Values.([]any)

	var literal any
	if desc, ok := ctx.Descriptor(cond.Column); ok && desc.Type() == column.Array {
		v, err := desc.ToDatabase(values)
		if err != nil {
			return "", err
		}
		literal = v
	} else {
		text, err := column.FormatArray(values)
		if err != nil {
			return "", err
		}
		literal = text
	}
	p, err := ctx.Bind(literal, nil)
	if err != nil {
		return "", err
	}
	return col + " && " + p, nil
}

// Bind rewrites compiled placeholders to pgx named arguments ("@name").
func Bind(result *predicate.Result) (string, pgx.NamedArgs, error) {
	sql, err := result.Named("@")
	if err != nil {
		return "", nil, err
	}
	args := make(pgx.NamedArgs, result.Params.Len())
	for _, p := range result.Params.List() {
		args[p.Name] = p.Value
	}
	return sql, args, nil
}

var defaultNative = map[column.Type]string{
	column.Boolean:     "boolean",
	column.Bit:         "bit",
	column.TinyInt:     "smallint",
	column.SmallInt:    "smallint",
	column.Integer:     "integer",
	column.BigInt:      "bigint",
	column.Float:       "real",
	column.Double:      "double precision",
	column.Decimal:     "numeric",
	column.Money:       "numeric(19,4)",
	column.Char:        "char",
	column.String:      "varchar",
	column.Text:        "text",
	column.Binary:      "bytea",
	column.UUID:        "uuid",
	column.Date:        "date",
	column.Time:        "time",
	column.TimeTZ:      "time with time zone",
	column.DateTime:    "timestamp",
	column.DateTimeTZ:  "timestamp with time zone",
	column.Timestamp:   "timestamp",
	column.TimestampTZ: "timestamp with time zone",
	column.JSON:        "jsonb",
	column.Enum:        "varchar",
	column.Structured:  "jsonb",
}

var nativeTypes = map[string]column.Type{
	"bool":     column.Boolean,
	"int2":     column.SmallInt,
	"int4":     column.Integer,
	"int8":     column.BigInt,
	"float4":   column.Float,
	"float8":   column.Double,
	"money":    column.Money,
	"name":     column.String,
	"citext":   column.Text,
	"xml":      column.Text,
	"inet":     column.String,
	"cidr":     column.String,
	"macaddr":  column.String,
	"interval": column.String,
	"tsvector": column.Text,
	"bytea":    column.Binary,
	"json":     column.JSON,
	"jsonb":    column.JSON,
	"oid":      column.BigInt,
}
