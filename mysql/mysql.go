// Package mysql provides the MySQL and MariaDB dialect for predicate.
package mysql

import (
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/internal/types"
	"github.com/zoobzio/predicate/quote"
)

// Name identifies the dialect in errors and logs.
const Name = "mysql"

// valueEscapes escapes backslashes and control characters in literals,
// which MySQL interprets inside quoted strings.
var valueEscapes = []string{
	`\`, `\\`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
}

// Quoter returns a quoter using backtick identifiers.
func Quoter() *quote.Quoter {
	return quote.New(quote.Options{
		ColumnQuote:  [2]string{"`", "`"},
		ValueEscapes: valueEscapes,
	})
}

// Profile returns the column profile for MySQL: 1/0 booleans, tinyint(1)
// booleans and JSON-encoded arrays.
func Profile() *column.Profile {
	return &column.Profile{
		Name:          Name,
		BoolTrue:      int64(1),
		BoolFalse:     int64(0),
		JSONType:      "json",
		NarrowBool:    true,
		Quoter:        Quoter(),
		NativeTypes:   nativeTypes,
		DefaultNative: defaultNative,
		Categories:    column.DefaultCategories(),
	}
}

// ProfileFromDSN returns Profile with the database zone taken from the
// DSN's loc parameter.
func ProfileFromDSN(dsn string) (*column.Profile, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	p := Profile()
	p.DatabaseZone = cfg.Loc
	return p, nil
}

// New creates the MySQL dialect.
func New() *predicate.Dialect {
	return NewWithProfile(Profile())
}

// NewWithProfile creates the MySQL dialect around a customized profile.
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

// Capabilities returns the MySQL feature set.
func Capabilities() render.Capabilities {
	return render.Capabilities{
		RowConstructors:     true,
		CaseInsensitiveLike: false,
		CaseSensitiveLike:   true,
		ArrayOperators:      false,
		JSONOverlaps:        true,
		NativeArrays:        false,
		NativeBoolean:       false,
	}
}

// like relies on the column collation by default. LIKE BINARY forces a
// case-sensitive match and LOWER() a case-insensitive one.
func like(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	op := " LIKE "
	if negated {
		op = " NOT LIKE "
	}
	switch {
	case caseSensitive == nil:
		return column + op + pattern, nil
	case *caseSensitive:
		return column + op + "BINARY " + pattern, nil
	default:
		return "LOWER(" + column + ")" + op + "LOWER(" + pattern + ")", nil
	}
}

// renderOverlap renders JSON_OVERLAPS(column, values) with values bound as a JSON array.
func renderOverlap(ctx *predicate.Context, c predicate.Condition) (string, error) {
	cond := c.(types.Overlap)
	col := ctx.QuoteColumn(cond.Column)
	if expr, ok := cond.Values.(types.Expression); ok {
		return "JSON_OVERLAPS(" + col + ", " + ctx.Merge(expr.SQL, expr.Params) + ")", nil
	}
	values, _ := cond.Values.([]any)

	var doc any
	if desc, ok := ctx.Descriptor(cond.Column); ok && desc.Type() == column.Array {
		v, err := desc.ToDatabase(values)
		if err != nil {
			return "", err
		}
		doc = v
	} else {
		data, err := json.Marshal(values)
		if err != nil {
			return "", fmt.Errorf("overlap values: %w", err)
		}
		doc = string(data)
	}
	p, err := ctx.Bind(doc, nil)
	if err != nil {
		return "", err
	}
	return "JSON_OVERLAPS(" + col + ", " + p + ")", nil
}

// Bind rewrites compiled placeholders to "?" markers and returns the
// arguments in marker order.
func Bind(result *predicate.Result) (string, []any, error) {
	return result.Positional(func(int) string { return "?" })
}

var defaultNative = map[column.Type]string{
	column.Boolean:     "tinyint(1)",
	column.Bit:         "bit",
	column.TinyInt:     "tinyint",
	column.SmallInt:    "smallint",
	column.Integer:     "int",
	column.BigInt:      "bigint",
	column.Float:       "float",
	column.Double:      "double",
	column.Decimal:     "decimal",
	column.Money:       "decimal(19,4)",
	column.Char:        "char",
	column.String:      "varchar(255)",
	column.Text:        "text",
	column.Binary:      "blob",
	column.UUID:        "char(36)",
	column.Date:        "date",
	column.Time:        "time",
	column.TimeTZ:      "time",
	column.DateTime:    "datetime",
	column.DateTimeTZ:  "datetime",
	column.Timestamp:   "timestamp",
	column.TimestampTZ: "timestamp",
	column.JSON:        "json",
	column.Array:       "json",
	column.Enum:        "enum",
	column.Structured:  "json",
}

var nativeTypes = map[string]column.Type{
	"tinyint":    column.TinyInt,
	"smallint":   column.SmallInt,
	"mediumint":  column.Integer,
	"int":        column.Integer,
	"integer":    column.Integer,
	"bigint":     column.BigInt,
	"float":      column.Float,
	"double":     column.Double,
	"real":       column.Double,
	"decimal":    column.Decimal,
	"dec":        column.Decimal,
	"numeric":    column.Decimal,
	"year":       column.SmallInt,
	"datetime":   column.DateTime,
	"timestamp":  column.Timestamp,
	"tinytext":   column.Text,
	"mediumtext": column.Text,
	"longtext":   column.Text,
	"json":       column.JSON,
	"enum":       column.Enum,
	"set":        column.String,
	"geometry":   column.Binary,
}
