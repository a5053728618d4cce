// Package sqlite provides the SQLite dialect for predicate.
package sqlite

import (
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/quote"
)

// Name identifies the dialect in errors and logs.
const Name = "sqlite"

// Quoter returns a quoter using double-quoted identifiers.
func Quoter() *quote.Quoter {
	return quote.New(quote.Options{ColumnQuote: [2]string{`"`, `"`}})
}

// Profile returns the column profile for SQLite: 1/0 booleans, type
// affinity names and JSON-encoded arrays.
func Profile() *column.Profile {
	return &column.Profile{
		Name:          Name,
		BoolTrue:      int64(1),
		BoolFalse:     int64(0),
		JSONType:      "json",
		Quoter:        Quoter(),
		NativeTypes:   nativeTypes,
		DefaultNative: defaultNative,
		Categories:    column.DefaultCategories(),
	}
}

// New creates the SQLite dialect.
func New() *predicate.Dialect {
	return NewWithProfile(Profile())
}

// NewWithProfile creates the SQLite dialect around a customized profile.
func NewWithProfile(profile *column.Profile) *predicate.Dialect {
	return &predicate.Dialect{
		Name:             Name,
		Quoter:           profile.Quoter,
		Profile:          profile,
		Like:             like,
		LikeEscapes:      predicate.BackslashEscapes,
		LikeEscapeClause: ` ESCAPE '\'`,
		Capabilities:     Capabilities(),
	}
}

// Capabilities returns the SQLite feature set.
func Capabilities() render.Capabilities {
	return render.Capabilities{
		RowConstructors:     true,
		CaseInsensitiveLike: false,
		CaseSensitiveLike:   false,
		ArrayOperators:      false,
		JSONOverlaps:        false,
		NativeArrays:        false,
		NativeBoolean:       false,
	}
}

// like rejects case-sensitive matching: SQLite's LIKE ignores ASCII case
// unless the case_sensitive_like pragma is set for the connection.
func like(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	if caseSensitive != nil && *caseSensitive {
		return "", render.NewUnsupportedFeatureError(Name, "case-sensitive LIKE",
			"enable PRAGMA case_sensitive_like or use GLOB")
	}
	if negated {
		return column + " NOT LIKE " + pattern, nil
	}
	return column + " LIKE " + pattern, nil
}

// Bind rewrites compiled placeholders to "?" markers and returns the
// arguments in marker order.
func Bind(result *predicate.Result) (string, []any, error) {
	return result.Positional(func(int) string { return "?" })
}

var defaultNative = map[column.Type]string{
	column.Boolean:     "boolean",
	column.Bit:         "integer",
	column.TinyInt:     "integer",
	column.SmallInt:    "integer",
	column.Integer:     "integer",
	column.BigInt:      "integer",
	column.Float:       "real",
	column.Double:      "real",
	column.Decimal:     "numeric",
	column.Money:       "numeric",
	column.Char:        "text",
	column.String:      "text",
	column.Text:        "text",
	column.Binary:      "blob",
	column.UUID:        "text",
	column.Date:        "date",
	column.Time:        "time",
	column.TimeTZ:      "text",
	column.DateTime:    "datetime",
	column.DateTimeTZ:  "text",
	column.Timestamp:   "timestamp",
	column.TimestampTZ: "text",
	column.JSON:        "json",
	column.Array:       "json",
	column.Enum:        "text",
	column.Structured:  "json",
}

var nativeTypes = map[string]column.Type{
	"integer":  column.BigInt,
	"int":      column.BigInt,
	"real":     column.Double,
	"numeric":  column.Decimal,
	"text":     column.Text,
	"blob":     column.Binary,
	"datetime": column.DateTime,
	"json":     column.JSON,
}
