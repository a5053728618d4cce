// Package mssql provides the SQL Server dialect for predicate.
package mssql

import (
	"database/sql"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/quote"
)

// Name identifies the dialect in errors and logs.
const Name = "mssql"

// Quoter returns a quoter using bracketed identifiers.
func Quoter() *quote.Quoter {
	return quote.New(quote.Options{ColumnQuote: [2]string{"[", "]"}})
}

// Profile returns the column profile for SQL Server: bit booleans, JSON
// documents in nvarchar(max) and varchar binding for non-unicode columns.
func Profile() *column.Profile {
	return &column.Profile{
		Name:          Name,
		BoolTrue:      true,
		BoolFalse:     false,
		JSONType:      "nvarchar(max)",
		Quoter:        Quoter(),
		Bind:          bindValue,
		NativeTypes:   nativeTypes,
		DefaultNative: defaultNative,
		Categories:    column.DefaultCategories(),
	}
}

// bindValue sends strings for char/varchar/text columns as varchar so the
// server does not convert the column to nvarchar for comparison.
func bindValue(d *column.Descriptor, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch d.DBType() {
	case "char", "varchar", "text":
		return mssql.VarChar(s)
	}
	return v
}

// New creates the SQL Server dialect.
func New() *predicate.Dialect {
	return NewWithProfile(Profile())
}

// NewWithProfile creates the SQL Server dialect around a customized profile.
func NewWithProfile(profile *column.Profile) *predicate.Dialect {
	return &predicate.Dialect{
		Name:         Name,
		Quoter:       profile.Quoter,
		Profile:      profile,
		Like:         like,
		LikeEscapes:  likeEscapes,
		Capabilities: Capabilities(),
	}
}

// likeEscapes wraps wildcard characters in brackets.
var likeEscapes = []string{`[`, `[[]`, `%`, `[%]`, `_`, `[_]`}

// Capabilities returns the SQL Server feature set.
func Capabilities() render.Capabilities {
	return render.Capabilities{
		RowConstructors:     false,
		CaseInsensitiveLike: false,
		CaseSensitiveLike:   true,
		ArrayOperators:      false,
		JSONOverlaps:        false,
		NativeArrays:        false,
		NativeBoolean:       false,
	}
}

// like switches collation to force case handling; the default follows the
// column collation.
func like(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	op := " LIKE "
	if negated {
		op = " NOT LIKE "
	}
	switch {
	case caseSensitive == nil:
		return column + op + pattern, nil
	case *caseSensitive:
		return column + " COLLATE Latin1_General_CS_AS" + op + pattern, nil
	default:
		return column + " COLLATE Latin1_General_CI_AS" + op + pattern, nil
	}
}

// Bind rewrites compiled placeholders to "@name" and returns sql.Named arguments.
func Bind(result *predicate.Result) (string, []any, error) {
	query, err := result.Named("@")
	if err != nil {
		return "", nil, err
	}
	args := make([]any, 0, result.Params.Len())
	for _, p := range result.Params.List() {
		args = append(args, sql.Named(p.Name, p.Value))
	}
	return query, args, nil
}

var defaultNative = map[column.Type]string{
	column.Boolean:     "bit",
	column.Bit:         "bit",
	column.TinyInt:     "tinyint",
	column.SmallInt:    "smallint",
	column.Integer:     "int",
	column.BigInt:      "bigint",
	column.Float:       "real",
	column.Double:      "float",
	column.Decimal:     "decimal",
	column.Money:       "money",
	column.Char:        "nchar",
	column.String:      "nvarchar(255)",
	column.Text:        "nvarchar(max)",
	column.Binary:      "varbinary(max)",
	column.UUID:        "uniqueidentifier",
	column.Date:        "date",
	column.Time:        "time",
	column.TimeTZ:      "datetimeoffset",
	column.DateTime:    "datetime2",
	column.DateTimeTZ:  "datetimeoffset",
	column.Timestamp:   "datetime2",
	column.TimestampTZ: "datetimeoffset",
	column.JSON:        "nvarchar(max)",
	column.Array:       "nvarchar(max)",
	column.Enum:        "nvarchar(255)",
	column.Structured:  "nvarchar(max)",
}

var nativeTypes = map[string]column.Type{
	"bit":              column.Boolean,
	"tinyint":          column.TinyInt,
	"float":            column.Double,
	"real":             column.Float,
	"money":            column.Money,
	"smallmoney":       column.Money,
	"datetime":         column.DateTime,
	"datetime2":        column.DateTime,
	"smalldatetime":    column.DateTime,
	"datetimeoffset":   column.DateTimeTZ,
	"timestamp":        column.Binary,
	"rowversion":       column.Binary,
	"uniqueidentifier": column.UUID,
	"xml":              column.Text,
	"sql_variant":      column.String,
}
