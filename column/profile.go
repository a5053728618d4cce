package column

import (
	"log/slog"
	"time"

	"github.com/zoobzio/predicate/quote"
)

// BindFunc is a final hook applied to every non-nil value a descriptor casts
// for the database. Dialects use it to wrap values in driver-specific types.
type BindFunc func(d *Descriptor, v any) any

// Profile holds the dialect-specific settings a descriptor needs to marshal values.
// A Profile must not be modified after descriptors have been created from it.
type Profile struct {
	BoolTrue     any
	BoolFalse    any
	DatabaseZone *time.Location
	HostZone     *time.Location
	Logger       *slog.Logger
	Quoter       *quote.Quoter
	Bind         BindFunc

	// NativeTypes maps lowercase native type names to abstract types.
	// Names missing here fall back to the generic table.
	NativeTypes map[string]Type
	// DefaultNative maps abstract types to the native type used in DDL.
	DefaultNative map[Type]string
	Categories    Categories

	Name     string
	JSONType string

	// NativeArrays enables array and record literals; otherwise arrays and
	// structured values are bound as JSON documents.
	NativeArrays bool
	// NarrowBool treats tinyint(1) and bit(1) as boolean.
	NarrowBool bool
	// StrictTime rejects date/time strings that cannot be parsed instead of
	// passing them through.
	StrictTime bool
}

// Generic returns a profile with portable defaults: 1/0 booleans, UTC zones,
// ANSI quoting and JSON-encoded arrays.
func Generic() *Profile {
	return &Profile{
		Name:       "generic",
		BoolTrue:   int64(1),
		BoolFalse:  int64(0),
		JSONType:   "json",
		Categories: DefaultCategories(),
	}
}

// Clone returns a shallow copy that can be modified independently.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

func (p *Profile) databaseZone() *time.Location {
	if p.DatabaseZone != nil {
		return p.DatabaseZone
	}
	return time.UTC
}

func (p *Profile) hostZone() *time.Location {
	if p.HostZone != nil {
		return p.HostZone
	}
	return time.UTC
}

var discard = slog.New(slog.DiscardHandler)

func (p *Profile) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return discard
}

var defaultQuoter = quote.New(quote.Options{})

func (p *Profile) quoter() *quote.Quoter {
	if p.Quoter != nil {
		return p.Quoter
	}
	return defaultQuoter
}

func (p *Profile) categories() Categories {
	if p.Categories != nil {
		return p.Categories
	}
	return DefaultCategories()
}

// nativeType returns the DDL type name for an abstract type.
func (p *Profile) nativeType(t Type) string {
	if name, ok := p.DefaultNative[t]; ok {
		return name
	}
	if name, ok := genericNative[t]; ok {
		return name
	}
	return string(t)
}

// abstractType resolves a lowercase native type name.
func (p *Profile) abstractType(native string) (Type, bool) {
	if t, ok := p.NativeTypes[native]; ok {
		return t, true
	}
	t, ok := genericTypes[native]
	return t, ok
}

var genericNative = map[Type]string{
	Boolean:     "boolean",
	Bit:         "bit",
	TinyInt:     "tinyint",
	SmallInt:    "smallint",
	Integer:     "integer",
	BigInt:      "bigint",
	Float:       "real",
	Double:      "double precision",
	Decimal:     "decimal",
	Money:       "decimal(19,4)",
	Char:        "char",
	String:      "varchar",
	Text:        "text",
	Binary:      "blob",
	UUID:        "char(36)",
	Date:        "date",
	Time:        "time",
	TimeTZ:      "time with time zone",
	DateTime:    "timestamp",
	DateTimeTZ:  "timestamp with time zone",
	Timestamp:   "timestamp",
	TimestampTZ: "timestamp with time zone",
	JSON:        "json",
	Enum:        "varchar",
	Structured:  "json",
}

var genericTypes = map[string]Type{
	"bool":                        Boolean,
	"boolean":                     Boolean,
	"bit":                         Bit,
	"varbit":                      Bit,
	"bit varying":                 Bit,
	"tinyint":                     TinyInt,
	"smallint":                    SmallInt,
	"int2":                        SmallInt,
	"smallserial":                 SmallInt,
	"mediumint":                   Integer,
	"int":                         Integer,
	"integer":                     Integer,
	"int4":                        Integer,
	"serial":                      Integer,
	"bigint":                      BigInt,
	"int8":                        BigInt,
	"bigserial":                   BigInt,
	"float":                       Float,
	"float4":                      Float,
	"real":                        Float,
	"double":                      Double,
	"double precision":            Double,
	"float8":                      Double,
	"decimal":                     Decimal,
	"numeric":                     Decimal,
	"money":                       Money,
	"smallmoney":                  Money,
	"char":                        Char,
	"character":                   Char,
	"nchar":                       Char,
	"bpchar":                      Char,
	"varchar":                     String,
	"character varying":           String,
	"nvarchar":                    String,
	"string":                      String,
	"set":                         String,
	"text":                        Text,
	"tinytext":                    Text,
	"mediumtext":                  Text,
	"longtext":                    Text,
	"ntext":                       Text,
	"clob":                        Text,
	"binary":                      Binary,
	"varbinary":                   Binary,
	"blob":                        Binary,
	"tinyblob":                    Binary,
	"mediumblob":                  Binary,
	"longblob":                    Binary,
	"bytea":                       Binary,
	"image":                       Binary,
	"uuid":                        UUID,
	"uniqueidentifier":            UUID,
	"date":                        Date,
	"time":                        Time,
	"time without time zone":      Time,
	"timetz":                      TimeTZ,
	"time with time zone":         TimeTZ,
	"datetime":                    DateTime,
	"datetime2":                   DateTime,
	"smalldatetime":               DateTime,
	"datetimeoffset":              DateTimeTZ,
	"timestamp":                   Timestamp,
	"timestamp without time zone": Timestamp,
	"timestamptz":                 TimestampTZ,
	"timestamp with time zone":    TimestampTZ,
	"json":                        JSON,
	"jsonb":                       JSON,
	"enum":                        Enum,
}
