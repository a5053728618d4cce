// Package column describes typed table columns and marshals values between
// host representations and the form bound to, or returned by, a database.
package column

// Type is an abstract column type tag, independent of any dialect.
type Type string

// Abstract column types.
const (
	Boolean     Type = "boolean"
	Bit         Type = "bit"
	TinyInt     Type = "tinyint"
	SmallInt    Type = "smallint"
	Integer     Type = "integer"
	BigInt      Type = "bigint"
	Float       Type = "float"
	Double      Type = "double"
	Decimal     Type = "decimal"
	Money       Type = "money"
	Char        Type = "char"
	String      Type = "string"
	Text        Type = "text"
	Binary      Type = "binary"
	UUID        Type = "uuid"
	Date        Type = "date"
	Time        Type = "time"
	TimeTZ      Type = "timetz"
	DateTime    Type = "datetime"
	DateTimeTZ  Type = "datetimetz"
	Timestamp   Type = "timestamp"
	TimestampTZ Type = "timestamptz"
	JSON        Type = "json"
	Array       Type = "array"
	Structured  Type = "structured"
	Enum        Type = "enum"
)

// IsInteger reports whether t is one of the integer types.
func (t Type) IsInteger() bool {
	switch t {
	case TinyInt, SmallInt, Integer, BigInt:
		return true
	}
	return false
}

// IsTemporal reports whether t is a date or time type.
func (t Type) IsTemporal() bool {
	switch t {
	case Date, Time, TimeTZ, DateTime, DateTimeTZ, Timestamp, TimestampTZ:
		return true
	}
	return false
}

// HasZone reports whether values of t carry a zone offset.
func (t Type) HasZone() bool {
	switch t {
	case TimeTZ, DateTimeTZ, TimestampTZ:
		return true
	}
	return false
}

// KeepsEmptyString reports whether an empty string is a meaningful value of t
// rather than an absent one.
func (t Type) KeepsEmptyString() bool {
	switch t {
	case Char, String, Text, Binary:
		return true
	}
	return false
}

// Category groups abstract types by how their literals are written.
type Category int

const (
	CategoryString Category = iota
	CategoryNumeric
	CategoryBoolean
	CategoryTemporal
	CategoryBinary
	CategoryJSON
	CategoryComposite
)

// Categories maps abstract types to literal categories. Types missing from
// the table are treated as CategoryString.
type Categories map[Type]Category

// DefaultCategories returns a fresh copy of the standard category table.
func DefaultCategories() Categories {
	return Categories{
		Boolean:     CategoryBoolean,
		Bit:         CategoryNumeric,
		TinyInt:     CategoryNumeric,
		SmallInt:    CategoryNumeric,
		Integer:     CategoryNumeric,
		BigInt:      CategoryNumeric,
		Float:       CategoryNumeric,
		Double:      CategoryNumeric,
		Decimal:     CategoryNumeric,
		Money:       CategoryNumeric,
		Char:        CategoryString,
		String:      CategoryString,
		Text:        CategoryString,
		Enum:        CategoryString,
		UUID:        CategoryString,
		Binary:      CategoryBinary,
		Date:        CategoryTemporal,
		Time:        CategoryTemporal,
		TimeTZ:      CategoryTemporal,
		DateTime:    CategoryTemporal,
		DateTimeTZ:  CategoryTemporal,
		Timestamp:   CategoryTemporal,
		TimestampTZ: CategoryTemporal,
		JSON:        CategoryJSON,
		Array:       CategoryComposite,
		Structured:  CategoryComposite,
	}
}

// Of returns the category of t.
func (c Categories) Of(t Type) Category {
	if cat, ok := c[t]; ok {
		return cat
	}
	return CategoryString
}
