package render

// Capabilities describes the condition features supported by a dialect.
type Capabilities struct {
	RowConstructors     bool // (a, b) IN ((:p0, :p1), ...)
	CaseInsensitiveLike bool // ILIKE operator
	CaseSensitiveLike   bool // LIKE can be forced to compare case-sensitively
	ArrayOperators      bool // &&, @>, <@
	JSONOverlaps        bool // JSON_OVERLAPS()
	NativeArrays        bool // array column types and literals
	NativeBoolean       bool // TRUE/FALSE values
}
