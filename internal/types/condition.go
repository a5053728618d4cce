package types

// Kind tags a condition variant. Renderers are registered per Kind.
type Kind string

const (
	KindCompare        Kind = "compare"
	KindBetween        Kind = "between"
	KindBetweenColumns Kind = "between_columns"
	KindIn             Kind = "in"
	KindLike           Kind = "like"
	KindExists         Kind = "exists"
	KindConjunction    Kind = "conjunction"
	KindNot            Kind = "not"
	KindHash           Kind = "hash"
	KindOverlap        Kind = "overlap"
	KindAll            Kind = "all"
	KindNone           Kind = "none"
	KindRaw            Kind = "raw"
)

// Condition is a predicate node of a filter tree.
// The variant set is closed: only types in this package implement it.
type Condition interface {
	Kind() Kind
	isCondition()
}

// LogicOperator represents how conditions are combined.
type LogicOperator string

const (
	AndLogic LogicOperator = "AND"
	OrLogic  LogicOperator = "OR"
)

// LikeMode controls where wildcards are placed around a LIKE pattern.
type LikeMode string

const (
	LikeContains   LikeMode = "contains"
	LikeStartsWith LikeMode = "startsWith"
	LikeEndsWith   LikeMode = "endsWith"
	LikeCustom     LikeMode = "custom" // pattern used as given, no wildcards added
)

// Compare is a binary comparison: column op value.
type Compare struct {
	Value    any
	Column   Column
	Operator Operator
}

// Between tests column [NOT] BETWEEN start AND end.
type Between struct {
	Start   any
	End     any
	Column  Column
	Negated bool
}

// BetweenColumns tests value [NOT] BETWEEN startColumn AND endColumn.
type BetweenColumns struct {
	Value   any
	Start   Column
	End     Column
	Negated bool
}

// In tests column(s) [NOT] IN values.
// Values holds []any (rows of []any for composite columns), a Subquery, or an Expression.
type In struct {
	Values  any
	Columns []Column
	Negated bool
}

// Composite reports whether the condition compares a column tuple.
func (c In) Composite() bool {
	return len(c.Columns) > 1
}

// Like matches a column against one or more patterns.
type Like struct {
	CaseSensitive *bool // nil means the dialect default
	Column        Column
	Mode          LikeMode
	Conjunction   LogicOperator
	Patterns      []any // string or Expression elements
	Escape        bool
	Negated       bool
}

// Exists tests [NOT] EXISTS (subquery).
type Exists struct {
	Subquery Subquery
	Negated  bool
}

// Conjunction joins children with AND or OR.
type Conjunction struct {
	Logic    LogicOperator
	Children []Condition
	depth    int
}

// Not negates a single inner condition.
type Not struct {
	Inner Condition
	depth int
}

// HashEntry is one column/value pair of a Hash condition.
type HashEntry struct {
	Value  any
	Column string
}

// Hash is an implicit AND of equalities, in entry order.
type Hash struct {
	Entries []HashEntry
}

// Overlap tests whether an array or JSON column shares any element with values.
type Overlap struct {
	Values any // []any or Expression
	Column Column
}

// All matches every row (no filter).
type All struct{}

// None matches no row.
type None struct{}

// Raw is a raw SQL expression used as a condition.
type Raw struct {
	Expression Expression
}

func (Compare) Kind() Kind        { return KindCompare }
func (Between) Kind() Kind        { return KindBetween }
func (BetweenColumns) Kind() Kind { return KindBetweenColumns }
func (In) Kind() Kind             { return KindIn }
func (Like) Kind() Kind           { return KindLike }
func (Exists) Kind() Kind         { return KindExists }
func (Conjunction) Kind() Kind    { return KindConjunction }
func (Not) Kind() Kind            { return KindNot }
func (Hash) Kind() Kind           { return KindHash }
func (Overlap) Kind() Kind        { return KindOverlap }
func (All) Kind() Kind            { return KindAll }
func (None) Kind() Kind           { return KindNone }
func (Raw) Kind() Kind            { return KindRaw }

func (Compare) isCondition()        {}
func (Between) isCondition()        {}
func (BetweenColumns) isCondition() {}
func (In) isCondition()             {}
func (Like) isCondition()           {}
func (Exists) isCondition()         {}
func (Conjunction) isCondition()    {}
func (Not) isCondition()            {}
func (Hash) isCondition()           {}
func (Overlap) isCondition()        {}
func (All) isCondition()            {}
func (None) isCondition()           {}
func (Raw) isCondition()            {}

// Depth returns the nesting depth of a condition tree.
func Depth(c Condition) int {
	switch v := c.(type) {
	case Conjunction:
		return v.depth
	case Not:
		return v.depth
	case nil:
		return 0
	default:
		return 1
	}
}
