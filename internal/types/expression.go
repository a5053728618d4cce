package types

// Expression is an opaque SQL fragment with its own named parameter bindings.
// The compiler emits SQL verbatim; it is never re-quoted or re-cast.
type Expression struct {
	Params *Params
	SQL    string
}

// String returns the SQL text.
func (e Expression) String() string {
	return e.SQL
}

// Subquery yields its own compiled SQL and bindings for embedding in another statement.
type Subquery interface {
	CompileForEmbedding() (string, *Params, error)
}

// Column is the left-hand operand of a condition: a column name or a raw expression.
type Column struct {
	Expr *Expression
	Name string
}

// IsExpr reports whether the operand is a raw expression.
func (c Column) IsExpr() bool {
	return c.Expr != nil
}

// String returns the column name or the expression text.
func (c Column) String() string {
	if c.Expr != nil {
		return c.Expr.SQL
	}
	return c.Name
}
