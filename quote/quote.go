// Package quote quotes SQL identifiers and literals for a dialect.
//
// Identifier quoting is idempotent: names that are already quoted, contain
// function-call syntax, or are wrapped in [[column]] / {{table}} markers are
// returned unchanged or resolved, never double-quoted. The table prefix used
// by {{%name}} markers is read at quote time, so prefix changes apply to SQL
// quoted afterwards without rebuilding anything.
//
// QuoteValue produces a string literal for contexts that cannot take a bound
// parameter, such as DDL default clauses. It is not safe for untrusted input;
// bind values as parameters instead.
package quote

import (
	"regexp"
	"strings"
	"sync/atomic"
)

// Options configures a Quoter.
type Options struct {
	// ColumnQuote holds the opening and closing identifier quote for columns.
	ColumnQuote [2]string
	// TableQuote holds the opening and closing identifier quote for tables.
	// Defaults to ColumnQuote.
	TableQuote [2]string
	// Prefix substitutes the % in {{%name}} table markers.
	Prefix string
	// ValueEscapes lists old/new replacement pairs applied to literals in
	// addition to doubling single quotes.
	ValueEscapes []string
}

// Quoter quotes identifiers and literals. It is safe for concurrent use.
type Quoter struct {
	prefix      atomic.Pointer[string]
	values      *strings.Replacer
	columnQuote [2]string
	tableQuote  [2]string
}

// DefaultValueEscapes strips NUL bytes, which no supported engine stores in text.
var DefaultValueEscapes = []string{"\x00", ""}

var markers = regexp.MustCompile(`\{\{(%?[\w\-. ]+)\}\}|\[\[([\w\-. ]+)\]\]`)

// New creates a Quoter.
func New(opts Options) *Quoter {
	if opts.ColumnQuote == [2]string{} {
		opts.ColumnQuote = [2]string{`"`, `"`}
	}
	if opts.TableQuote == [2]string{} {
		opts.TableQuote = opts.ColumnQuote
	}
	if opts.ValueEscapes == nil {
		opts.ValueEscapes = DefaultValueEscapes
	}
	pairs := append([]string{"'", "''"}, opts.ValueEscapes...)
	q := &Quoter{
		columnQuote: opts.ColumnQuote,
		tableQuote:  opts.TableQuote,
		values:      strings.NewReplacer(pairs...),
	}
	q.SetPrefix(opts.Prefix)
	return q
}

// SetPrefix changes the table prefix used by {{%name}} markers.
func (q *Quoter) SetPrefix(prefix string) {
	q.prefix.Store(&prefix)
}

// Prefix returns the current table prefix.
func (q *Quoter) Prefix() string {
	return *q.prefix.Load()
}

// ColumnQuote returns the opening and closing column quote characters.
func (q *Quoter) ColumnQuote() [2]string {
	return q.columnQuote
}

// TableQuote returns the opening and closing table quote characters.
func (q *Quoter) TableQuote() [2]string {
	return q.tableQuote
}

// QuoteColumnName quotes a possibly table-qualified column name.
func (q *Quoter) QuoteColumnName(name string) string {
	if strings.Contains(name, "(") || strings.Contains(name, "[[") {
		return name
	}
	if strings.Contains(name, "{{") {
		return q.QuoteSQL(name)
	}
	parts := q.split(name)
	if len(parts) == 1 {
		return q.QuoteSimpleColumnName(name)
	}
	table := strings.Join(parts[:len(parts)-1], ".")
	return q.QuoteTableName(table) + "." + q.QuoteSimpleColumnName(parts[len(parts)-1])
}

// QuoteSimpleColumnName quotes a single column name segment.
func (q *Quoter) QuoteSimpleColumnName(name string) string {
	if name == "*" || isQuoted(name, q.columnQuote) {
		return name
	}
	return quoteWith(name, q.columnQuote)
}

// QuoteTableName quotes a possibly schema-qualified table name. Each
// dot-separated segment is quoted independently.
func (q *Quoter) QuoteTableName(name string) string {
	if strings.Contains(name, "(") {
		return name
	}
	if strings.Contains(name, "{{") {
		return q.QuoteSQL(name)
	}
	parts := q.split(name)
	for i, part := range parts {
		parts[i] = q.QuoteSimpleTableName(part)
	}
	return strings.Join(parts, ".")
}

// QuoteSimpleTableName quotes a single table name segment.
func (q *Quoter) QuoteSimpleTableName(name string) string {
	if isQuoted(name, q.tableQuote) {
		return name
	}
	return quoteWith(name, q.tableQuote)
}

// UnquoteSimpleColumnName removes column quotes from a single segment.
func (q *Quoter) UnquoteSimpleColumnName(name string) string {
	return unquoteWith(name, q.columnQuote)
}

// UnquoteSimpleTableName removes table quotes from a single segment.
func (q *Quoter) UnquoteSimpleTableName(name string) string {
	return unquoteWith(name, q.tableQuote)
}

// QuoteSQL resolves {{table}}, {{%table}}, and [[column]] markers in sql.
func (q *Quoter) QuoteSQL(sql string) string {
	return markers.ReplaceAllStringFunc(sql, func(m string) string {
		sub := markers.FindStringSubmatch(m)
		if sub[1] != "" {
			table := strings.Replace(sub[1], "%", q.Prefix(), 1)
			return q.QuoteTableName(table)
		}
		return q.QuoteColumnName(sub[2])
	})
}

// QuoteValue returns a single-quoted string literal.
// Not safe for untrusted input: bind values as parameters instead.
func (q *Quoter) QuoteValue(v string) string {
	return "'" + q.values.Replace(v) + "'"
}

// split breaks a name on dots that are not inside column or table quotes.
func (q *Quoter) split(name string) []string {
	var parts []string
	var closing string
	start := 0
	for i := 0; i < len(name); i++ {
		ch := name[i : i+1]
		switch {
		case closing != "":
			if ch == closing {
				closing = ""
			}
		case ch == q.columnQuote[0]:
			closing = q.columnQuote[1]
		case ch == q.tableQuote[0]:
			closing = q.tableQuote[1]
		case ch == ".":
			parts = append(parts, name[start:i])
			start = i + 1
		}
	}
	return append(parts, name[start:])
}

// isQuoted reports whether name is a single quoted identifier: wrapped in
// quotes with every closing quote inside doubled.
func isQuoted(name string, quotes [2]string) bool {
	if len(name) < len(quotes[0])+len(quotes[1]) ||
		!strings.HasPrefix(name, quotes[0]) || !strings.HasSuffix(name, quotes[1]) {
		return false
	}
	inner := name[len(quotes[0]) : len(name)-len(quotes[1])]
	for {
		i := strings.Index(inner, quotes[1])
		if i < 0 {
			return true
		}
		inner = inner[i+len(quotes[1]):]
		if !strings.HasPrefix(inner, quotes[1]) {
			return false
		}
		inner = inner[len(quotes[1]):]
	}
}

func quoteWith(name string, quotes [2]string) string {
	escaped := strings.ReplaceAll(name, quotes[1], quotes[1]+quotes[1])
	return quotes[0] + escaped + quotes[1]
}

func unquoteWith(name string, quotes [2]string) string {
	if !isQuoted(name, quotes) {
		return name
	}
	inner := name[len(quotes[0]) : len(name)-len(quotes[1])]
	return strings.ReplaceAll(inner, quotes[1]+quotes[1], quotes[1])
}
