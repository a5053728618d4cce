package predicate

import (
	"strings"

	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/internal/placeholder"
	"github.com/zoobzio/predicate/internal/render"
	"github.com/zoobzio/predicate/quote"
)

// RenderFunc renders one condition variant. An empty fragment means the
// condition is always true.
type RenderFunc func(ctx *Context, cond Condition) (string, error)

// LikeFunc renders a single pattern match. column is already quoted and
// pattern is a placeholder or raw SQL. caseSensitive is nil for the dialect
// default.
type LikeFunc func(column, pattern string, caseSensitive *bool, negated bool) (string, error)

// Dialect holds the syntax rules of one database engine. A Dialect must not be
// modified once a Compiler uses it.
type Dialect struct {
	Quoter  *quote.Quoter
	Profile *column.Profile

	// Overrides replaces the default renderer for individual condition kinds.
	Overrides map[Kind]RenderFunc

	// Like renders pattern matches; nil uses LOWER() for case-insensitive
	// matching and plain LIKE otherwise.
	Like LikeFunc

	// LikeEscapes lists old/new pairs applied to patterns when escaping is on.
	LikeEscapes []string
	// LikeEscapeClause is appended after each escaped pattern, e.g. " ESCAPE '\'".
	LikeEscapeClause string

	Name         string
	Capabilities Capabilities
}

// BackslashEscapes escapes LIKE wildcards with a backslash.
var BackslashEscapes = []string{`\`, `\\`, `%`, `\%`, `_`, `\_`}

// Generic returns a dialect with ANSI quoting and no optional features.
func Generic() *Dialect {
	return &Dialect{
		Name:             "generic",
		Quoter:           quote.New(quote.Options{}),
		Profile:          column.Generic(),
		LikeEscapes:      BackslashEscapes,
		LikeEscapeClause: ` ESCAPE '\'`,
	}
}

// Renderer returns the renderer used for kind, honoring overrides.
func (d *Dialect) Renderer(kind Kind) RenderFunc {
	if fn, ok := d.Overrides[kind]; ok && fn != nil {
		return fn
	}
	return DefaultRenderer(kind)
}

// Unsupported builds an UnsupportedFeatureError for this dialect.
func (d *Dialect) Unsupported(feature string, hint ...string) error {
	return render.NewUnsupportedFeatureError(d.Name, feature, hint...)
}

func (d *Dialect) quoter() *quote.Quoter {
	if d.Quoter != nil {
		return d.Quoter
	}
	if d.Profile != nil && d.Profile.Quoter != nil {
		return d.Profile.Quoter
	}
	return defaultQuoter
}

// identifierQuotes returns the dialect's identifier quote pairs for the
// placeholder scanner. Multi-byte quotes are not supported there.
func (d *Dialect) identifierQuotes() []placeholder.Quote {
	q := d.quoter()
	var pairs []placeholder.Quote
	for _, qq := range [][2]string{q.ColumnQuote(), q.TableQuote()} {
		if len(qq[0]) == 1 && len(qq[1]) == 1 {
			pairs = append(pairs, placeholder.Quote{Open: qq[0][0], Close: qq[1][0]})
		}
	}
	return pairs
}

func (d *Dialect) escapeLike(pattern string) string {
	if len(d.LikeEscapes) < 2 {
		return pattern
	}
	return strings.NewReplacer(d.LikeEscapes...).Replace(pattern)
}

func (d *Dialect) like(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	if d.Like != nil {
		return d.Like(column, pattern, caseSensitive, negated)
	}
	return GenericLike(column, pattern, caseSensitive, negated)
}

// GenericLike renders a LIKE match, lowering both sides when a
// case-insensitive match is requested.
func GenericLike(column, pattern string, caseSensitive *bool, negated bool) (string, error) {
	op := " LIKE "
	if negated {
		op = " NOT LIKE "
	}
	if caseSensitive != nil && !*caseSensitive {
		return "LOWER(" + column + ")" + op + "LOWER(" + pattern + ")", nil
	}
	return column + op + pattern, nil
}

var defaultQuoter = quote.New(quote.Options{})
