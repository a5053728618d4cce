package column

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// FormatArray renders nested values as an array literal such as {1,2,{3}}.
func FormatArray(items []any) (string, error) {
	var b strings.Builder
	if err := writeArray(&b, items); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeArray(b *strings.Builder, items []any) error {
	b.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		if nested, ok := item.([]any); ok {
			if err := writeArray(b, nested); err != nil {
				return err
			}
			continue
		}
		if item == nil {
			b.WriteString("NULL")
			continue
		}
		s, err := elementText(item)
		if err != nil {
			return err
		}
		b.WriteString(quoteElement(s, `{},"\`, true))
	}
	b.WriteByte('}')
	return nil
}

// FormatRecord renders values as a composite record literal such as (1,"a b",).
// A nil value is written as an empty field.
func FormatRecord(values []any) (string, error) {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if v == nil {
			continue
		}
		s, err := elementText(v)
		if err != nil {
			return "", err
		}
		b.WriteString(quoteElement(s, `(),"\`, false))
	}
	b.WriteByte(')')
	return b.String(), nil
}

func elementText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return "t", nil
		}
		return "f", nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case []byte:
		return `\x` + hex.EncodeToString(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case JSONValue:
		data, err := json.Marshal(x.Data)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return fmt.Sprint(v), nil
}

// quoteElement double-quotes s when it holds a special character, whitespace,
// or would otherwise read as NULL.
func quoteElement(s, special string, nullWord bool) string {
	needs := s == "" || strings.ContainsAny(s, special+" \t\r\n") ||
		(nullWord && strings.EqualFold(s, "null"))
	if !needs {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// ParseArray parses an array literal into nested []any of strings and nils.
// A leading dimension decoration such as [1:2]= is ignored.
func ParseArray(s string) ([]any, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		if i := strings.IndexByte(s, '='); i >= 0 {
			s = s[i+1:]
		}
	}
	p := &literalParser{src: s}
	out, err := p.array()
	if err != nil {
		return nil, err
	}
	if p.skipSpace(); p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing text")
	}
	return out, nil
}

// ParseRecord parses a composite record literal into positional values.
// Empty unquoted fields are nil.
func ParseRecord(s string) ([]any, error) {
	p := &literalParser{src: strings.TrimSpace(s)}
	if !p.consume('(') {
		return nil, p.errorf("expected '('")
	}
	var out []any
	for {
		v, err := p.element(",)", false)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.consume(')') {
			return out, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("literal %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) consume(ch byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) array() ([]any, error) {
	if !p.consume('{') {
		return nil, p.errorf("expected '{'")
	}
	out := []any{}
	if p.consume('}') {
		return out, nil
	}
	for {
		p.skipSpace()
		var v any
		var err error
		if p.pos < len(p.src) && p.src[p.pos] == '{' {
			v, err = p.array()
		} else {
			v, err = p.element(",}", true)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.consume('}') {
			return out, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

// element reads one quoted or bare value up to a terminator in stops.
func (p *literalParser) element(stops string, nullWord bool) (any, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '"' {
		p.pos++
		var b strings.Builder
		for p.pos < len(p.src) {
			ch := p.src[p.pos]
			switch {
			case ch == '\\' && p.pos+1 < len(p.src):
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
			case ch == '"' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '"':
				b.WriteByte('"')
				p.pos += 2
			case ch == '"':
				p.pos++
				return b.String(), nil
			default:
				b.WriteByte(ch)
				p.pos++
			}
		}
		return nil, p.errorf("unterminated quoted element")
	}

	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte(stops, p.src[p.pos]) < 0 {
		p.pos++
	}
	if p.pos == len(p.src) {
		return nil, p.errorf("unterminated literal")
	}
	word := strings.TrimSpace(p.src[start:p.pos])
	if word == "" && !nullWord {
		return nil, nil
	}
	if nullWord && strings.EqualFold(word, "null") {
		return nil, nil
	}
	return word, nil
}
