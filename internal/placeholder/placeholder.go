// Package placeholder locates and rewrites named ":name" placeholders in SQL text.
// Quoted strings, quoted identifiers, comments, and "::" casts are skipped.
package placeholder

import "strings"

// Quote is an identifier quote pair, such as "[" and "]", skipped in addition
// to single quotes, double quotes and backticks. A doubled closing character
// inside the region is an escaped quote.
type Quote struct {
	Open  byte
	Close byte
}

// Rewrite replaces every ":name" placeholder in sql with repl(name).
func Rewrite(sql string, repl func(name string) string, quotes ...Quote) string {
	var b strings.Builder
	b.Grow(len(sql))
	scan(sql, quotes, func(chunk string) { b.WriteString(chunk) }, func(name string) {
		b.WriteString(repl(name))
	})
	return b.String()
}

// Names returns placeholder names in order of appearance, duplicates included.
func Names(sql string, quotes ...Quote) []string {
	var names []string
	scan(sql, quotes, func(string) {}, func(name string) { names = append(names, name) })
	return names
}

func closing(quotes []Quote, ch byte) (byte, bool) {
	switch ch {
	case '\'', '"', '`':
		return ch, true
	}
	for _, q := range quotes {
		if q.Open == ch {
			return q.Close, true
		}
	}
	return 0, false
}

func scan(sql string, quotes []Quote, text func(string), param func(string)) {
	start := 0
	i := 0
	for i < len(sql) {
		ch := sql[i]
		closer, quoted := closing(quotes, ch)
		switch {
		case quoted:
			i = skipQuoted(sql, i, closer)
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			if end := strings.IndexByte(sql[i:], '\n'); end >= 0 {
				i += end + 1
			} else {
				i = len(sql)
			}
		case ch == '/' && i+1 < len(sql) && sql[i+1] == '*':
			if end := strings.Index(sql[i+2:], "*/"); end >= 0 {
				i += end + 4
			} else {
				i = len(sql)
			}
		case ch == ':' && i+1 < len(sql) && sql[i+1] == ':':
			i += 2
		case ch == ':' && i+1 < len(sql) && isNameStart(sql[i+1]):
			j := i + 2
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			text(sql[start:i])
			param(sql[i+1 : j])
			start = j
			i = j
		default:
			i++
		}
	}
	text(sql[start:])
}

// skipQuoted returns the index just past the quoted region opened at i and
// closed by end. A doubled closing character is an escaped quote.
func skipQuoted(sql string, i int, end byte) int {
	j := i + 1
	for j < len(sql) {
		if sql[j] == end {
			if j+1 < len(sql) && sql[j+1] == end {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(sql)
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
