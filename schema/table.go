// Package schema loads and caches column descriptors per table.
//
// A Cache sits in front of a Loader (driver metadata through database/sql,
// or a DBML project) and hands out Tables, which are column lookups for the
// compiler. Entries are immutable; Refresh and Invalidate drop them wholesale.
package schema

import (
	"strings"

	"github.com/zoobzio/predicate/column"
)

// Table is the set of column descriptors of one table, in declaration order.
type Table struct {
	index   map[string]*column.Descriptor
	Name    string
	Columns []*column.Descriptor
}

// NewTable creates a table from its descriptors.
func NewTable(name string, columns ...*column.Descriptor) *Table {
	t := &Table{Name: name, Columns: columns, index: make(map[string]*column.Descriptor, len(columns))}
	for _, c := range columns {
		t.index[c.Name()] = c
	}
	return t
}

// Column returns the descriptor for name.
func (t *Table) Column(name string) (*column.Descriptor, bool) {
	c, ok := t.index[name]
	return c, ok
}

// Resolve implements predicate.ColumnLookup. Names may be qualified with
// this table's name.
func (t *Table) Resolve(name string) (*column.Descriptor, bool) {
	if table, col, ok := strings.Cut(name, "."); ok {
		if table != t.Name {
			return nil, false
		}
		name = col
	}
	return t.Column(name)
}

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name()
	}
	return names
}

// Tables is a lookup over several tables. Qualified names resolve against
// their table; bare names resolve when exactly one table has the column.
type Tables []*Table

// Resolve implements predicate.ColumnLookup.
func (ts Tables) Resolve(name string) (*column.Descriptor, bool) {
	if table, _, ok := strings.Cut(name, "."); ok {
		for _, t := range ts {
			if t.Name == table {
				return t.Resolve(name)
			}
		}
		return nil, false
	}
	var found *column.Descriptor
	for _, t := range ts {
		if c, ok := t.Column(name); ok {
			if found != nil {
				return nil, false
			}
			found = c
		}
	}
	return found, found != nil
}
