package predicate

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predicate/column"
)

// Instance is a ColumnLookup built from a DBML schema.
// Columns resolve as "table.column", or by bare name when exactly one table
// declares that column.
type Instance struct {
	project *dbml.Project
	factory *column.Factory
	// Internal indexes for fast lookup
	tables  map[string]map[string]*column.Descriptor // table -> column -> descriptor
	columns map[string][]*column.Descriptor          // column -> descriptors across tables
}

// InstanceOption configures an Instance.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	profile *column.Profile
}

// WithProfile sets the dialect profile used to derive column descriptors.
func WithProfile(profile *column.Profile) InstanceOption {
	return func(c *instanceConfig) {
		c.profile = profile
	}
}

// NewFromDBML creates an Instance from a DBML project. Column types are read
// as definition strings, e.g. "varchar(255)" or "numeric(10,2)".
func NewFromDBML(project *dbml.Project, opts ...InstanceOption) (*Instance, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	cfg := instanceConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	i := &Instance{
		project: project,
		factory: column.NewFactory(cfg.profile),
		tables:  make(map[string]map[string]*column.Descriptor),
		columns: make(map[string][]*column.Descriptor),
	}

	// Build indexes for fast lookup
	for _, table := range project.Tables {
		cols := make(map[string]*column.Descriptor, len(table.Columns))
		for _, col := range table.Columns {
			desc, err := i.factory.FromDefinition(col.Name, col.Type)
			if err != nil {
				return nil, fmt.Errorf("table %q column %q: %w", table.Name, col.Name, err)
			}
			cols[col.Name] = desc
			i.columns[col.Name] = append(i.columns[col.Name], desc)
		}
		i.tables[table.Name] = cols
	}
	return i, nil
}

// Project returns the underlying DBML project.
func (i *Instance) Project() *dbml.Project {
	return i.project
}

// Resolve implements ColumnLookup.
func (i *Instance) Resolve(name string) (*column.Descriptor, bool) {
	if table, col, ok := strings.Cut(name, "."); ok {
		desc, found := i.tables[table][col]
		return desc, found
	}
	if candidates := i.columns[name]; len(candidates) == 1 {
		return candidates[0], true
	}
	return nil, false
}

// TryColumn returns the descriptor for a column, returning an error if it
// does not exist or is ambiguous.
func (i *Instance) TryColumn(name string) (*column.Descriptor, error) {
	if desc, ok := i.Resolve(name); ok {
		return desc, nil
	}
	if len(i.columns[name]) > 1 {
		return nil, fmt.Errorf("column '%s' is ambiguous; qualify it with a table name", name)
	}
	return nil, fmt.Errorf("column '%s' not found in schema", name)
}

// Column returns the descriptor for a column.
// Panics if the column does not exist or is ambiguous.
func (i *Instance) Column(name string) *column.Descriptor {
	desc, err := i.TryColumn(name)
	if err != nil {
		panic(err)
	}
	return desc
}

// Table returns a lookup scoped to one table, or an error if it does not exist.
func (i *Instance) Table(name string) (ColumnLookup, error) {
	cols, ok := i.tables[name]
	if !ok {
		return nil, fmt.Errorf("table '%s' not found in schema", name)
	}
	return Descriptors(cols), nil
}
