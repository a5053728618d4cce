package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predicate/column"
	"github.com/zoobzio/predicate/quote"
)

// ErrTableNotFound is returned when a loader does not know a table.
var ErrTableNotFound = errors.New("table not found")

// Loader reads the column descriptors of one table.
type Loader interface {
	Load(ctx context.Context, table string) (*Table, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, table string) (*Table, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, table string) (*Table, error) {
	return f(ctx, table)
}

// SQLLoader reads column metadata reported by a database/sql driver for an
// empty result set of the table.
type SQLLoader struct {
	db      *sql.DB
	factory *column.Factory
	quoter  *quote.Quoter
}

// NewSQLLoader creates a loader over db. profile selects the native type
// table and identifier quoting; nil uses the generic profile.
func NewSQLLoader(db *sql.DB, profile *column.Profile) *SQLLoader {
	factory := column.NewFactory(profile)
	q := factory.Profile().Quoter
	if q == nil {
		q = quote.New(quote.Options{})
	}
	return &SQLLoader{db: db, factory: factory, quoter: q}
}

// Load implements Loader.
func (l *SQLLoader) Load(ctx context.Context, table string) (*Table, error) {
	query := "SELECT * FROM " + l.quoter.QuoteTableName(table) + " WHERE 1=0"
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", table, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types of %q: %w", table, err)
	}
	cols := make([]*column.Descriptor, 0, len(types))
	for _, ct := range types {
		desc, err := l.factory.FromMetadata(Metadata(ct))
		if err != nil {
			return nil, err
		}
		cols = append(cols, desc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewTable(table, cols...), nil
}

// Metadata converts a driver column type into factory metadata. Columns
// whose nullability the driver does not report are treated as nullable.
func Metadata(ct *sql.ColumnType) column.Metadata {
	m := column.Metadata{
		Name:         ct.Name(),
		DatabaseType: ct.DatabaseTypeName(),
		Nullable:     true,
	}
	if n, ok := ct.Length(); ok {
		m.Length, m.HasLength = n, true
	}
	if p, s, ok := ct.DecimalSize(); ok {
		m.Precision, m.Scale, m.HasPrecision = p, s, true
	}
	if nullable, ok := ct.Nullable(); ok {
		m.Nullable = nullable
	}
	return m
}

// DBMLLoader reads column definitions from a DBML project.
type DBMLLoader struct {
	project *dbml.Project
	factory *column.Factory
}

// NewDBMLLoader creates a loader over project.
func NewDBMLLoader(project *dbml.Project, profile *column.Profile) *DBMLLoader {
	return &DBMLLoader{project: project, factory: column.NewFactory(profile)}
}

// Load implements Loader.
func (l *DBMLLoader) Load(_ context.Context, table string) (*Table, error) {
	for _, t := range l.project.Tables {
		if t.Name != table {
			continue
		}
		cols := make([]*column.Descriptor, 0, len(t.Columns))
		for _, c := range t.Columns {
			desc, err := l.factory.FromDefinition(c.Name, c.Type)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", c.Name, err)
			}
			cols = append(cols, desc)
		}
		return NewTable(table, cols...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
}
