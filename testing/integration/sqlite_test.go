package integration

import (
	"database/sql"
	"testing"

	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/schema"
	sqlitedialect "github.com/zoobzio/predicate/sqlite"
	_ "modernc.org/sqlite"
)

// SQLiteDB wraps an in-memory SQLite database for testing.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new in-memory SQLite database.
func NewSQLiteDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database: %v", err)
		}
	})
	return &SQLiteDB{db: db}
}

// Exec executes a SQL statement.
func (s *SQLiteDB) Exec(t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := s.db.Exec(sql, args...)
	if err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}

// SelectIDs binds result and returns the matching user ids.
func (s *SQLiteDB) SelectIDs(t *testing.T, result *predicate.Result) []int64 {
	t.Helper()
	query, args, err := sqlitedialect.Bind(result)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	return collectIDs(t, query, func() (*sql.Rows, error) {
		return s.db.Query(`SELECT "id" FROM "users"`+where(query), args...)
	})
}

func setupSQLiteSchema(t *testing.T, s *SQLiteDB) {
	t.Helper()
	s.Exec(t, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		username VARCHAR(64) NOT NULL,
		age INT NOT NULL,
		active BOOLEAN NOT NULL,
		deleted_at VARCHAR(32)
	)`)
	s.Exec(t, `CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, total NUMERIC(10,2) NOT NULL)`)
	s.Exec(t, `INSERT INTO users VALUES
		(1, 'alice', 30, 1, NULL),
		(2, 'bob', 17, 0, NULL),
		(3, 'carol_x', 45, 1, '2024-01-01'),
		(4, 'dave', 70, 1, NULL)`)
	s.Exec(t, `INSERT INTO orders VALUES (1, 1, 10.50), (2, 1, 99.00), (3, 3, 5.00)`)
}

func TestIntegration_SQLite(t *testing.T) {
	s := NewSQLiteDB(t)
	setupSQLiteSchema(t, s)

	dialect := sqlitedialect.New()
	c := predicate.NewCompiler(dialect, predicate.WithLookup(createTestInstance(t, dialect.Profile)))

	cases := append(commonCases(t, c),
		conditionCase{
			name: "composite in",
			cond: predicate.In([]string{"id", "age"}, []any{[]any{1, 30}, []any{2, 99}}),
			want: []int64{1},
		},
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := c.Compile(tc.cond)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			checkIDs(t, result.SQL, s.SelectIDs(t, result), tc.want)
		})
	}
}

// TestIntegration_SQLiteSchemaCache drives the compiler from driver metadata
// instead of a DBML project.
func TestIntegration_SQLiteSchemaCache(t *testing.T) {
	s := NewSQLiteDB(t)
	setupSQLiteSchema(t, s)

	cache := schema.NewCache(schema.NewSQLLoader(s.db, sqlitedialect.Profile()))
	lookup, err := cache.Lookup(t.Context(), "users", "orders")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	c := predicate.NewCompiler(sqlitedialect.New(), predicate.WithLookup(lookup))

	for _, tc := range commonCases(t, c) {
		t.Run(tc.name, func(t *testing.T) {
			result, err := c.Compile(tc.cond)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			checkIDs(t, result.SQL, s.SelectIDs(t, result), tc.want)
		})
	}
}

func collectIDs(t *testing.T, query string, run func() (*sql.Rows, error)) []int64 {
	t.Helper()
	rows, err := run()
	if err != nil {
		t.Fatalf("Failed to execute query: %v\nSQL: %s", err, query)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Rows error: %v", err)
	}
	return ids
}
