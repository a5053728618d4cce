package predicate

import (
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predicate/column"
)

func createTestInstance(t *testing.T, opts ...InstanceOption) *Instance {
	t.Helper()

	project := dbml.NewProject("test_db")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar(64)"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("balance", "numeric(10,2)"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	project.AddTable(posts)

	instance, err := NewFromDBML(project, opts...)
	if err != nil {
		t.Fatalf("NewFromDBML() error = %v", err)
	}
	return instance
}

func TestNewFromDBML_Nil(t *testing.T) {
	if _, err := NewFromDBML(nil); err == nil {
		t.Error("expected error for nil project")
	}
}

func TestInstance_Resolve(t *testing.T) {
	instance := createTestInstance(t)

	tests := []struct {
		name  string
		found bool
		typ   column.Type
	}{
		{"users.id", true, column.BigInt},
		{"username", true, column.String},
		{"balance", true, column.Decimal},
		{"posts.title", true, column.String},
		{"id", false, ""},
		{"users.missing", false, ""},
		{"missing", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := instance.Resolve(tt.name)
			if ok != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.name, ok, tt.found)
			}
			if ok && desc.Type() != tt.typ {
				t.Errorf("Type() = %q, want %q", desc.Type(), tt.typ)
			}
		})
	}
}

func TestInstance_TryColumn(t *testing.T) {
	instance := createTestInstance(t)

	desc, err := instance.TryColumn("username")
	if err != nil {
		t.Fatalf("TryColumn() error = %v", err)
	}
	if desc.Size() != 64 {
		t.Errorf("Size() = %d, want 64", desc.Size())
	}

	if _, err := instance.TryColumn("id"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error = %v, want ambiguous column", err)
	}
	if _, err := instance.TryColumn("missing"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want missing column", err)
	}
}

func TestInstance_ColumnPanics(t *testing.T) {
	instance := createTestInstance(t)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown column")
		}
	}()
	instance.Column("missing")
}

func TestInstance_Table(t *testing.T) {
	instance := createTestInstance(t)

	lookup, err := instance.Table("posts")
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if _, ok := lookup.Resolve("id"); !ok {
		t.Error("expected posts.id to resolve by bare name")
	}
	if _, ok := lookup.Resolve("username"); ok {
		t.Error("expected users.username not to resolve in posts")
	}
	if _, err := instance.Table("comments"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestInstance_CompileWithLookup(t *testing.T) {
	instance := createTestInstance(t)
	c := NewCompiler(nil, WithLookup(instance))

	result := mustCompile(t, c, And(
		Eq("active", "true"),
		Compare(OpGE, "balance", 10),
		Eq("users.id", "42"),
	))
	assertSQL(t, result, `("active" = :qp0) AND ("balance" >= :qp1) AND ("users"."id" = :qp2)`)
	assertParams(t, result, P("qp0", int64(1)), P("qp1", "10.00"), P("qp2", int64(42)))
}

func TestInstance_SubqueryScopesTable(t *testing.T) {
	instance := createTestInstance(t)
	c := NewCompiler(nil, WithLookup(instance))

	// "id" is ambiguous at the top level but resolves to posts.id inside the subquery.
	sub := c.Subquery("posts", []string{"user_id"}, Eq("id", "7"))
	result := mustCompile(t, c, In("users.id", sub))
	assertSQL(t, result, `"users"."id" IN (SELECT "user_id" FROM "posts" WHERE "id" = :qp0)`)
	assertParams(t, result, P("qp0", int64(7)))
}

func TestInstance_WithProfile(t *testing.T) {
	profile := column.Generic()
	profile.BoolTrue = true
	instance := createTestInstance(t, WithProfile(profile))

	desc := instance.Column("active")
	v, err := desc.ToDatabase("yes")
	if err != nil {
		t.Fatalf("ToDatabase() error = %v", err)
	}
	if v != true {
		t.Errorf("ToDatabase() = %v, want true", v)
	}
	if instance.Project() == nil {
		t.Error("Project() = nil")
	}
}
