// Package testing provides test utilities for predicate.
package testing

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
)

// TestInstance creates a schema-backed column lookup for testing.
// Includes users, posts, orders, and products tables.
func TestInstance(t *testing.T, opts ...predicate.InstanceOption) *predicate.Instance {
	t.Helper()

	project := dbml.NewProject("test")

	// Users table
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar(64)"))
	users.AddColumn(dbml.NewColumn("email", "varchar"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	users.AddColumn(dbml.NewColumn("metadata", "jsonb"))
	users.AddColumn(dbml.NewColumn("tags", "text[]"))
	project.AddTable(users)

	// Posts table
	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("published", "boolean"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	project.AddTable(posts)

	// Orders table
	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric(10,2)"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	project.AddTable(orders)

	// Products table
	products := dbml.NewTable("products")
	products.AddColumn(dbml.NewColumn("id", "bigint"))
	products.AddColumn(dbml.NewColumn("name", "varchar"))
	products.AddColumn(dbml.NewColumn("price", "numeric(10,2)"))
	products.AddColumn(dbml.NewColumn("stock", "int"))
	project.AddTable(products)

	instance, err := predicate.NewFromDBML(project, opts...)
	if err != nil {
		t.Fatalf("Failed to create test instance: %v", err)
	}
	return instance
}

// Descriptor builds a standalone column descriptor with the generic profile.
func Descriptor(name string, typ column.Type) *column.Descriptor {
	return column.New(column.Spec{Name: name, Type: typ, Nullable: true}, nil)
}

// MustCompile compiles cond or fails the test.
func MustCompile(t *testing.T, c *predicate.Compiler, cond predicate.Condition) *predicate.Result {
	t.Helper()
	result, err := c.Compile(cond)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return result
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertParams checks that the bound params match expected names and values.
func AssertParams(t *testing.T, expected map[string]any, actual *predicate.Params) {
	t.Helper()
	if len(expected) != actual.Len() {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), actual.Len(), sortedKeys(expected), actual.Names())
		return
	}
	for name, want := range expected {
		got, ok := actual.Get(name)
		if !ok {
			t.Errorf("Missing param: %s\nActual: %v", name, actual.Names())
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Param %s = %#v, want %#v", name, got, want)
		}
	}
}

// AssertContainsParam checks that a specific param is bound.
func AssertContainsParam(t *testing.T, params *predicate.Params, param string) {
	t.Helper()
	if !params.Has(param) {
		t.Errorf("Expected param %q not found in %v", param, params.Names())
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

// AssertPanicsWithMessage verifies that a function panics with a specific message.
func AssertPanicsWithMessage(t *testing.T, fn func(), substr string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected panic containing %q but function completed normally", substr)
			return
		}
		var msg string
		switch v := r.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		default:
			t.Errorf("Panic value is not string or error: %T", r)
			return
		}
		if !strings.Contains(msg, substr) {
			t.Errorf("Expected panic containing %q, got: %s", substr, msg)
		}
	}()
	fn()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
