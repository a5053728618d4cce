package integration

import (
	"sort"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/column"
)

// The seeded data set shared by every engine:
//
//	users:  1 alice   30 active   deleted_at NULL
//	        2 bob     17 inactive deleted_at NULL
//	        3 carol_x 45 active   deleted_at 2024-01-01
//	        4 dave    70 active   deleted_at NULL
//	orders: 1 -> user 1 total 10.50
//	        2 -> user 1 total 99.00
//	        3 -> user 3 total 5.00

// conditionCase is a condition and the user ids it must select.
type conditionCase struct {
	cond predicate.Condition
	name string
	want []int64
}

// createTestInstance builds a lookup matching the seeded schema.
func createTestInstance(t *testing.T, profile *column.Profile) *predicate.Instance {
	t.Helper()

	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar(64)"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	users.AddColumn(dbml.NewColumn("deleted_at", "varchar(32)"))
	project.AddTable(users)

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric(10,2)"))
	project.AddTable(orders)

	instance, err := predicate.NewFromDBML(project, predicate.WithProfile(profile))
	if err != nil {
		t.Fatalf("Failed to create instance: %v", err)
	}
	return instance
}

// commonCases are conditions every dialect must compile and execute.
func commonCases(t *testing.T, c *predicate.Compiler) []conditionCase {
	t.Helper()

	q := c.Dialect().Quoter
	outerID := predicate.Expr(q.QuoteColumnName("users.id"))

	fromYAML, err := predicate.ParseYAML([]byte(`
- and
- active: true
- [">=", age, 18]
- [not like, username, "_x"]
`))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	return []conditionCase{
		{name: "all", cond: predicate.All(), want: []int64{1, 2, 3, 4}},
		{name: "none", cond: predicate.None(), want: nil},
		{name: "between", cond: predicate.Between("age", 18, 65), want: []int64{1, 3}},
		{name: "not between", cond: predicate.NotBetween("age", "18", "65"), want: []int64{2, 4}},
		{name: "in", cond: predicate.In("users.id", []any{2, 4, 9}), want: []int64{2, 4}},
		{name: "in with null", cond: predicate.In("deleted_at", []any{"2024-01-01", nil}), want: []int64{1, 2, 3, 4}},
		{name: "not in with null", cond: predicate.NotIn("deleted_at", []any{"2024-01-01", nil}), want: nil},
		{name: "empty in", cond: predicate.In("age", []any{}), want: nil},
		{name: "empty not in", cond: predicate.NotIn("age", []any{}), want: []int64{1, 2, 3, 4}},
		{name: "is null", cond: predicate.Null("deleted_at"), want: []int64{1, 2, 4}},
		{name: "escaped like", cond: predicate.Like("username", "_x"), want: []int64{3}},
		{name: "starts with", cond: predicate.Like("username", "a", predicate.Mode(predicate.StartsWith)), want: []int64{1}},
		{name: "or like", cond: predicate.Match(predicate.OpOrLike, "username", []string{"bob", "dave"}), want: []int64{2, 4}},
		{name: "hash", cond: predicate.HashMap(map[string]any{"active": "yes", "deleted_at": nil}), want: []int64{1, 4}},
		{name: "not", cond: predicate.Not(predicate.Eq("active", true)), want: []int64{2}},
		{name: "or", cond: predicate.Or(predicate.Eq("users.id", "1"), predicate.Compare(predicate.OpGT, "age", 60)), want: []int64{1, 4}},
		{
			name: "exists",
			cond: predicate.Exists(c.Subquery("orders", nil, predicate.And(
				predicate.Eq("orders.user_id", outerID),
				predicate.Compare(predicate.OpGT, "total", "50"),
			))),
			want: []int64{1},
		},
		{
			name: "not in subquery",
			cond: predicate.NotIn("users.id", c.Subquery("orders", []string{"user_id"}, nil)),
			want: []int64{2, 4},
		},
		{name: "yaml", cond: fromYAML, want: []int64{1, 4}},
	}
}

func checkIDs(t *testing.T, sql string, got, want []int64) {
	t.Helper()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != len(want) {
		t.Errorf("ids = %v, want %v\nSQL: %s", got, want, sql)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("ids = %v, want %v\nSQL: %s", got, want, sql)
			return
		}
	}
}

func where(sql string) string {
	if sql == "" {
		return ""
	}
	return " WHERE " + sql
}
