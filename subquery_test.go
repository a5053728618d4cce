package predicate

import (
	"errors"
	"strings"
	"testing"
)

// fixedSubquery is a Subquery compiled elsewhere, e.g. by a query builder.
type fixedSubquery struct {
	err    error
	params *Params
	sql    string
}

func (f fixedSubquery) CompileForEmbedding() (string, *Params, error) {
	return f.sql, f.params, f.err
}

func TestSubquery_In(t *testing.T) {
	c := NewCompiler(nil)
	sub := c.Subquery("users", []string{"id"}, Eq("status", "paid"))

	result := mustCompile(t, c, In("user_id", sub))
	assertSQL(t, result, `"user_id" IN (SELECT "id" FROM "users" WHERE "status" = :qp0)`)
	assertParams(t, result, P("qp0", "paid"))
}

func TestSubquery_NotIn(t *testing.T) {
	c := NewCompiler(nil)
	result := mustCompile(t, c, NotIn("id", c.Subquery("orders", []string{"user_id"}, nil)))
	assertSQL(t, result, `"id" NOT IN (SELECT "user_id" FROM "orders")`)
}

func TestSubquery_MultipleColumns(t *testing.T) {
	c := NewCompiler(rowDialect())
	sub := c.Subquery("archive", []string{"a", "b"}, nil)
	result := mustCompile(t, c, In([]string{"a", "b"}, sub))
	assertSQL(t, result, `("a", "b") IN (SELECT "a", "b" FROM "archive")`)
}

func TestSubquery_NestedDepth2(t *testing.T) {
	c := NewCompiler(nil)
	products := c.Subquery("products", []string{"id"}, Eq("sku", "x"))
	orders := c.Subquery("orders", []string{"user_id"}, In("product_id", products))

	result := mustCompile(t, c, And(Eq("a", 1), In("id", orders)))
	assertSQL(t, result, `("a" = :qp0) AND ("id" IN (SELECT "user_id" FROM "orders" WHERE "product_id" IN (SELECT "id" FROM "products" WHERE "sku" = :qp1)))`)
	assertParams(t, result, P("qp0", int64(1)), P("qp1", "x"))
}

func TestSubquery_DepthLimitExceeded(t *testing.T) {
	c := NewCompiler(nil)
	var sub Subquery = c.Subquery("t0", nil, nil)
	for i := 1; i <= MaxSubqueryDepth; i++ {
		sub = c.Subquery("t", nil, Exists(sub))
	}

	_, err := c.Compile(Exists(sub))
	if err == nil {
		t.Fatal("expected depth error")
	}
	if !strings.Contains(err.Error(), "maximum subquery depth (3) exceeded") {
		t.Errorf("error = %q, want depth message", err)
	}
}

func TestSubquery_Foreign(t *testing.T) {
	c := NewCompiler(nil)
	sub := fixedSubquery{
		sql:    "SELECT id FROM t WHERE x = :qp0 AND y = :qp1",
		params: NewParams(P("qp0", 5), P("qp1", "same")),
	}

	result := mustCompile(t, c, And(Eq("a", 1), Eq("b", "same"), In("id", sub)))
	assertSQL(t, result, `("a" = :qp0) AND ("b" = :qp1) AND ("id" IN (SELECT id FROM t WHERE x = :qp2 AND y = :qp1))`)
	assertParams(t, result, P("qp0", int64(1)), P("qp1", "same"), P("qp2", 5))
}

func TestSubquery_Errors(t *testing.T) {
	c := NewCompiler(nil)
	boom := errors.New("boom")

	tests := []struct {
		cond Condition
		name string
		want string
	}{
		{Exists(fixedSubquery{err: boom}), "foreign error", "subquery: boom"},
		{In("id", c.Subquery("", []string{"id"}, nil)), "empty table", "subquery: subquery table cannot be empty"},
		{Exists(c.Subquery("t", nil, In([]string{"a", "b"}, []any{[]any{1, 2}, []any{3, 4}}))), "unsupported where", "subquery: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.cond)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err, tt.want)
			}
			if tt.name == "foreign error" && !errors.Is(err, boom) {
				t.Errorf("errors.Is(err, boom) = false")
			}
		})
	}
}

func TestSubquery_Mixed(t *testing.T) {
	c := NewCompiler(nil)
	active := c.Subquery("users", []string{"id"}, And(
		Eq("active", true),
		Compare(OpGT, "age", 18),
	))
	cond := Or(
		In("user_id", active),
		NotExists(c.Subquery("bans", nil, Eq("bans.user_id", Expr(`"orders"."user_id"`)))),
		Compare(OpLT, "total", 18),
	)

	result := mustCompile(t, c, cond)
	assertSQL(t, result, `("user_id" IN (SELECT "id" FROM "users" WHERE ("active" = :qp0) AND ("age" > :qp1))) OR `+
		`(NOT EXISTS (SELECT 1 FROM "bans" WHERE "bans"."user_id" = "orders"."user_id")) OR ("total" < :qp2)`)
	assertParams(t, result, P("qp0", true), P("qp1", int64(18)), P("qp2", int64(18)))
}
