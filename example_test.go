package predicate_test

import (
	"fmt"

	"github.com/zoobzio/predicate"
	"github.com/zoobzio/predicate/postgres"
	"github.com/zoobzio/predicate/sqlite"
)

func ExampleCompiler_Compile() {
	c := predicate.NewCompiler(postgres.New())

	result, err := c.Compile(predicate.And(
		predicate.Eq("active", true),
		predicate.Between("age", 18, 65),
		predicate.In("status", []any{"new", "paid", nil}),
	))
	if err != nil {
		panic(err)
	}

	fmt.Println(result.SQL)
	for _, p := range result.Params.List() {
		fmt.Printf("%s=%v\n", p.Name, p.Value)
	}
	// Output:
	// ("active" = :qp0) AND ("age" BETWEEN :qp1 AND :qp2) AND (("status" IN (:qp3, :qp4) OR "status" IS NULL))
	// qp0=true
	// qp1=18
	// qp2=65
	// qp3=new
	// qp4=paid
}

func ExampleParse() {
	cond, err := predicate.Parse([]any{"or",
		map[string]any{"role": "admin"},
		[]any{"like", "email", "@example.com", map[string]any{"mode": "endsWith"}},
	})
	if err != nil {
		panic(err)
	}

	result, err := predicate.NewCompiler(sqlite.New()).Compile(cond)
	if err != nil {
		panic(err)
	}
	sql, args, err := sqlite.Bind(result)
	if err != nil {
		panic(err)
	}

	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// ("role"=?) OR ("email" LIKE ? ESCAPE '\')
	// [admin %@example.com]
}

func ExampleNot() {
	c := predicate.NewCompiler(nil)

	for _, cond := range []predicate.Condition{
		predicate.Not(predicate.Eq("deleted", 1)),
		predicate.Not(predicate.In("id", []any{})),
		predicate.In("id", []any{}),
	} {
		result, _ := c.Compile(cond)
		fmt.Printf("%q\n", result.SQL)
	}
	// Output:
	// "NOT (\"deleted\" = :qp0)"
	// ""
	// "0=1"
}

func ExampleCompiler_Subquery() {
	c := predicate.NewCompiler(postgres.New())
	orders := c.Subquery("orders", []string{"user_id"}, predicate.Compare(predicate.OpGT, "total", 100))

	result, err := c.Compile(predicate.In("users.id", orders))
	if err != nil {
		panic(err)
	}

	sql, args, err := postgres.Bind(result)
	if err != nil {
		panic(err)
	}
	fmt.Println(sql)
	fmt.Println(args["qp0"])
	// Output:
	// "users"."id" IN (SELECT "user_id" FROM "orders" WHERE "total" > @qp0)
	// 100
}
