package types

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/predicate/internal/render"
)

type stubSubquery struct{}

func (stubSubquery) CompileForEmbedding() (string, *Params, error) {
	return "SELECT 1", nil, nil
}

type label string

func (l label) String() string { return "label:" + string(l) }

func assertInvalid(t *testing.T, err error, op Operator, reason string) {
	t.Helper()
	var ia render.InvalidArgumentError
	if !errors.As(err, &ia) {
		t.Fatalf("error = %v, want InvalidArgumentError", err)
	}
	if ia.Operator != string(op) {
		t.Errorf("Operator = %q, want %q", ia.Operator, op)
	}
	if !strings.Contains(ia.Reason, reason) {
		t.Errorf("Reason = %q, want it to contain %q", ia.Reason, reason)
	}
}

// =============================================================================
// Params Tests
// =============================================================================

func TestParams_AddKeepsFirst(t *testing.T) {
	p := NewParams(Param{Name: "a", Value: 1}, Param{Name: "a", Value: 2})
	if p.Add("a", 3) {
		t.Error("Add() = true for a bound name")
	}
	if v, _ := p.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v, want 1", v)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestParams_Nil(t *testing.T) {
	var p *Params
	if _, ok := p.Get("a"); ok {
		t.Error("Get on nil Params reported a binding")
	}
	if p.Has("a") || p.Len() != 0 || p.Names() != nil || p.List() != nil {
		t.Error("nil Params is not empty")
	}
	if m := p.Map(); m == nil || len(m) != 0 {
		t.Errorf("Map() = %v, want empty map", m)
	}
	if c := p.Clone(); c == nil || c.Len() != 0 {
		t.Error("Clone() of nil Params should be empty and non-nil")
	}
}

func TestParams_Order(t *testing.T) {
	var p Params
	p.Add("z", 1)
	p.Add("a", 2)
	p.Add("m", 3)
	if got := p.Names(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Errorf("Names() = %v, want [z a m]", got)
	}
	if got := p.Map(); !reflect.DeepEqual(got, map[string]any{"z": 1, "a": 2, "m": 3}) {
		t.Errorf("Map() = %v", got)
	}
}

func TestParams_CloneIsIndependent(t *testing.T) {
	p := NewParams(Param{Name: "a", Value: 1})
	c := p.Clone()
	c.Add("b", 2)
	if p.Has("b") {
		t.Error("Clone shares storage with the original")
	}
	list := p.List()
	list[0].Value = 9
	if v, _ := p.Get("a"); v != 1 {
		t.Error("List() exposes internal storage")
	}
}

// =============================================================================
// Operand Tests
// =============================================================================

func TestColumnOperand(t *testing.T) {
	expr := Expression{SQL: "LOWER(name)"}

	col, err := ColumnOperand(EQ, "users.id")
	if err != nil || col.Name != "users.id" || col.IsExpr() {
		t.Errorf("ColumnOperand(string) = %+v, %v", col, err)
	}
	col, err = ColumnOperand(EQ, expr)
	if err != nil || !col.IsExpr() || col.String() != "LOWER(name)" {
		t.Errorf("ColumnOperand(Expression) = %+v, %v", col, err)
	}
	col, err = ColumnOperand(EQ, &expr)
	if err != nil || col.Expr != &expr {
		t.Errorf("ColumnOperand(*Expression) = %+v, %v", col, err)
	}

	tests := []struct {
		value  any
		name   string
		reason string
	}{
		{"", "empty name", "column name is empty"},
		{Column{}, "empty column", "column is empty"},
		{(*Expression)(nil), "nil expression", "column expression is nil"},
		{42, "wrong type", "column must be a string or expression, got int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ColumnOperand(GT, tt.value)
			assertInvalid(t, err, GT, tt.reason)
		})
	}
}

func TestCheckValue(t *testing.T) {
	for _, v := range []any{nil, 1, "x", []byte("b"), Expression{SQL: "NOW()"}} {
		if err := CheckValue(EQ, v); err != nil {
			t.Errorf("CheckValue(%T) error = %v", v, err)
		}
	}
	assertInvalid(t, CheckValue(EQ, All{}), EQ, "a condition cannot be used as a value")
	assertInvalid(t, CheckValue(EQ, func() {}), EQ, "unsupported value type func()")
	assertInvalid(t, CheckValue(EQ, make(chan int)), EQ, "unsupported value type chan int")
}

func TestAsList(t *testing.T) {
	tests := []struct {
		value  any
		name   string
		want   []any
		isList bool
	}{
		{nil, "nil", nil, false},
		{"abc", "string", nil, false},
		{[]byte("abc"), "bytes", nil, false},
		{[16]byte{}, "byte array", nil, false},
		{[]any{1, "a"}, "any slice", []any{1, "a"}, true},
		{[]int{1, 2}, "typed slice", []any{1, 2}, true},
		{[2]string{"a", "b"}, "array", []any{"a", "b"}, true},
		{7, "scalar", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsList(tt.value)
			if ok != tt.isList {
				t.Fatalf("AsList() ok = %v, want %v", ok, tt.isList)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AsList() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewCompare(t *testing.T) {
	c, err := NewCompare(GE, "age", 18)
	if err != nil {
		t.Fatalf("NewCompare() error = %v", err)
	}
	if c.Operator != GE || c.Column.Name != "age" || c.Value != 18 {
		t.Errorf("NewCompare() = %+v", c)
	}
	if c.Kind() != KindCompare {
		t.Errorf("Kind() = %q, want %q", c.Kind(), KindCompare)
	}

	_, err = NewCompare(IN, "age", 18)
	assertInvalid(t, err, IN, "unknown comparison operator")

	list, err := NewCompare(EQ, "tags", []int{1, 2})
	if err != nil {
		t.Fatalf("NewCompare() list error = %v", err)
	}
	if !reflect.DeepEqual(list.Value, []int{1, 2}) {
		t.Errorf("Value = %v, want [1 2]", list.Value)
	}
	_, err = NewCompare(EQ, "tags", []any{1, []any{func() {}}})
	assertInvalid(t, err, EQ, "unsupported value type")
}

func TestNewBetween(t *testing.T) {
	b, err := NewBetween(NotBetween, "age", 1, 9)
	if err != nil {
		t.Fatalf("NewBetween() error = %v", err)
	}
	if !b.Negated || b.Start != 1 || b.End != 9 {
		t.Errorf("NewBetween() = %+v", b)
	}

	_, err = NewBetween(EQ, "age", 1, 9)
	assertInvalid(t, err, EQ, "unknown range operator")
	_, err = NewBetween(BETWEEN, "age", []any{1}, 9)
	assertInvalid(t, err, BETWEEN, "bounds must be scalars")
}

func TestNewBetweenColumns(t *testing.T) {
	b, err := NewBetweenColumns(BETWEEN, "2024-01-01", "starts_at", "ends_at")
	if err != nil {
		t.Fatalf("NewBetweenColumns() error = %v", err)
	}
	if b.Start.Name != "starts_at" || b.End.Name != "ends_at" || b.Negated {
		t.Errorf("NewBetweenColumns() = %+v", b)
	}

	_, err = NewBetweenColumns(BETWEEN, []any{1}, "a", "b")
	assertInvalid(t, err, BETWEEN, "value must be a scalar")
	_, err = NewBetweenColumns(BETWEEN, 1, "a", 2)
	assertInvalid(t, err, BETWEEN, "column must be a string or expression")
}

func TestNewIn(t *testing.T) {
	t.Run("scalar becomes one value", func(t *testing.T) {
		in, err := NewIn(IN, "id", 5)
		if err != nil {
			t.Fatalf("NewIn() error = %v", err)
		}
		if !reflect.DeepEqual(in.Values, []any{5}) || in.Composite() {
			t.Errorf("NewIn() = %+v", in)
		}
	})

	t.Run("subquery and expression", func(t *testing.T) {
		in, err := NewIn(NotIn, "id", stubSubquery{})
		if err != nil || !in.Negated {
			t.Fatalf("NewIn(subquery) = %+v, %v", in, err)
		}
		if _, ok := in.Values.(Subquery); !ok {
			t.Errorf("Values = %T, want Subquery", in.Values)
		}
		expr := &Expression{SQL: "SELECT 1"}
		in, err = NewIn(IN, "id", expr)
		if err != nil {
			t.Fatalf("NewIn(expression) error = %v", err)
		}
		if _, ok := in.Values.(Expression); !ok {
			t.Errorf("Values = %T, want Expression", in.Values)
		}
	})

	t.Run("composite rows", func(t *testing.T) {
		in, err := NewIn(IN, []string{"a", "b"}, []any{
			[]any{1, 2},
			map[string]any{"b": 4, "a": 3},
			map[string]any{"a": 5},
		})
		if err != nil {
			t.Fatalf("NewIn() error = %v", err)
		}
		want := []any{[]any{1, 2}, []any{3, 4}, []any{5, nil}}
		if !reflect.DeepEqual(in.Values, want) {
			t.Errorf("Values = %v, want %v", in.Values, want)
		}
		if !in.Composite() {
			t.Error("Composite() = false")
		}
	})

	errs := []struct {
		columns any
		values  any
		name    string
		reason  string
	}{
		{[]string{}, []any{1}, "empty columns", "column list is empty"},
		{[]any{"a", 1}, []any{}, "non-string column", "composite columns must be non-empty names"},
		{"id", []any{[]any{1}}, "nested list", `nested list given for single column "id"`},
		{[]string{"a", "b"}, []any{[]any{1}}, "short row", "composite row has 1 values for 2 columns"},
		{[]string{"a", "b"}, []any{7}, "scalar row", "composite row must be a list or map"},
		{"id", []any{func() {}}, "func value", "unsupported value type"},
		{[]string{"a", "b"}, []any{map[string]any{"a": func() {}, "b": 1}}, "func in map row", "unsupported value type"},
		{[]string{"a", "b"}, []any{map[string]any{"a": 1, "b": make(chan int)}}, "chan in map row", "unsupported value type"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIn(IN, tt.columns, tt.values)
			assertInvalid(t, err, IN, tt.reason)
		})
	}
}

func TestNewLike(t *testing.T) {
	sensitive := true
	l, err := NewLike(OrNotLike, "name", []any{"a", label("b"), 3, Expression{SQL: "x"}}, LikeOptions{CaseSensitive: &sensitive})
	if err != nil {
		t.Fatalf("NewLike() error = %v", err)
	}
	if !l.Negated || l.Conjunction != OrLogic || !l.Escape || l.Mode != LikeContains {
		t.Errorf("NewLike() flags = %+v", l)
	}
	if l.CaseSensitive == nil || !*l.CaseSensitive {
		t.Error("CaseSensitive not carried")
	}
	want := []any{"a", "label:b", "3", Expression{SQL: "x"}}
	if !reflect.DeepEqual(l.Patterns, want) {
		t.Errorf("Patterns = %v, want %v", l.Patterns, want)
	}

	noEscape := false
	l, err = NewLike(LIKE, "name", nil, LikeOptions{Escape: &noEscape, Mode: LikeCustom})
	if err != nil {
		t.Fatalf("NewLike() error = %v", err)
	}
	if l.Escape || l.Mode != LikeCustom || len(l.Patterns) != 0 {
		t.Errorf("NewLike() = %+v", l)
	}

	_, err = NewLike(EQ, "name", "a", LikeOptions{})
	assertInvalid(t, err, EQ, "unknown pattern operator")
	_, err = NewLike(LIKE, "name", "a", LikeOptions{Mode: "fuzzy"})
	assertInvalid(t, err, LIKE, `unknown mode "fuzzy"`)
	_, err = NewLike(LIKE, "name", []any{true}, LikeOptions{})
	assertInvalid(t, err, LIKE, "pattern must be a string or expression, got bool")
}

func TestNewConjunction(t *testing.T) {
	a, _ := NewCompare(EQ, "a", 1)
	b, _ := NewCompare(EQ, "b", 2)
	inner, err := NewConjunction(AndLogic, a, nil, b)
	if err != nil {
		t.Fatalf("NewConjunction() error = %v", err)
	}
	if len(inner.Children) != 2 {
		t.Fatalf("Children = %d, want 2", len(inner.Children))
	}

	outer, _ := NewConjunction(AndLogic, inner, All{})
	if len(outer.Children) != 3 {
		t.Errorf("same-logic children not flattened: %d", len(outer.Children))
	}
	mixed, _ := NewConjunction(OrLogic, inner, None{})
	if len(mixed.Children) != 2 || Depth(mixed) != 3 {
		t.Errorf("mixed logic = %d children depth %d, want 2 children depth 3", len(mixed.Children), Depth(mixed))
	}

	_, err = NewConjunction("XOR", a)
	assertInvalid(t, err, "XOR", "unknown logic operator")
}

func TestDepthLimit(t *testing.T) {
	var cond Condition = All{}
	var err error
	for i := 1; i < MaxConditionDepth; i++ {
		if cond, err = NewNot(cond); err != nil {
			t.Fatalf("NewNot() at depth %d error = %v", i+1, err)
		}
	}
	if Depth(cond) != MaxConditionDepth {
		t.Fatalf("Depth() = %d, want %d", Depth(cond), MaxConditionDepth)
	}

	_, err = NewNot(cond)
	assertInvalid(t, err, NOT, "nesting exceeds maximum depth of 64")
	_, err = NewConjunction(OrLogic, cond)
	assertInvalid(t, err, OR, "nesting exceeds maximum depth of 64")
	_, err = NewNot(nil)
	assertInvalid(t, err, NOT, "requires exactly one inner condition")
}

func TestNewHash(t *testing.T) {
	h, err := NewHash(HashEntry{Column: "b", Value: 1}, HashEntry{Column: "a", Value: nil})
	if err != nil {
		t.Fatalf("NewHash() error = %v", err)
	}
	if h.Entries[0].Column != "b" || h.Entries[1].Column != "a" {
		t.Errorf("entry order not preserved: %+v", h.Entries)
	}

	_, err = NewHash(HashEntry{Column: "a"}, HashEntry{Column: "a"})
	assertInvalid(t, err, EQ, `duplicate hash column "a"`)
	_, err = NewHash(HashEntry{Value: 1})
	assertInvalid(t, err, EQ, "hash column name is empty")
}

func TestNewExists(t *testing.T) {
	e, err := NewExists(NotExists, stubSubquery{})
	if err != nil || !e.Negated {
		t.Errorf("NewExists() = %+v, %v", e, err)
	}
	_, err = NewExists(EXISTS, "SELECT 1")
	assertInvalid(t, err, EXISTS, "operand must be a subquery, got string")
	_, err = NewExists(IN, stubSubquery{})
	assertInvalid(t, err, IN, "unknown subquery operator")
}

func TestNewOverlap(t *testing.T) {
	o, err := NewOverlap("tags", []string{"a", "b"})
	if err != nil {
		t.Fatalf("NewOverlap() error = %v", err)
	}
	if !reflect.DeepEqual(o.Values, []any{"a", "b"}) {
		t.Errorf("Values = %v", o.Values)
	}
	_, err = NewOverlap("tags", "a")
	assertInvalid(t, err, Overlaps, "values must be a list or expression, got string")
	_, err = NewOverlap("tags", (*Expression)(nil))
	assertInvalid(t, err, Overlaps, "values expression is nil")
}

// =============================================================================
// Operator Tests
// =============================================================================

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"=":              EQ,
		"Between":        BETWEEN,
		"not   between ": NotBetween,
		"or not like":    OrNotLike,
		"Exists":         EXISTS,
		"overlaps":       Overlaps,
	}
	for in, want := range tests {
		if got := ParseOperator(in); got != want {
			t.Errorf("ParseOperator(%q) = %q, want %q", in, got, want)
		}
	}
	if !LTGT.Negates() || !NE.Negates() || EQ.Negates() {
		t.Error("Negates() mismatch")
	}
	if !LE.IsComparison() || IN.IsComparison() {
		t.Error("IsComparison() mismatch")
	}
}
