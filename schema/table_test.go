package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/predicate/column"
)

func newTable(name string, cols ...string) *Table {
	descs := make([]*column.Descriptor, len(cols))
	for i, c := range cols {
		descs[i] = column.New(column.Spec{Name: c, Type: column.BigInt}, nil)
	}
	return NewTable(name, descs...)
}

func TestTable_Resolve(t *testing.T) {
	users := newTable("users", "id", "org_id")

	desc, ok := users.Resolve("id")
	require.True(t, ok)
	assert.Equal(t, "id", desc.Name())

	_, ok = users.Resolve("users.org_id")
	assert.True(t, ok)

	_, ok = users.Resolve("orgs.id")
	assert.False(t, ok, "qualified name for another table")

	_, ok = users.Resolve("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "org_id"}, users.Names())
}

func TestTables_Resolve(t *testing.T) {
	ts := Tables{newTable("users", "id", "email"), newTable("orgs", "id", "name")}

	_, ok := ts.Resolve("email")
	assert.True(t, ok)

	_, ok = ts.Resolve("id")
	assert.False(t, ok, "ambiguous bare name")

	desc, ok := ts.Resolve("orgs.id")
	require.True(t, ok)
	assert.Equal(t, "id", desc.Name())

	_, ok = ts.Resolve("teams.id")
	assert.False(t, ok)
}
