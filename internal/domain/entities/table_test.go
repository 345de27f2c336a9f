package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_RepeatedSourceKeepsEveryEntry(t *testing.T) {
	tbl := NewTable()
	tbl.Add(TableEntry{Source: "Hello", Target: "Bonjour", ID: 1})
	tbl.Add(TableEntry{Source: "World", Target: "Monde", ID: 2})
	tbl.Add(TableEntry{Source: "Hello", Target: "Salut", ID: 3, Comments: "informal"})

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"Hello", "World"}, tbl.Sources())

	hello := tbl.Lookup("Hello")
	require.Len(t, hello, 2)
	assert.Equal(t, "Bonjour", hello[0].Target)
	assert.Equal(t, int64(3), hello[1].ID)

	first, ok := tbl.First("Hello")
	require.True(t, ok)
	assert.Equal(t, "Bonjour", first.Target)

	_, ok = tbl.First("missing")
	assert.False(t, ok)
	assert.Nil(t, tbl.Lookup("missing"))
}

func TestTable_JSONKeepsOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Add(TableEntry{Source: "b", Target: "B", ID: 1})
	tbl.Add(TableEntry{Source: "a", Target: "A", ID: 2})

	data, err := json.Marshal(tbl)
	require.NoError(t, err)

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tbl.Entries(), decoded.Entries())
	assert.Equal(t, []string{"b", "a"}, decoded.Sources())
}

func TestTable_EmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(NewTable())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
