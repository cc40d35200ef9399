package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      string  `db:"id"`
	Note    *string `db:"note"`
	Skipped string  `db:"-"`
	Plain   string
	hidden  string `db:"hidden"`
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "note"}, Columns(row{}))
	assert.Equal(t, []string{"id", "note"}, Columns(&row{}))
	assert.Panics(t, func() { Columns("nope") })
}

func TestColumnMap(t *testing.T) {
	note := "hi"
	got := ColumnMap(&row{ID: "a", Note: &note, Skipped: "x", hidden: "y"})
	assert.Equal(t, map[string]any{"id": "a", "note": &note}, got)
}

func TestNewID(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, err := NewID()
	require.NoError(t, err)

	assert.Len(t, a, 21)
	assert.NotEqual(t, a, b)
}

func TestNilIfBlank(t *testing.T) {
	assert.Nil(t, NilIfBlank("  "))
	assert.Equal(t, "x", PtrString(NilIfBlank("x")))
	assert.Equal(t, "", PtrString(nil))
}
