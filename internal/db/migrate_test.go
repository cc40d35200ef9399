package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsQuoteSchema(t *testing.T) {
	migrations, err := Migrations("aimploy")
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	first := migrations[0]
	assert.Equal(t, "001_candidates.sql", first.Name)
	require.Len(t, first.Statements, 3)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "aimploy"`, first.Statements[0])
	assert.True(t, strings.HasPrefix(first.Statements[1], `CREATE TABLE IF NOT EXISTS "aimploy".candidates`))

	for _, m := range migrations {
		for _, stmt := range m.Statements {
			assert.NotContains(t, stmt, "{{schema}}")
		}
	}
}

func TestMigrationsEscapeHostileSchema(t *testing.T) {
	migrations, err := Migrations(`bad"; DROP TABLE x; --`)
	require.NoError(t, err)

	require.Len(t, migrations[0].Statements, 3)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "bad""; DROP TABLE x; --"`, migrations[0].Statements[0])
}

func TestSplitStatements(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, splitStatements("SELECT 1;\n\n SELECT 2 ;\n"))
	assert.Empty(t, splitStatements("  \n"))
}
