package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_Ordenadas(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_schema.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigrations_RenombranColumnasHeredadas(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/002_issue_columns.sql")
	require.NoError(t, err)
	sql := string(body)
	assert.True(t, strings.Contains(sql, "RENAME COLUMN user_id TO reporter_id"))
	assert.True(t, strings.Contains(sql, "RENAME COLUMN type TO issue_type"))
}

func TestLimitOrAll(t *testing.T) {
	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 20, limitOrAll(20))
}
