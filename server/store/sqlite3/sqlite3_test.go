package sqlite3

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlite3Compat(t *testing.T) {
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec("CREATE TABLE testing (id INT, created_at DATETIME, expires_at DATETIME NULL)")
	require.NoError(t, err)

	now := time.Date(2026, time.October, 1, 12, 30, 0, 0, time.UTC)
	_, err = db.Exec("INSERT INTO testing VALUES (?, ?, ?)", 123, now, nil)
	require.NoError(t, err)

	var (
		id      int
		created time.Time
		expires *time.Time
	)
	row := db.QueryRow("SELECT id, created_at, expires_at FROM testing WHERE id = ?", 123)
	require.NoError(t, row.Scan(&id, &created, &expires))
	assert.Equal(t, 123, id)
	assert.True(t, now.Equal(created), "got %s", created)
	assert.Nil(t, expires)
}
