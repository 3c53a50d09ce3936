// Package sqlite3 registers the pure Go sqlite driver under the name expected
// by the sqlite3 migration dialect.
package sqlite3

import (
	"database/sql"

	"modernc.org/sqlite"
)

// DriverName is the database/sql driver name.
const DriverName = "sqlite3"

func init() {
	sql.Register(DriverName, &sqlite.Driver{})
}
