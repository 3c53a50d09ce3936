package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/signgate/signgate/lib"
	"github.com/signgate/signgate/server/config"
	_ "github.com/signgate/signgate/server/store/sqlite3" // registers the sqlite3 driver
)

var _ RequestStorer = (*sqlStore)(nil)

func init() {
	migrate.SetTable("schema_migrations")
}

func connError(err error) error {
	return fmt.Errorf("unable to connect to database: %w", err)
}

//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrationFS embed.FS

// sqlStore is an sql-based RequestStorer
type sqlStore struct {
	conn *sqlx.DB

	get       *sqlx.Stmt
	set       *sqlx.Stmt
	setStatus *sqlx.Stmt
	listAll   *sqlx.Stmt
}

// driverAndDSN returns the database/sql driver name and data source for c.
func driverAndDSN(c config.Database) (driver, dsn string) {
	switch c.Type {
	case "mysql":
		address := c.Address
		if _, _, err := net.SplitHostPort(address); err != nil {
			address += ":3306"
		}
		m := mysql.NewConfig()
		m.User = c.Username
		m.Passwd = c.Password
		m.Addr = address
		m.Net = "tcp"
		m.DBName = c.DBName
		if m.DBName == "" {
			m.DBName = "signgate"
		}
		m.ParseTime = true
		// Report matched rather than changed rows so SetStatus can detect
		// unknown ids.
		m.ClientFoundRows = true
		return "mysql", m.FormatDSN()
	case "sqlite":
		return "sqlite3", c.Filename
	}
	return c.Type, ""
}

// newSQLStore returns a *sql.DB RequestStorer.
func newSQLStore(c config.Database) (*sqlStore, error) {
	driver, dsn := driverAndDSN(c)
	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlStore: could not get a connection: %w", err)
	}
	if err = autoMigrate(driver, conn); err != nil {
		return nil, fmt.Errorf("sqlStore: could not update schema: %w", err)
	}

	db := &sqlStore{
		conn: conn,
	}

	if db.set, err = conn.Preparex("INSERT INTO sign_requests (id, name, external_id, created_by, status, signers, created_at, expires_at, raw) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"); err != nil {
		return nil, fmt.Errorf("sqlStore: prepare set: %w", err)
	}
	if db.get, err = conn.Preparex("SELECT * FROM sign_requests WHERE id = ?"); err != nil {
		return nil, fmt.Errorf("sqlStore: prepare get: %w", err)
	}
	if db.setStatus, err = conn.Preparex("UPDATE sign_requests SET status = ? WHERE id = ?"); err != nil {
		return nil, fmt.Errorf("sqlStore: prepare setStatus: %w", err)
	}
	if db.listAll, err = conn.Preparex("SELECT * FROM sign_requests ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("sqlStore: prepare listAll: %w", err)
	}
	return db, nil
}

// Migrations returns the embedded schema migrations for a database/sql driver.
func Migrations(driver string) migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       "migrations/" + driver,
	}
}

// Migrate applies the embedded migrations to the database described by c in
// the given direction and returns the number applied.
func Migrate(c config.Database, dir migrate.MigrationDirection) (int, error) {
	driver, dsn := driverAndDSN(c)
	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return 0, connError(err)
	}
	defer conn.Close()
	return migrate.Exec(conn.DB, driver, Migrations(driver), dir)
}

func autoMigrate(driver string, conn *sqlx.DB) error {
	log.Print("Executing any pending schema migrations")
	n, err := migrate.Exec(conn.DB, driver, Migrations(driver), migrate.Up)
	log.Printf("Executed %d migrations", n)
	if err != nil {
		return fmt.Errorf("errors were found running migrations: %w", err)
	}
	return nil
}

// Get a single *RequestRecord
func (db *sqlStore) Get(id string) (*RequestRecord, error) {
	if err := db.conn.Ping(); err != nil {
		return nil, connError(err)
	}
	r := &RequestRecord{}
	if err := db.get.Get(r, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// SetRecord records a *RequestRecord
func (db *sqlStore) SetRecord(rec *RequestRecord) error {
	if err := db.conn.Ping(); err != nil {
		return connError(err)
	}
	_, err := db.set.Exec(rec.ID, rec.Name, rec.ExternalID, rec.CreatedBy, rec.Status, rec.Signers, rec.CreatedAt, rec.ExpiresAt, rec.Raw)
	return err
}

// List returns recorded sign requests, oldest first.
// By default only requests which can still change state are returned.
func (db *sqlStore) List(includeFinished bool) ([]*RequestRecord, error) {
	if err := db.conn.Ping(); err != nil {
		return nil, connError(err)
	}
	recs := []*RequestRecord{}
	if includeFinished {
		if err := db.listAll.Select(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	}
	q, args, err := sqlx.In("SELECT * FROM sign_requests WHERE status NOT IN (?) ORDER BY created_at", finishedStatuses())
	if err != nil {
		return nil, err
	}
	if err := db.conn.Select(&recs, db.conn.Rebind(q), args...); err != nil {
		return nil, err
	}
	return recs, nil
}

// SetStatus updates the status of a recorded request.
func (db *sqlStore) SetStatus(id string, status lib.SignRequestStatus) error {
	if err := db.conn.Ping(); err != nil {
		return connError(err)
	}
	res, err := db.setStatus.Exec(status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close the connection to the database
func (db *sqlStore) Close() error {
	return db.conn.Close()
}
