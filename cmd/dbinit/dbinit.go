package main

import (
	"database/sql"
	"flag"
	"log"
	"net"

	"github.com/go-sql-driver/mysql"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/signgate/signgate/server/config"
	"github.com/signgate/signgate/server/store"
)

var (
	host        = flag.String("host", "localhost", "host[:port]")
	adminUser   = flag.String("admin_user", "root", "Admin user (mysql)")
	adminPasswd = flag.String("admin_password", "", "Admin password (mysql)")
	dbUser      = flag.String("db_user", "user", "Database user")
	dbPasswd    = flag.String("db_password", "passwd", "Database password")
	dbName      = flag.String("db_name", "signgate", "Database name (mysql)")
	dbType      = flag.String("db_type", "mysql", "Database engine (\"mysql\" or \"sqlite\")")
	dbPath      = flag.String("db_path", "signgate.db", "Path to the database file (sqlite)")
	down        = flag.Bool("down", false, "Roll back all migrations instead of applying them")
)

// createMySQLDatabase creates the database and grants the gateway user
// access to it.
func createMySQLDatabase() {
	address := *host
	if _, _, err := net.SplitHostPort(address); err != nil {
		address += ":3306"
	}
	conn := mysql.NewConfig()
	conn.User = *adminUser
	conn.Passwd = *adminPasswd
	conn.Net = "tcp"
	conn.Addr = address
	db, err := sql.Open("mysql", conn.FormatDSN())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	stmts := []string{
		"CREATE DATABASE IF NOT EXISTS `" + *dbName + "` DEFAULT CHARACTER SET = 'utf8mb4'",
		"CREATE USER IF NOT EXISTS '" + *dbUser + "'@'%' IDENTIFIED BY '" + *dbPasswd + "'",
		"GRANT ALL PRIVILEGES ON `" + *dbName + "`.* TO '" + *dbUser + "'@'%'",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Error running setup: %v", err)
		}
	}
}

func main() {
	flag.Parse()
	log.SetPrefix("dbinit: ")
	c := config.Database{Type: *dbType}
	switch *dbType {
	case "mysql":
		if !*down {
			createMySQLDatabase()
		}
		c.Address = *host
		c.Username = *dbUser
		c.Password = *dbPasswd
		c.DBName = *dbName
	case "sqlite":
		c.Filename = *dbPath
	default:
		log.Fatalf("Invalid database type %q", *dbType)
	}
	dir := migrate.Up
	if *down {
		dir = migrate.Down
	}
	n, err := store.Migrate(c, dir)
	if err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
	log.Printf("Applied %d migrations", n)
}
