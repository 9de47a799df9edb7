// Package dbtest opens throwaway databases for repository and HTTP tests.
package dbtest

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pokeshop-api/pkg/db"
)

// SQLiteSchema mirrors the Postgres tables closely enough for the raw statements the
// repositories issue.
const SQLiteSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	age INTEGER NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	price NUMERIC(10,2) NOT NULL,
	date DATE NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE TABLE pokemon (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL,
	secondary_type TEXT,
	hp INTEGER NOT NULL,
	attack INTEGER NOT NULL,
	defense INTEGER NOT NULL,
	sp_attack INTEGER NOT NULL,
	sp_defense INTEGER NOT NULL,
	speed INTEGER NOT NULL
);
`

// OpenSQLite returns a client over a private in-memory database with the schema applied
// and foreign keys enforced.
func OpenSQLite(t testing.TB) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.Exec(SQLiteSchema).Error; err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db.Wrap(conn)
}

// OpenPostgres connects to POKESHOP_TEST_DB_DSN or skips the test.
func OpenPostgres(t testing.TB) *db.Client {
	t.Helper()

	dsn := os.Getenv("POKESHOP_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("POKESHOP_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	client := db.Wrap(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
