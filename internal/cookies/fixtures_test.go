package cookies

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

type browserRow struct {
	Name     string
	Value    string
	Host     string
	Path     string
	Expiry   int64
	Secure   int
	HttpOnly int
}

// createFirefoxFixture writes a moz_cookies database into dir.
func createFirefoxFixture(t *testing.T, dir string, rows []browserRow) string {
	t.Helper()
	return createFixture(t, filepath.Join(dir, "cookies.sqlite"), `CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0
    )`, `INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
}

// createChromeFixture writes a Chrome cookies database into dir. Expiry is
// in Chrome microseconds.
func createChromeFixture(t *testing.T, dir string, rows []browserRow) string {
	t.Helper()
	return createFixture(t, filepath.Join(dir, "Cookies"), `CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL DEFAULT 0,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB DEFAULT '',
        path TEXT NOT NULL,
        expires_utc INTEGER NOT NULL,
        is_secure INTEGER NOT NULL,
        is_httponly INTEGER NOT NULL
    )`, `INSERT INTO cookies (name, value, host_key, path, expires_utc, is_secure, is_httponly) VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
}

func createFixture(t *testing.T, dbPath, schema, insert string, rows []browserRow) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	stmt, err := db.Prepare(insert)
	if err != nil {
		t.Fatalf("failed to prepare insert: %v", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.Exec(r.Name, r.Value, r.Host, r.Path, r.Expiry, r.Secure, r.HttpOnly); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return p
}

func toChrome(unix int64) int64 {
	return (unix + chromeEpochOffset) * 1_000_000
}
