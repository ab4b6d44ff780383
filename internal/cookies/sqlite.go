package cookies

import (
	"database/sql"
	"fmt"

	"github.com/artsyapp/artsy/pkg/credman/types"
	_ "modernc.org/sqlite"
)

// chromeEpochOffset is the number of seconds between 1601-01-01 and the
// Unix epoch. Chrome timestamps are microseconds since 1601.
const chromeEpochOffset int64 = 11_644_473_600

// firefoxMillisThreshold separates second from millisecond expiries. Newer
// Firefox releases store milliseconds.
const firefoxMillisThreshold int64 = 100_000_000_000

const firefoxQuery = `SELECT name, value, host, path, expiry, isSecure, isHttpOnly FROM moz_cookies ORDER BY id`

// Chrome leaves value empty and fills encrypted_value when the OS keychain
// protects the cookie; those rows cannot be read here.
const chromeQuery = `SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly FROM cookies WHERE value != '' ORDER BY creation_utc, rowid`

type sqliteRow struct {
	name, value, domain, path string
	expiry                    int64
	secure, httpOnly          bool
}

func firefoxExpiry(v int64) int64 {
	if v > firefoxMillisThreshold {
		return v / 1000
	}
	return v
}

func chromeExpiry(v int64) int64 {
	if v == 0 {
		return types.SessionExpiry
	}
	return v/1_000_000 - chromeEpochOffset
}

// readSQLite reads every row of a browser cookie database. dbPath must not
// be in use by a browser; see snapshot.
func readSQLite(dbPath, query string, expiry func(int64) int64) ([]types.Cookie, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?immutable=1")
	if err != nil {
		return nil, fmt.Errorf("open cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query cookie database: %w", err)
	}
	defer rows.Close()

	var cookies []types.Cookie
	for rows.Next() {
		var r sqliteRow
		if err := rows.Scan(&r.name, &r.value, &r.domain, &r.path, &r.expiry, &r.secure, &r.httpOnly); err != nil {
			return nil, fmt.Errorf("scan cookie row: %w", err)
		}
		cookies = append(cookies, types.Cookie{
			Name:      r.name,
			Value:     r.value,
			Domain:    normalizeDomain(r.domain),
			Path:      r.path,
			ExpiresAt: expiry(r.expiry),
			Secure:    r.secure,
			HttpOnly:  r.httpOnly,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cookie rows: %w", err)
	}
	return cookies, nil
}
