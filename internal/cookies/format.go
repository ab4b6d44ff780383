package cookies

import (
	"bufio"
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// Format identifies the layout of a cookie file.
type Format int

const (
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// values can be read.
	FormatChrome
	// FormatNetscape is the tab-separated text format used by curl and wget.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "unknown"
	}
}

// ErrUnsupported is returned for files that are not a known cookie store.
var ErrUnsupported = errors.New("unsupported cookie file")

var sqliteMagic = []byte("SQLite format 3\x00")

var netscapeHeaders = [][]byte{
	[]byte("# Netscape HTTP Cookie File"),
	[]byte("# HTTP Cookie File"),
}

// Detect determines the format of the cookie file at path.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open cookie file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FormatUnknown, fmt.Errorf("stat cookie file: %w", err)
	}
	if info.IsDir() {
		return FormatUnknown, fmt.Errorf("%s is a directory: %w", path, ErrUnsupported)
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(sqliteMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read cookie file: %w", err)
	}
	if bytes.Equal(head, sqliteMagic) {
		return detectSQLite(path)
	}

	line, _ := br.ReadBytes('\n')
	line = bytes.TrimRight(line, "\r\n")
	for _, h := range netscapeHeaders {
		if bytes.Equal(line, h) {
			return FormatNetscape, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// detectSQLite tells the browser schemas apart by their cookie table.
func detectSQLite(path string) (Format, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return FormatUnknown, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	for _, t := range []struct {
		table  string
		format Format
	}{
		{"moz_cookies", FormatFirefox},
		{"cookies", FormatChrome},
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, t.table).Scan(&name)
		if err == nil {
			return t.format, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return FormatUnknown, fmt.Errorf("inspect sqlite schema: %w", err)
		}
	}
	return FormatUnknown, fmt.Errorf("%s: no cookie table: %w", path, ErrUnsupported)
}
