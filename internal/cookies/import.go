package cookies

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/artsyapp/artsy/pkg/logger"
)

// Result is the outcome of an import.
type Result struct {
	Format  Format
	Cookies []types.Cookie
	// Skipped counts unexpired cookies for other hosts plus expired ones.
	Skipped int
}

// Import reads the cookie file at path and returns the unexpired cookies
// that would be sent to host.
func Import(path, host string, log logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	var all []types.Cookie
	switch format {
	case FormatFirefox:
		all, err = importSQLite(path, firefoxQuery, firefoxExpiry)
	case FormatChrome:
		all, err = importSQLite(path, chromeQuery, chromeExpiry)
	case FormatNetscape:
		all, err = importNetscape(path, log)
	}
	if err != nil {
		return nil, fmt.Errorf("import %s cookies: %w", format, err)
	}

	res := &Result{Format: format}
	host = normalizeDomain(host)
	now := time.Now()
	for _, c := range all {
		if c.Expired(now) || !appliesTo(host, c.Domain) {
			res.Skipped++
			continue
		}
		res.Cookies = append(res.Cookies, c)
	}
	log.Debug("cookies: read %d %s cookies for %s, skipped %d", len(res.Cookies), format, host, res.Skipped)
	return res, nil
}

func importSQLite(path, query string, expiry func(int64) int64) ([]types.Cookie, error) {
	copied, cleanup, err := snapshot(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return readSQLite(copied, query, expiry)
}

func importNetscape(path string, log logger.Logger) ([]types.Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadNetscape(f, log)
}

func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimPrefix(d, "."))
}

// appliesTo reports whether a cookie for domain is sent to host.
func appliesTo(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
