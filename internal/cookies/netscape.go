package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/artsyapp/artsy/pkg/logger"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// ReadNetscape parses a Netscape cookie file. Malformed lines are skipped
// with a warning. An expiry of 0 marks a session cookie.
func ReadNetscape(r io.Reader, log logger.Logger) ([]types.Cookie, error) {
	var cookies []types.Cookie
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = line[len(httpOnlyPrefix):]
		} else if line[0] == '#' {
			continue
		}

		f := strings.Split(line, "\t")
		if len(f) != 7 {
			log.Warning("cookies: line %d: expected 7 fields, got %d", lineNo, len(f))
			continue
		}
		expiry, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil {
			log.Warning("cookies: line %d: invalid expiry for %q", lineNo, f[5])
			continue
		}
		if expiry == 0 {
			expiry = types.SessionExpiry
		}
		cookies = append(cookies, types.Cookie{
			Name:      f[5],
			Value:     f[6],
			Domain:    normalizeDomain(f[0]),
			Path:      f[2],
			ExpiresAt: expiry,
			Secure:    strings.EqualFold(f[3], "TRUE"),
			HttpOnly:  httpOnly,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read netscape cookie file: %w", err)
	}
	return cookies, nil
}

// WriteNetscape writes cookies in Netscape format. Every domain is written
// as subdomain-inclusive since the store does not track host-only cookies.
func WriteNetscape(w io.Writer, cookies []types.Cookie) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	fmt.Fprintln(bw, "# Exported by artsy. Contains session credentials; keep private.")
	fmt.Fprintln(bw)
	for _, c := range cookies {
		prefix := ""
		if c.HttpOnly {
			prefix = httpOnlyPrefix
		}
		expiry := c.ExpiresAt
		if expiry == types.SessionExpiry {
			expiry = 0
		}
		fmt.Fprintf(bw, "%s.%s\tTRUE\t%s\t%s\t%d\t%s\t%s\n",
			prefix, c.Domain, c.Path, netscapeBool(c.Secure), expiry, c.Name, c.Value)
	}
	return bw.Flush()
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
