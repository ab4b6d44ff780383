package credman

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

func canonicalHost(u *url.URL) string {
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}

func isIP(host string) bool {
	return net.ParseIP(host) != nil
}

// domainMatch reports whether a cookie scoped to domain may be sent to host.
func domainMatch(host, domain string) bool {
	if host == domain {
		return true
	}
	if isIP(host) {
		return false
	}
	return strings.HasSuffix(host, "."+domain)
}

// pathMatch implements the path-match rule of RFC 6265 section 5.1.4.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

// defaultPath computes the default-path of a request URI path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// isPublicSuffix reports whether domain is a registry-controlled suffix such
// as "com" or "co.uk" that no site may set cookies on.
func isPublicSuffix(domain string) bool {
	if isIP(domain) {
		return false
	}
	ps, _ := publicsuffix.PublicSuffix(domain)
	return ps == domain
}
