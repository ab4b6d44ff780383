// Package types defines common data structures used throughout the credman
// package for credential management.
package types

import (
	"net/http"
	"strings"
	"time"
)

// SessionExpiry is the expiry stored for cookies the server sent without
// Expires or Max-Age (9999-12-31T23:59:59Z). Such cookies live until the
// server replaces them or the store is cleared.
const SessionExpiry int64 = 253402300799

// Cookie represents a persisted HTTP cookie. It mirrors the standard
// http.Cookie structure but keeps only the fields the store needs, with the
// expiry flattened to epoch seconds so the persisted record is stable.
type Cookie struct {
	// Name is the cookie name.
	Name string `json:"name"`
	// Value is the cookie value. Never log it.
	Value string `json:"value"`
	// Domain is the lowercase host the cookie belongs to, without a leading dot.
	Domain string `json:"domain"`
	// Path is the cookie path scope.
	Path string `json:"path"`
	// ExpiresAt is the absolute expiry in seconds since the Unix epoch.
	ExpiresAt int64 `json:"expiresAt"`
	// Secure indicates the cookie should only be sent over HTTPS.
	Secure bool `json:"secure"`
	// HttpOnly indicates the cookie is not accessible via client-side scripts.
	HttpOnly bool `json:"httpOnly"`
}

// Key identifies a stored cookie. At most one cookie per Key is kept.
type Key struct {
	Name   string
	Domain string
	Path   string
}

// Key returns the (name, domain, path) identity of the cookie.
func (c Cookie) Key() Key {
	return Key{Name: c.Name, Domain: c.Domain, Path: c.Path}
}

// Expired reports whether the cookie is expired at now.
func (c Cookie) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// FromHTTP converts a response cookie. Max-Age takes precedence over
// Expires; a negative Max-Age yields an already-expired cookie so the store
// treats it as a deletion. Domain is normalized to lowercase without the
// leading dot and may be empty for host-only cookies.
func FromHTTP(hc *http.Cookie, now time.Time) Cookie {
	c := Cookie{
		Name:     hc.Name,
		Value:    hc.Value,
		Domain:   strings.ToLower(strings.TrimPrefix(hc.Domain, ".")),
		Path:     hc.Path,
		Secure:   hc.Secure,
		HttpOnly: hc.HttpOnly,
	}
	switch {
	case hc.MaxAge < 0:
		c.ExpiresAt = now.Unix()
	case hc.MaxAge > 0:
		c.ExpiresAt = now.Unix() + int64(hc.MaxAge)
	case !hc.Expires.IsZero():
		c.ExpiresAt = hc.Expires.Unix()
	default:
		c.ExpiresAt = SessionExpiry
	}
	return c
}

// HTTP converts the cookie into the form sent on requests.
func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  time.Unix(c.ExpiresAt, 0).UTC(),
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}
