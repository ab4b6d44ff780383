package credman

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/artsyapp/artsy/pkg/credman/types"
)

// SetCookies implements http.CookieJar. Errors are logged, not returned.
func (cs *CookieStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	now := cs.now()
	in := make([]types.Cookie, 0, len(cookies))
	for _, hc := range cookies {
		in = append(in, types.FromHTTP(hc, now))
	}
	if err := cs.Save(u, in); err != nil {
		if errors.Is(err, ErrRejected) {
			cs.log.Warning("credman: %v", err)
		} else {
			cs.log.Error("credman: %v", err)
		}
	}
}

// Cookies implements http.CookieJar.
func (cs *CookieStore) Cookies(u *url.URL) []*http.Cookie {
	cookies, err := cs.Load(u)
	if err != nil {
		cs.log.Error("credman: %v", err)
	}
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

var _ http.CookieJar = (*CookieStore)(nil)
