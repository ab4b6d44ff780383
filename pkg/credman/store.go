// Package credman implements the persistent cookie store the API client
// authenticates with. Cookies survive restarts by being written to a
// storage.Storage backend after every change.
package credman

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/artsyapp/artsy/pkg/credman/storage"
	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/artsyapp/artsy/pkg/logger"
)

// DefaultKey is the storage key the cookie list is persisted under.
const DefaultKey = "cookies"

// StoreOpts configures a CookieStore. The zero value is usable.
type StoreOpts struct {
	// Key overrides DefaultKey.
	Key string
	// Logger receives load and persist diagnostics. Defaults to a NopLogger.
	Logger logger.Logger
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

// CookieStore is a durable cookie jar. All methods are safe for concurrent
// use; each mutation is persisted before the method returns.
type CookieStore struct {
	mu      sync.Mutex
	st      storage.Storage
	key     string
	log     logger.Logger
	now     func() time.Time
	cookies []types.Cookie
}

// NewCookieStore creates a store backed by st and reads its persisted state.
// Missing or malformed data yields an empty store.
func NewCookieStore(st storage.Storage, opts *StoreOpts) *CookieStore {
	if opts == nil {
		opts = &StoreOpts{}
	}
	cs := &CookieStore{
		st:  st,
		key: opts.Key,
		log: opts.Logger,
		now: opts.Now,
	}
	if cs.key == "" {
		cs.key = DefaultKey
	}
	if cs.log == nil {
		cs.log = logger.NewNopLogger()
	}
	if cs.now == nil {
		cs.now = time.Now
	}
	cs.cookies = cs.read()
	return cs
}

func (cs *CookieStore) read() []types.Cookie {
	data, err := cs.st.Get(cs.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		cs.log.Warning("credman: failed to read persisted cookies, starting empty: %v", err)
		return nil
	}
	var cookies []types.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		cs.log.Warning("credman: persisted cookies are malformed, starting empty: %v", err)
		return nil
	}
	cs.log.Debug("credman: loaded %d persisted cookies", len(cookies))
	return cookies
}

// persist writes the cache to storage. The caller must hold mu.
func (cs *CookieStore) persist() error {
	cookies := cs.cookies
	if cookies == nil {
		cookies = []types.Cookie{}
	}
	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("credman: encode cookies: %w", err)
	}
	if err := cs.st.Put(cs.key, data); err != nil {
		return fmt.Errorf("credman: persist cookies: %w", err)
	}
	return nil
}

// prune drops expired cookies and reports whether any were removed. The
// caller must hold mu.
func (cs *CookieStore) prune(now time.Time) bool {
	kept := cs.cookies[:0]
	for _, c := range cs.cookies {
		if !c.Expired(now) {
			kept = append(kept, c)
		}
	}
	pruned := len(kept) != len(cs.cookies)
	clear(cs.cookies[len(kept):])
	cs.cookies = kept
	return pruned
}

// Load returns the unexpired cookies applicable to u in insertion order.
// Expired cookies are pruned and the pruning persisted first; a persist
// failure is returned alongside the cookies.
func (cs *CookieStore) Load(u *url.URL) ([]types.Cookie, error) {
	if u == nil {
		return nil, nil
	}
	host := canonicalHost(u)
	https := u.Scheme == "https"

	cs.mu.Lock()
	defer cs.mu.Unlock()

	var err error
	if cs.prune(cs.now()) {
		err = cs.persist()
	}

	var out []types.Cookie
	for _, c := range cs.cookies {
		if !domainMatch(host, c.Domain) || !pathMatch(u.EscapedPath(), c.Path) {
			continue
		}
		if c.Secure && !https {
			continue
		}
		out = append(out, c)
	}
	return out, err
}

// Save merges cookies received in the response to u. Each incoming cookie
// replaces the stored one with the same key; an already expired cookie only
// deletes. Rejected cookies are skipped and reported as errors wrapping
// ErrRejected. The result is persisted once; on failure the in-memory state
// is kept and the error returned.
func (cs *CookieStore) Save(u *url.URL, cookies []types.Cookie) error {
	if u == nil || len(cookies) == 0 {
		return nil
	}
	host := canonicalHost(u)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	var errs []error
	for _, c := range cookies {
		c.Domain = strings.ToLower(strings.TrimPrefix(c.Domain, "."))
		if c.Domain == "" {
			c.Domain = host
		}
		if c.Path == "" || c.Path[0] != '/' {
			c.Path = defaultPath(u.EscapedPath())
		}
		if c.Domain != host && (!domainMatch(host, c.Domain) || isPublicSuffix(c.Domain)) {
			errs = append(errs, fmt.Errorf("%w: %q for domain %q from host %q", ErrRejected, c.Name, c.Domain, host))
			continue
		}
		cs.remove(c.Key(), now)
		if c.Expired(now) {
			continue
		}
		cs.cookies = append(cs.cookies, c)
	}
	if err := cs.persist(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// remove drops the cookie with key k and every expired cookie. The caller
// must hold mu.
func (cs *CookieStore) remove(k types.Key, now time.Time) {
	kept := cs.cookies[:0]
	for _, c := range cs.cookies {
		if c.Key() == k || c.Expired(now) {
			continue
		}
		kept = append(kept, c)
	}
	clear(cs.cookies[len(kept):])
	cs.cookies = kept
}

// Clear removes every cookie and the persisted record.
func (cs *CookieStore) Clear() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.cookies = nil
	if err := cs.st.Delete(cs.key); err != nil {
		return fmt.Errorf("credman: clear cookies: %w", err)
	}
	return nil
}

// All returns a copy of every unexpired cookie regardless of domain.
func (cs *CookieStore) All() []types.Cookie {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	now := cs.now()
	out := make([]types.Cookie, 0, len(cs.cookies))
	for _, c := range cs.cookies {
		if !c.Expired(now) {
			out = append(out, c)
		}
	}
	return out
}
