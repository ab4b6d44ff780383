// Package session owns the authentication state of the process. The
// Coordinator reconciles persisted cookies, network calls and the state
// observers see, so that cookies and state always change together.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/artsyapp/artsy/pkg/artsycli"
	"github.com/artsyapp/artsy/pkg/broadcast"
	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/artsyapp/artsy/pkg/logger"
)

// User-facing outcome messages.
const (
	MsgLoggedIn       = "Logged in successfully"
	MsgRegistered     = "Registered successfully"
	MsgLoggedOut      = "Logged out successfully"
	MsgDeleted        = "Deleted user successfully"
	MsgBadCredentials = "Username or password is incorrect"
	MsgEmailExists    = "Email already exists"
	MsgNetwork        = "Network error, please try again"
	MsgSuperseded     = "Signed out before the request completed"
)

// API is the remote auth service.
type API interface {
	Endpoint() *url.URL
	Me(ctx context.Context, cookies []types.Cookie) (*artsycli.Grant, error)
	Login(ctx context.Context, email, password string) (*artsycli.Grant, error)
	Register(ctx context.Context, username, email, password string) (*artsycli.Grant, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// CookieStore is the persistent cookie jar the API authenticates with.
type CookieStore interface {
	Load(u *url.URL) ([]types.Cookie, error)
	Save(u *url.URL, cookies []types.Cookie) error
	Clear() error
}

// Outcome is the result of a user-initiated operation.
type Outcome struct {
	Success bool
	Message string
}

// Opts configures a Coordinator. The zero value is usable.
type Opts struct {
	Logger  logger.Logger
	Metrics *Metrics
}

// Coordinator serializes session transitions. Network calls never run under
// its lock.
//
// Logout and DeleteAccount start a new epoch before their remote call. A
// Login, Register or Restore that finishes in a later epoch than it started
// in is discarded without touching cookies or state, so a sign-out always
// wins over sign-ins that were in flight when it was requested.
type Coordinator struct {
	api   API
	store CookieStore
	log   logger.Logger
	m     *Metrics

	// restoreMu makes concurrent Restore calls share one network check.
	restoreMu sync.Mutex

	mu     sync.Mutex
	state  State
	epoch  uint64
	states *broadcast.Broadcaster[State]
}

// NewCoordinator creates a coordinator in the Restoring state.
func NewCoordinator(api API, store CookieStore, opts *Opts) *Coordinator {
	if opts == nil {
		opts = &Opts{}
	}
	c := &Coordinator{
		api:    api,
		store:  store,
		log:    opts.Logger,
		m:      opts.Metrics,
		state:  restoring,
		states: broadcast.New(restoring),
	}
	if c.log == nil {
		c.log = logger.NewNopLogger()
	}
	if c.m == nil {
		c.m = NewMetrics(nil)
	}
	c.m.observe(c.state)
	return c
}

// State returns the current session snapshot.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a subscription that immediately yields the current
// state and then every later one.
func (c *Coordinator) Subscribe(ctx context.Context) *broadcast.Subscription[State] {
	return c.states.Subscribe(ctx)
}

// Close ends all subscriptions.
func (c *Coordinator) Close() {
	c.states.Close()
}

// set replaces the state and notifies subscribers. The caller must hold mu.
func (c *Coordinator) set(s State) {
	c.state = s
	c.states.Publish(s)
	c.m.observe(s)
}

func (c *Coordinator) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Restore checks persisted cookies against the server once. Without cookies
// for the API no request is made. Any failure leaves the session
// Unauthenticated. Calls after the first return the current status.
func (c *Coordinator) Restore(ctx context.Context) bool {
	c.restoreMu.Lock()
	defer c.restoreMu.Unlock()

	c.mu.Lock()
	if c.state.Status != StatusRestoring {
		ok := c.state.Authenticated()
		c.mu.Unlock()
		return ok
	}
	epoch := c.epoch
	c.mu.Unlock()

	defer c.timed(opRestore)()
	next, grant := c.check(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.state.Status != StatusRestoring {
		c.log.Info("session: discarding restore result, session changed meanwhile")
		c.m.record(opRestore, resultDiscarded)
		return c.state.Authenticated()
	}
	if grant != nil && len(grant.Cookies) > 0 {
		if err := c.store.Save(grant.URL, grant.Cookies); err != nil {
			c.log.Warning("session: restore: %v", err)
		}
	}
	c.set(next)
	if next.Authenticated() {
		c.m.record(opRestore, resultSuccess)
	} else {
		c.m.record(opRestore, resultFailure)
	}
	return next.Authenticated()
}

// check determines the restored state without holding mu. Cookies the
// server refreshed come back in the grant for the caller to commit.
func (c *Coordinator) check(ctx context.Context) (State, *artsycli.Grant) {
	cookies, err := c.store.Load(c.api.Endpoint())
	if err != nil {
		c.log.Warning("session: %v", err)
	}
	if len(cookies) == 0 {
		c.log.Debug("session: no stored cookies, skipping restore")
		return unauthenticated, nil
	}
	grant, err := c.api.Me(ctx, cookies)
	if err != nil {
		c.log.Info("session: restore failed: %v", err)
		return unauthenticated, nil
	}
	c.log.Info("session: restored session for %s", grant.User.Username)
	return authenticated(grant.User), grant
}

// Login signs in with email and password. On success the session cookies
// are stored and the state becomes Authenticated; on failure nothing
// changes.
func (c *Coordinator) Login(ctx context.Context, email, password string) Outcome {
	defer c.timed(opLogin)()
	epoch := c.currentEpoch()
	grant, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.log.Info("session: login failed: %v", err)
		c.m.record(opLogin, resultFailure)
		return Outcome{Message: failureMessage(err, MsgBadCredentials)}
	}
	return c.commit(epoch, opLogin, grant, MsgLoggedIn)
}

// Register creates an account and signs in with it, like Login.
func (c *Coordinator) Register(ctx context.Context, username, email, password string) Outcome {
	defer c.timed(opRegister)()
	epoch := c.currentEpoch()
	grant, err := c.api.Register(ctx, username, email, password)
	if err != nil {
		c.log.Info("session: register failed: %v", err)
		c.m.record(opRegister, resultFailure)
		return Outcome{Message: failureMessage(err, MsgEmailExists)}
	}
	return c.commit(epoch, opRegister, grant, MsgRegistered)
}

// commit stores the granted cookies and authenticates, unless a sign-out
// started after the grant was requested.
func (c *Coordinator) commit(epoch uint64, op string, grant *artsycli.Grant, msg string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.log.Info("session: discarding %s, signed out while it was in flight", op)
		c.m.record(op, resultDiscarded)
		return Outcome{Message: MsgSuperseded}
	}
	if err := c.store.Save(grant.URL, grant.Cookies); err != nil {
		// The in-memory cookies stay authoritative for this process.
		c.log.Warning("session: %s: %v", op, err)
	}
	c.set(authenticated(grant.User))
	c.m.record(op, resultSuccess)
	return Outcome{Success: true, Message: msg}
}

// Logout ends the session. The server is told on a best-effort basis; the
// local cookies are cleared and the state becomes Unauthenticated even if
// that call fails.
func (c *Coordinator) Logout(ctx context.Context) Outcome {
	defer c.timed(opLogout)()
	c.signOut(ctx, opLogout, c.api.Logout)
	return Outcome{Success: true, Message: MsgLoggedOut}
}

// DeleteAccount deletes the account on a best-effort basis and signs out
// locally, like Logout.
func (c *Coordinator) DeleteAccount(ctx context.Context) Outcome {
	defer c.timed(opDeleteAccount)()
	c.signOut(ctx, opDeleteAccount, c.api.DeleteAccount)
	return Outcome{Success: true, Message: MsgDeleted}
}

func (c *Coordinator) signOut(ctx context.Context, op string, remote func(context.Context) error) {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()

	c.bestEffort(ctx, op, remote)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Clear(); err != nil {
		c.log.Error("session: %s: %v", op, err)
	}
	c.set(unauthenticated)
	c.m.record(op, resultSuccess)
}

// bestEffort runs a remote call whose failure must not stop the local
// effect that follows it. The error is logged and dropped.
func (c *Coordinator) bestEffort(ctx context.Context, op string, call func(context.Context) error) {
	if err := call(ctx); err != nil {
		c.log.Warning("session: %s request failed, continuing locally: %v", op, err)
	}
}

func (c *Coordinator) timed(op string) func() {
	start := time.Now()
	return func() {
		c.m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// failureMessage maps an API error to the message shown to the user.
// Refusals by the server get the operation's rejection text.
func failureMessage(err error, rejected string) string {
	if artsycli.IsRejected(err) {
		return rejected
	}
	return MsgNetwork
}
