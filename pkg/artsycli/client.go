// Package artsycli is the HTTP client for the artsy catalog and auth API.
package artsycli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/artsyapp/artsy/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API.
const DefaultBaseURL = "https://artsy-android-backend.wl.r.appspot.com/"

const (
	DefaultTimeout  = 30 * time.Second
	DefaultRetryMax = 2

	requestIDHeader = "X-Request-Id"
	redacted        = "[redacted]"
	userAgent       = "artsy-cli/1.0"
)

// Opts configures a Client. The zero value is usable.
type Opts struct {
	// Timeout bounds every request including retries. Defaults to DefaultTimeout.
	Timeout time.Duration
	// RetryMax is the number of retries for connection errors and 5xx
	// answers. Negative disables retries.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit caps requests per second. Zero means unlimited.
	RateLimit float64
	// Debug logs request and response bodies at debug level.
	Debug  bool
	Logger logger.Logger
}

// Client talks to the API. Requests on the session client carry the cookies
// of the jar passed to NewClient and store response cookies in it. Login,
// registration and Me go through a jar-less client and hand their cookies
// back in a Grant instead.
type Client struct {
	base    *url.URL
	api     *resty.Client
	auth    *resty.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, jar http.CookieJar, opts *Opts) (*Client, error) {
	if opts == nil {
		opts = &Opts{}
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		base:    base,
		limiter: newLimiter(opts.RateLimit),
		log:     log,
	}
	transport := newRetryTransport(opts)
	c.api = c.newResty(transport, timeout, opts.Debug, false).SetCookieJar(jar)
	// Credentials travel in auth request bodies.
	c.auth = c.newResty(transport, timeout, opts.Debug, true).SetCookieJar(nil)
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: must be an absolute http(s) url", raw)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	return u, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
}

func newRetryTransport(opts *Opts) http.RoundTripper {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	if retryClient.RetryMax < 0 {
		retryClient.RetryMax = 0
	}
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.Logger = nil
	// Hand the last response back instead of an error so 5xx answers are
	// classified like any other status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &retryablehttp.RoundTripper{Client: retryClient}
}

func (c *Client) newResty(transport http.RoundTripper, timeout time.Duration, debug, redactBody bool) *resty.Client {
	rc := resty.New().
		SetTransport(transport).
		SetBaseURL(c.base.String()).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(restyLogger{c.log}).
		SetDebug(debug)
	rc.OnRequestLog(func(rl *resty.RequestLog) error {
		redactHeader(rl.Header, "Cookie")
		if redactBody {
			rl.Body = redacted
		}
		return nil
	})
	rc.OnResponseLog(func(rl *resty.ResponseLog) error {
		redactHeader(rl.Header, "Set-Cookie")
		return nil
	})
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if err := c.limiter.Wait(r.Context()); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		r.SetHeader(requestIDHeader, uuid.NewString())
		return nil
	})
	return rc
}

func redactHeader(h http.Header, key string) {
	if len(h.Values(key)) > 0 {
		h.Set(key, redacted)
	}
}

// resolve returns the absolute URL of an API path.
func (c *Client) resolve(path string) *url.URL {
	return c.base.ResolveReference(&url.URL{Path: path})
}

// BaseURL returns the API root.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// send performs a request and converts transport failures and error
// statuses into errors.
func send(ctx context.Context, rc *resty.Client, method, path string, body any, cookies ...*http.Cookie) (*resty.Response, error) {
	req := rc.R().SetContext(ctx)
	if len(cookies) > 0 {
		req.SetCookies(cookies)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return resp, fmt.Errorf("failed to invoke %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return resp, fmt.Errorf("failed to invoke %s %s: %w", method, path, newAPIError(resp))
	}
	return resp, nil
}

// invoke sends a request and decodes the JSON answer into T. An empty body
// yields ErrEmptyResponse.
func invoke[T any](ctx context.Context, rc *resty.Client, method, path string, body any, cookies ...*http.Cookie) (*T, *resty.Response, error) {
	resp, err := send(ctx, rc, method, path, body, cookies...)
	if err != nil {
		return nil, resp, err
	}
	if len(resp.Body()) == 0 {
		return nil, resp, fmt.Errorf("failed to invoke %s %s: %w", method, path, ErrEmptyResponse)
	}
	var d T
	if err := json.Unmarshal(resp.Body(), &d); err != nil {
		return nil, resp, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return &d, resp, nil
}

// restyLogger routes resty's diagnostics into logger.Logger.
type restyLogger struct {
	l logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error("resty: "+format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warning("resty: "+format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug("resty: "+format, v...) }

var _ resty.Logger = restyLogger{}
