package httpx

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

// disclaimerCookie acknowledges the site's terms of use.
var disclaimerCookie = &http.Cookie{Name: "disclaimer", Value: "1"}

// Options configures a Client.
type Options struct {
	// BaseURL is the site locators are resolved against.
	BaseURL string

	// Timeout bounds each request including its body. Zero means none.
	Timeout time.Duration

	// Rate is the sustained request rate per second. Zero disables pacing.
	Rate float64

	// UserAgent is sent with every request when set.
	UserAgent string

	// RespectRobots enables robots.txt checks.
	RespectRobots bool

	// HTTPClient overrides the underlying client. Its Timeout and Jar are
	// replaced.
	HTTPClient *http.Client
}

// Client is the HTTP transport.
type Client struct {
	base      *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	robots    *RobotsChecker
}

// New creates a new HTTP transport.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", domain.ErrInvalidInput, opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	hc.Timeout = opts.Timeout
	hc.Jar = jar

	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}

	c := &Client{
		base:      base,
		http:      hc,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: opts.UserAgent,
	}
	if opts.RespectRobots {
		c.robots = NewRobotsChecker(hc, opts.UserAgent)
	}
	return c, nil
}

// Resolve returns the absolute URL of locator.
func (c *Client) Resolve(locator string) (*url.URL, error) {
	ref, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: locator %q: %v", domain.ErrInvalidInput, locator, err)
	}
	return c.base.ResolveReference(ref), nil
}

// Head fetches resource metadata without transferring the body.
func (c *Client) Head(ctx context.Context, locator string) (*domain.ResourceMetadata, error) {
	resp, err := c.do(ctx, http.MethodHead, "head", locator)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return metadata(resp), nil
}

// Get opens a streaming body for the resource.
func (c *Client) Get(ctx context.Context, locator string) (io.ReadCloser, *domain.ResourceMetadata, error) {
	resp, err := c.do(ctx, http.MethodGet, "get", locator)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, metadata(resp), nil
}

// Page fetches a whole HTML page. Used by descriptor sources.
func (c *Client) Page(ctx context.Context, locator string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, "list", locator)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// do sends one request. Any non-2xx response is a *domain.TransferError.
func (c *Client) do(ctx context.Context, method, op, locator string) (*http.Response, error) {
	u, err := c.Resolve(locator)
	if err != nil {
		return nil, &domain.TransferError{Op: op, Locator: locator, Err: err}
	}

	if c.robots != nil {
		allowed, delay, err := c.robots.CanFetch(ctx, u)
		if err != nil {
			return nil, &domain.TransferError{Op: op, Locator: locator, Err: err}
		}
		if !allowed {
			return nil, &domain.TransferError{Op: op, Locator: locator, Err: domain.ErrDisallowed}
		}
		c.slowTo(delay)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.TransferError{Op: op, Locator: locator, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, &domain.TransferError{Op: op, Locator: locator, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.AddCookie(disclaimerCookie)

	logger.Debug("%s %s", method, u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransferError{Op: op, Locator: locator, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &domain.TransferError{Op: op, Locator: locator, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// slowTo lowers the request rate to honour a crawl delay.
func (c *Client) slowTo(delay time.Duration) {
	if delay <= 0 {
		return
	}
	if limit := rate.Every(delay); limit < c.limiter.Limit() {
		logger.Debug("Honouring robots.txt crawl delay of %s", delay)
		c.limiter.SetLimit(limit)
	}
}

// metadata extracts content type and last-modified from response headers.
func metadata(resp *http.Response) *domain.ResourceMetadata {
	meta := &domain.ResourceMetadata{}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			meta.ContentType = mediaType
		} else {
			meta.ContentType = strings.TrimSpace(ct)
		}
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		t, err := http.ParseTime(lm)
		if err != nil {
			logger.Debug("Ignoring malformed Last-Modified %q: %v", lm, err)
		} else {
			meta.LastModified = t.UTC()
		}
	}
	return meta
}
