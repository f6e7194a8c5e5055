package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"

	"github.com/custodia-labs/aipsync/internal/logger"
)

// maxRobotsSize caps the robots.txt body read.
const maxRobotsSize = 1 << 20

// maxCrawlDelay caps the crawl delay honoured from robots.txt.
const maxCrawlDelay = 10 * time.Second

// RobotsChecker handles robots.txt fetching and compliance checking.
type RobotsChecker struct {
	cache     *cache.Cache
	userAgent string
	client    *http.Client
}

// NewRobotsChecker creates a robots.txt checker that fetches with client.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		cache:     cache.New(24*time.Hour, time.Hour),
		userAgent: userAgent,
		client:    client,
	}
}

// CanFetch reports whether u may be fetched and the crawl delay requested
// for this agent. An unreachable robots.txt allows everything.
func (rc *RobotsChecker) CanFetch(ctx context.Context, u *url.URL) (bool, time.Duration, error) {
	if u.Scheme == "" || u.Host == "" {
		return false, 0, fmt.Errorf("robots: URL %q is not absolute", u)
	}
	origin := u.Scheme + "://" + u.Host

	data, err := rc.load(ctx, origin)
	if err != nil {
		return false, 0, err
	}
	if data == nil {
		return true, 0, nil
	}

	// TestAgent honours the allow-all and disallow-all status results.
	if !data.TestAgent(u.EscapedPath(), rc.userAgent) {
		return false, 0, nil
	}
	return true, crawlDelay(data.FindGroup(rc.userAgent)), nil
}

// load returns the parsed robots.txt for origin, or nil when it could not be fetched.
func (rc *RobotsChecker) load(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	if cached, found := rc.cache.Get(origin); found {
		data, _ := cached.(*robotstxt.RobotsData)
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("robots: create request: %w", err)
	}
	if rc.userAgent != "" {
		req.Header.Set("User-Agent", rc.userAgent)
	}

	resp, err := rc.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("robots.txt for %s unavailable: %v", origin, err)
		rc.cache.Set(origin, (*robotstxt.RobotsData)(nil), cache.DefaultExpiration)
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		logger.Debug("robots.txt for %s unreadable: %v", origin, err)
		return nil, nil
	}

	// 4xx allows everything and 5xx disallows everything.
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logger.Debug("robots.txt for %s unparseable: %v", origin, err)
		return nil, nil
	}

	rc.cache.Set(origin, data, cache.DefaultExpiration)
	return data, nil
}

// crawlDelay returns the group's crawl delay, capped.
func crawlDelay(group *robotstxt.Group) time.Duration {
	if group == nil || group.CrawlDelay <= 0 {
		return 0
	}
	if group.CrawlDelay > maxCrawlDelay {
		return maxCrawlDelay
	}
	return group.CrawlDelay
}
