// Package httpx implements the driven.Transport port over HTTP.
//
// Every request carries the site's disclaimer cookie, is paced by a
// token-bucket limiter and, when enabled, is checked against the target
// host's robots.txt before it is sent.
package httpx
