package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// CookieJar implements http.CookieJar for storing upstream cookies in memory.
// The public employee API hands out session cookies which are replayed on later calls.
type CookieJar struct {
	log *slog.Logger
	mu  sync.Mutex
	jar map[string]map[string]*http.Cookie
	now func() time.Time
}

// NewCookieJar initializes an in-memory cookie jar.
func NewCookieJar(log *slog.Logger) *CookieJar {
	return &CookieJar{
		jar: make(map[string]map[string]*http.Cookie),
		log: log,
		mu:  sync.Mutex{},
		now: time.Now,
	}
}

// SetCookies merges cookies for the host of the given URL. A cookie with the same
// name replaces the stored one, an expired cookie removes it.
func (c *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	host := u.Hostname()
	stored, ok := c.jar[host]
	if !ok {
		stored = make(map[string]*http.Cookie, len(cookies))
		c.jar[host] = stored
	}

	for _, cookie := range cookies {
		if c.expired(cookie) {
			delete(stored, cookie.Name)
			continue
		}
		stored[cookie.Name] = cookie
	}

	c.log.Debug("Set cookies", "host", host, "count", len(stored))
}

// Cookies retrieves the non-expired cookies for the host of the given URL.
func (c *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.jar[u.Hostname()]
	cookies := make([]*http.Cookie, 0, len(stored))
	for name, cookie := range stored {
		if c.expired(cookie) {
			delete(stored, name)
			continue
		}
		cookies = append(cookies, cookie)
	}

	return cookies
}

func (c *CookieJar) expired(cookie *http.Cookie) bool {
	if cookie.MaxAge < 0 {
		return true
	}

	return !cookie.Expires.IsZero() && cookie.Expires.Before(c.now())
}
