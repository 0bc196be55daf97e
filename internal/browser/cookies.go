package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// CookieJar is an http.CookieJar whose cookies outlive the process. Every
// cookie the backend sets is recorded in a JSON file and replayed into the
// wrapped jar when the next process opens it, the way a browser profile
// keeps cookies across page loads.
type CookieJar struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	jar     http.CookieJar
	cookies []savedCookie
}

type savedCookie struct {
	URL      string        `json:"url"`
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Path     string        `json:"path,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Expires  *time.Time    `json:"expires,omitempty"`
	Secure   bool          `json:"secure,omitempty"`
	HttpOnly bool          `json:"http_only,omitempty"`
	SameSite http.SameSite `json:"same_site,omitempty"`
}

// CookieFile returns the file name used for the cookies of base's origin,
// e.g. "http_localhost_8000.cookies.json".
func CookieFile(base *url.URL) string {
	return originName(base) + ".cookies.json"
}

// NewCookieJar opens the cookie file at path on fs and loads the cookies that
// have not expired into jar.
func NewCookieJar(fs afero.Fs, path string, jar http.CookieJar) (*CookieJar, error) {
	j := &CookieJar{fs: fs, path: path, jar: jar}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies %s: %w", path, err)
	}
	if len(data) == 0 {
		return j, nil
	}

	var saved []savedCookie
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("cookie file %s is corrupt: %w", path, err)
	}

	now := time.Now()
	for _, sc := range saved {
		if sc.Expires != nil && !sc.Expires.After(now) {
			continue
		}
		u, err := url.Parse(sc.URL)
		if err != nil {
			return nil, fmt.Errorf("cookie file %s is corrupt: %w", path, err)
		}
		jar.SetCookies(u, []*http.Cookie{sc.cookie()})
		j.cookies = append(j.cookies, sc)
	}
	return j, nil
}

// Path returns the backing file path.
func (j *CookieJar) Path() string { return j.path }

// SetCookies implements http.CookieJar. The cookie file is rewritten on
// every call; a failed write is logged and the cookies stay in memory.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		sc := saveCookie(u, c, now)
		j.cookies = removeCookie(j.cookies, sc)
		if sc.Expires != nil && !sc.Expires.After(now) {
			continue
		}
		j.cookies = append(j.cookies, sc)
	}

	if err := j.write(); err != nil {
		slog.Warn("Failed to persist cookies", "path", j.path, "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *CookieJar) write() error {
	cookies := j.cookies
	if cookies == nil {
		cookies = []savedCookie{}
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	return writeFileAtomic(j.fs, j.path, data)
}

// saveCookie records c as set by a response from u. A relative Max-Age is
// turned into an absolute expiry so it survives the process; a negative one
// marks the cookie as deleted.
func saveCookie(u *url.URL, c *http.Cookie, now time.Time) savedCookie {
	sc := savedCookie{
		URL:      (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String(),
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: c.SameSite,
	}
	switch {
	case c.MaxAge < 0:
		sc.Expires = &now
	case c.MaxAge > 0:
		exp := now.Add(time.Duration(c.MaxAge) * time.Second)
		sc.Expires = &exp
	case !c.Expires.IsZero():
		exp := c.Expires
		sc.Expires = &exp
	}
	return sc
}

func (sc savedCookie) cookie() *http.Cookie {
	c := &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Domain:   sc.Domain,
		Secure:   sc.Secure,
		HttpOnly: sc.HttpOnly,
		SameSite: sc.SameSite,
	}
	if sc.Expires != nil {
		c.Expires = *sc.Expires
	}
	return c
}

// removeCookie drops the entry sc replaces: same host, domain, path and name.
func removeCookie(cookies []savedCookie, sc savedCookie) []savedCookie {
	host, path := sc.scope()
	kept := cookies[:0]
	for _, c := range cookies {
		h, p := c.scope()
		if h == host && p == path && c.Domain == sc.Domain && c.Name == sc.Name {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// scope returns the host the cookie was set by and its effective path. A
// cookie without a path attribute defaults to the directory of the request
// path.
func (sc savedCookie) scope() (host, path string) {
	u, err := url.Parse(sc.URL)
	if err != nil {
		return sc.URL, sc.Path
	}
	if strings.HasPrefix(sc.Path, "/") {
		return u.Hostname(), sc.Path
	}
	i := strings.LastIndex(u.Path, "/")
	if i <= 0 {
		return u.Hostname(), "/"
	}
	return u.Hostname(), u.Path[:i]
}
