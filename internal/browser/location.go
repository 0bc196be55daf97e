package browser

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
)

// Location tracks the current document address and implements navigation
// by path.
type Location struct {
	mu      sync.Mutex
	base    *url.URL
	href    string
	history []string
	out     io.Writer
}

// NewLocation starts at base. When out is non-nil every navigation is
// echoed to it.
func NewLocation(base *url.URL, out io.Writer) *Location {
	return &Location{base: base, href: base.String(), out: out}
}

// NavigateTo resolves path against the current origin and makes it the
// current location.
func (l *Location) NavigateTo(path string) {
	ref, err := url.Parse(path)
	if err != nil {
		slog.Warn("Ignoring navigation to invalid path", "path", path, "error", err)
		return
	}
	target := l.base.ResolveReference(ref).String()

	l.mu.Lock()
	l.history = append(l.history, l.href)
	l.href = target
	l.mu.Unlock()

	slog.Info("Navigated", "href", target)
	if l.out != nil {
		fmt.Fprintf(l.out, "-> %s\n", target)
	}
}

// Href returns the current location.
func (l *Location) Href() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.href
}

// History returns the locations navigated away from, oldest first.
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}
