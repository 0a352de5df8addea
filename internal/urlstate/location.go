package urlstate

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Snapshot is the part of a location the loader looks at. Search and Hash
// keep their leading "?" and "#" when non-empty, like window.location.
type Snapshot struct {
	Pathname string
	Search   string
	Hash     string
}

// Location is the capability the loader needs from its host: read the
// current location and replace the current history entry without
// navigating.
type Location interface {
	Read() Snapshot
	Replace(url string)
}

// Parse splits rawURL into a Snapshot. The fragment is kept verbatim, so a
// fragment with bad escapes still reaches the loader.
func Parse(rawURL string) (Snapshot, error) {
	u, frag, err := parseRaw(rawURL)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(u, frag), nil
}

// parseRaw cuts the fragment off before parsing the rest of rawURL.
func parseRaw(rawURL string) (*url.URL, string, error) {
	rest, frag, _ := strings.Cut(rawURL, "#")
	u, err := url.Parse(rest)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse url: %w", err)
	}
	return u, frag, nil
}

// snapshotOf reports an empty path as "/", like window.location.pathname.
// Migration replaces with pathname+"#"+fragment, and only a non-empty path
// drops the old query when resolved.
func snapshotOf(u *url.URL, frag string) Snapshot {
	s := Snapshot{Pathname: u.EscapedPath()}
	if s.Pathname == "" {
		s.Pathname = "/"
	}
	if u.RawQuery != "" {
		s.Search = "?" + u.RawQuery
	}
	if frag != "" {
		s.Hash = "#" + frag
	}
	return s
}

// URLLocation is a Location held in memory. Replace resolves the new URL
// against the current one, the way history.replaceState does.
type URLLocation struct {
	mu sync.Mutex
	u  *url.URL
	// frag is the raw fragment; u never carries one.
	frag     string
	replaced int
}

// NewURLLocation returns a location positioned at rawURL.
func NewURLLocation(rawURL string) (*URLLocation, error) {
	u, frag, err := parseRaw(rawURL)
	if err != nil {
		return nil, err
	}
	return &URLLocation{u: u, frag: frag}, nil
}

// Read implements Location.
func (l *URLLocation) Read() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshotOf(l.u, l.frag)
}

// Replace implements Location. An unparseable reference is ignored.
func (l *URLLocation) Replace(ref string) {
	r, frag, err := parseRaw(ref)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.u = l.u.ResolveReference(r)
	l.frag = frag
	l.replaced++
}

// String returns the current URL.
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.frag == "" {
		return l.u.String()
	}
	return l.u.String() + "#" + l.frag
}

// Replaced reports how many times Replace was called.
func (l *URLLocation) Replaced() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}
