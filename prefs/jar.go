package prefs

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Jar is an in-memory Document with browser cookie semantics. Cookies are
// keyed by name only; domain and path are kept but not used for matching.
type Jar struct {
	mu      sync.Mutex
	now     func() time.Time
	entries []*http.Cookie
}

// JarOption configures a Jar.
type JarOption func(*Jar)

// JarClock sets the time source used to decide expiry.
func JarClock(now func() time.Time) JarOption {
	return func(j *Jar) {
		j.now = now
	}
}

// NewJar returns an empty Jar.
func NewJar(opts ...JarOption) *Jar {
	j := &Jar{now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Cookie returns the unexpired cookies in insertion order.
func (j *Jar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.evictLocked()
	pairs := make([]string, 0, len(j.entries))
	for _, c := range j.entries {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// SetCookie parses line as a Set-Cookie header value and applies it. Lines
// that do not parse are ignored.
func (j *Jar) SetCookie(line string) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return
	}
	j.Add(c)
}

// Add stores a copy of c, replacing any cookie with the same name. An
// expired c removes the existing cookie instead.
func (j *Jar) Add(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	entry := *c
	if entry.MaxAge > 0 {
		entry.Expires = now.Add(time.Duration(entry.MaxAge) * time.Second).UTC()
		entry.MaxAge = 0
	}

	idx := j.indexLocked(entry.Name)
	if expired(&entry, now) {
		if idx >= 0 {
			j.entries = append(j.entries[:idx], j.entries[idx+1:]...)
		}
		return
	}
	if idx >= 0 {
		j.entries[idx] = &entry
		return
	}
	j.entries = append(j.entries, &entry)
}

// Lookup returns a copy of the unexpired cookie called name.
func (j *Jar) Lookup(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.evictLocked()
	idx := j.indexLocked(name)
	if idx < 0 {
		return nil, false
	}
	c := *j.entries[idx]
	return &c, true
}

// Cookies returns copies of the unexpired cookies in insertion order.
func (j *Jar) Cookies() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.evictLocked()
	out := make([]*http.Cookie, 0, len(j.entries))
	for _, c := range j.entries {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

func (j *Jar) indexLocked(name string) int {
	for i, c := range j.entries {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (j *Jar) evictLocked() {
	now := j.now()
	live := j.entries[:0]
	for _, c := range j.entries {
		if !expired(c, now) {
			live = append(live, c)
		}
	}
	for i := len(live); i < len(j.entries); i++ {
		j.entries[i] = nil
	}
	j.entries = live
}

func expired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !c.Expires.After(now)
}
