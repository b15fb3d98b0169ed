package prefs

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Document is the cookie jar a Store reads and writes.
type Document interface {
	// Cookie returns the current cookies as "name=value" pairs joined by "; ".
	Cookie() string
	// SetCookie applies a single Set-Cookie style line such as
	// "name=value; expires=Tue, 19 Oct 2027 10:00:00 GMT; path=/".
	SetCookie(line string)
}

// Store exposes preference get/set over a Document.
type Store struct {
	doc     Document
	now     func() time.Time
	ttlDays int
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to compute cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTTLDays sets the lifetime used by SetCookie and SetPreference.
// Values below one are ignored.
func WithTTLDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.ttlDays = days
		}
	}
}

// WithLogger sets a logger for dropped writes. Nothing is logged above debug.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns a Store over doc. A nil doc gives a Store with no cookie access.
func New(doc Document, opts ...Option) *Store {
	s := &Store{
		doc:     doc,
		now:     time.Now,
		ttlDays: DefaultTTLDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCookie returns the value of the cookie called name. The second result is
// false when there is no document or no cookie with exactly that name.
func (s *Store) GetCookie(name string) (string, bool) {
	if s.doc == nil {
		return "", false
	}
	value, ok := ParseCookieString(s.doc.Cookie())[name]
	return value, ok
}

// SetCookie stores value under name for the store's TTL (DefaultTTLDays
// unless WithTTLDays says otherwise).
func (s *Store) SetCookie(name, value string) {
	s.SetCookieDays(name, value, s.ttlDays)
}

// SetCookieDays stores value under name for the given number of days. Zero or
// negative days give an expiry that is not in the future, which removes the
// cookie.
func (s *Store) SetCookieDays(name, value string, days int) {
	if s.doc == nil {
		if s.logger != nil {
			s.logger.Debug("no cookie document, write dropped", "name", name)
		}
		return
	}
	s.doc.SetCookie(s.cookieLine(name, value, days))
}

// maxExpiry is the latest date http.TimeFormat can represent.
var maxExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// maxDays keeps AddDate well inside the range it can normalise.
const maxDays = 4_000_000

func (s *Store) cookieLine(name, value string, days int) string {
	if days < -maxDays {
		days = -1
	}
	var expires time.Time
	if days > maxDays {
		expires = maxExpiry
	} else {
		expires = s.now().UTC().AddDate(0, 0, days)
		if expires.After(maxExpiry) {
			expires = maxExpiry
		}
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteString("; expires=")
	b.WriteString(expires.Format(http.TimeFormat))
	b.WriteString("; path=/")
	return b.String()
}

// GetPreference reports the preference called name, defaulting to true when
// the cookie is absent.
func (s *Store) GetPreference(name string) bool {
	return s.GetPreferenceOr(name, "true")
}

// GetPreferenceOr reports the preference called name. When the cookie is
// absent the result is defaultValue == "true".
func (s *Store) GetPreferenceOr(name, defaultValue string) bool {
	value, ok := s.GetCookie(name)
	if !ok {
		return defaultValue == "true"
	}
	return value == "true"
}

// SetPreference stores value as "true" or "false" for the store's TTL.
func (s *Store) SetPreference(name string, value bool) {
	s.SetCookie(name, formatBool(value))
}

// DeletePreference expires the cookie called name.
func (s *Store) DeletePreference(name string) {
	s.SetCookieDays(name, "", -1)
}

// Snapshot returns the known preferences with the default applied to any
// that are unset.
func (s *Store) Snapshot() map[string]bool {
	keys := Keys()
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = s.GetPreference(k)
	}
	return out
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
