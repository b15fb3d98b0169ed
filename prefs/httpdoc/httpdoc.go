// Package httpdoc adapts an HTTP request/response pair to a prefs.Document.
//
// Reads see the cookies the client sent plus anything written earlier in the
// same request. Writes are echoed to the response as Set-Cookie headers.
package httpdoc

import (
	"net/http"

	"github.com/wozniakbe/exhibit-prefs/prefs"
)

// Document is a prefs.Document bound to one request.
type Document struct {
	w        http.ResponseWriter
	jar      *prefs.Jar
	secure   bool
	sameSite http.SameSite
}

// Option configures a Document.
type Option func(*Document)

// WithSecure marks emitted cookies Secure.
func WithSecure(secure bool) Option {
	return func(d *Document) {
		d.secure = secure
	}
}

// WithSameSite sets the SameSite attribute on emitted cookies.
func WithSameSite(s http.SameSite) Option {
	return func(d *Document) {
		d.sameSite = s
	}
}

// New returns a Document seeded from the Cookie headers on r, parsed as
// leniently as a browser's document cookie string. Cookies it writes go to w.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *Document {
	d := &Document{
		w:   w,
		jar: prefs.NewJar(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, line := range r.Header.Values("Cookie") {
		prefs.EachCookie(line, func(name, value string) {
			if _, seen := d.jar.Lookup(name); !seen {
				d.jar.Add(&http.Cookie{Name: name, Value: value})
			}
		})
	}
	return d
}

// Cookie implements prefs.Document.
func (d *Document) Cookie() string {
	return d.jar.Cookie()
}

// SetCookie implements prefs.Document. Lines that do not parse are dropped.
func (d *Document) SetCookie(line string) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return
	}
	c.Secure = c.Secure || d.secure
	if d.sameSite != 0 {
		c.SameSite = d.sameSite
	}

	d.jar.Add(c)
	http.SetCookie(d.w, c)
}
