package prefs

import "strings"

// ParseCookieString splits a document cookie string ("a=1; b=2") into a
// name to value mapping. Names are matched exactly, so "audio" never picks up
// "exhibit-audio". When a name repeats the first pair wins, as with
// net/http's Request.Cookie. Pairs without "=" are skipped.
func ParseCookieString(s string) map[string]string {
	out := make(map[string]string)
	EachCookie(s, func(name, value string) {
		if _, seen := out[name]; !seen {
			out[name] = value
		}
	})
	return out
}

// EachCookie calls fn for every name=value pair in s, in order, with the same
// leniency as ParseCookieString. Repeated names are all reported.
func EachCookie(s string, fn func(name, value string)) {
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fn(name, strings.TrimSpace(value))
	}
}
