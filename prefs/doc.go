// Package prefs reads and writes boolean user preferences stored as cookies.
//
// A Store wraps a Document, the host's cookie jar. The Document is injected so
// the same code runs against an HTTP request, a cookie file on disk, a SQLite
// cookie database or an in-memory Jar in tests. A Store built without a
// Document behaves like a page with no cookie access: reads report the cookie
// as absent and writes are dropped.
//
// Values decode by literal comparison: "true" is true, anything else is false.
package prefs
