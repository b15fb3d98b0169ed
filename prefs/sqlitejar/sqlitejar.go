// Package sqlitejar keeps preference cookies in a SQLite database shaped like
// Firefox's cookies.sqlite (table moz_cookies).
package sqlitejar

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wozniakbe/exhibit-prefs/prefs"
)

const schema = `
CREATE TABLE IF NOT EXISTS moz_cookies (
    id INTEGER PRIMARY KEY,
    name TEXT,
    value TEXT,
    host TEXT,
    path TEXT,
    expiry INTEGER,
    isSecure INTEGER,
    isHttpOnly INTEGER
)`

// Jar is a prefs.Document backed by a cookies database. Writes are buffered
// until Save. Not safe for concurrent use.
type Jar struct {
	*prefs.Jar

	db      *sql.DB
	host    string
	touched map[string]struct{}
}

// Open opens or creates the database at path and loads the unexpired cookies
// for host and .host.
func Open(path, host string) (*Jar, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cookie database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating moz_cookies: %w", err)
	}

	j := &Jar{
		Jar:     prefs.NewJar(),
		db:      db,
		host:    host,
		touched: make(map[string]struct{}),
	}
	if err := j.load(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Jar) load() error {
	rows, err := j.db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE (host = ? OR host = ?)
          AND (expiry = 0 OR expiry > ?)
        ORDER BY id ASC
    `, j.host, "."+j.host, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("querying moz_cookies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly); err != nil {
			return fmt.Errorf("scanning moz_cookies row: %w", err)
		}
		c := &http.Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		}
		if expiry > 0 {
			c.Expires = time.Unix(expiry, 0).UTC()
		}
		j.Add(c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating moz_cookies rows: %w", err)
	}
	return nil
}

// SetCookie implements prefs.Document and marks the cookie for Save.
func (j *Jar) SetCookie(line string) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return
	}
	j.touched[c.Name] = struct{}{}
	j.Add(c)
}

// Save writes every cookie changed since Open or the last Save in a single
// transaction. Removed cookies are deleted.
func (j *Jar) Save() error {
	if len(j.touched) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for name := range j.touched {
		if _, err := tx.Exec(
			`DELETE FROM moz_cookies WHERE name = ? AND (host = ? OR host = ?)`,
			name, j.host, "."+j.host,
		); err != nil {
			return fmt.Errorf("deleting %s: %w", name, err)
		}

		c, ok := j.Lookup(name)
		if !ok {
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.Value, hostOf(c, j.host), pathOf(c), expiryOf(c), boolInt(c.Secure), boolInt(c.HttpOnly),
		); err != nil {
			return fmt.Errorf("inserting %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cookies: %w", err)
	}
	clear(j.touched)
	return nil
}

// Close closes the database. Unsaved changes are lost.
func (j *Jar) Close() error {
	return j.db.Close()
}

func hostOf(c *http.Cookie, fallback string) string {
	if c.Domain != "" {
		return c.Domain
	}
	return fallback
}

func pathOf(c *http.Cookie) string {
	if c.Path != "" {
		return c.Path
	}
	return "/"
}

func expiryOf(c *http.Cookie) int64 {
	if c.Expires.IsZero() {
		return 0
	}
	return c.Expires.Unix()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
