// Package filejar keeps preference cookies in a Netscape-format cookie file
// (the cookies.txt layout used by curl and browser export tools).
package filejar

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/wozniakbe/exhibit-prefs/prefs"
)

const (
	header         = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// Jar is a prefs.Document backed by a cookie file. Changes stay in memory
// until Save.
type Jar struct {
	*prefs.Jar

	fs     afero.Fs
	path   string
	domain string
	// lines for other hosts (subdomains included) and comments, written back unchanged
	other []string
}

// Load reads the cookies for domain from path. A missing file yields an
// empty jar. Malformed lines are kept verbatim and otherwise ignored.
func Load(fs afero.Fs, path, domain string) (*Jar, error) {
	j := &Jar{
		Jar:    prefs.NewJar(),
		fs:     fs,
		path:   path,
		domain: domain,
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return nil, fmt.Errorf("reading cookie file: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if raw == "" || raw == header {
			continue
		}

		c, ok := parseLine(raw)
		if !ok || !matchesDomain(c.Domain, domain) {
			j.other = append(j.other, raw)
			continue
		}
		j.Add(c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning cookie file: %w", err)
	}

	return j, nil
}

// Save writes the jar back to its file through a temporary file and rename.
func (j *Jar) Save() error {
	var b bytes.Buffer
	b.WriteString(header)
	b.WriteByte('\n')
	for _, line := range j.other {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, c := range j.Cookies() {
		b.WriteString(formatLine(c, j.domain))
		b.WriteByte('\n')
	}

	tmp := j.path + ".tmp"
	if err := afero.WriteFile(j.fs, tmp, b.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing cookie file: %w", err)
	}
	if err := j.fs.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replacing cookie file: %w", err)
	}
	return nil
}

// parseLine decodes one cookie line: domain, subdomain flag, path, secure,
// expiry (unix seconds, 0 for session), name, value.
func parseLine(line string) (*http.Cookie, bool) {
	httpOnly := false
	if strings.HasPrefix(line, httpOnlyPrefix) {
		httpOnly = true
		line = line[len(httpOnlyPrefix):]
	} else if strings.HasPrefix(line, "#") {
		return nil, false
	}

	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return nil, false
	}
	expiry, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, false
	}

	c := &http.Cookie{
		Domain:   fields[0],
		Path:     fields[2],
		Secure:   strings.EqualFold(fields[3], "TRUE"),
		Name:     fields[5],
		Value:    fields[6],
		HttpOnly: httpOnly,
	}
	if expiry > 0 {
		c.Expires = time.Unix(expiry, 0).UTC()
	}
	return c, true
}

func formatLine(c *http.Cookie, domain string) string {
	d := c.Domain
	if d == "" {
		d = domain
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	var expiry int64
	if !c.Expires.IsZero() {
		expiry = c.Expires.Unix()
	}

	prefix := ""
	if c.HttpOnly {
		prefix = httpOnlyPrefix
	}
	return prefix + strings.Join([]string{
		d,
		boolField(strings.HasPrefix(d, ".")),
		path,
		boolField(c.Secure),
		strconv.FormatInt(expiry, 10),
		c.Name,
		c.Value,
	}, "\t")
}

func boolField(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// matchesDomain accepts domain and its dot-prefixed form. Subdomain cookies
// stay in other so a name shared across hosts is not merged.
func matchesDomain(cookieDomain, domain string) bool {
	return cookieDomain == domain || cookieDomain == "."+domain
}
