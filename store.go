package main

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/wozniakbe/exhibit-prefs/prefs"
	"github.com/wozniakbe/exhibit-prefs/prefs/filejar"
	"github.com/wozniakbe/exhibit-prefs/prefs/sqlitejar"
)

// JarStore is a local cookie jar the CLI reads and writes.
type JarStore interface {
	prefs.Document
	Save() error
	Close() error
}

// fileStore adds a no-op Close to a cookie file jar.
type fileStore struct {
	*filejar.Jar
}

func (fileStore) Close() error { return nil }

// OpenJar opens the jar named by cfg. Netscape jars are read through fs.
func OpenJar(fs afero.Fs, cfg Config) (JarStore, error) {
	switch cfg.JarFormat {
	case JarFormatNetscape:
		jar, err := filejar.Load(fs, cfg.JarPath, cfg.JarDomain)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", cfg.JarPath, err)
		}
		return fileStore{jar}, nil
	case JarFormatSQLite:
		jar, err := sqlitejar.Open(cfg.JarPath, cfg.JarDomain)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", cfg.JarPath, err)
		}
		return jar, nil
	default:
		return nil, fmt.Errorf("unknown jar format %q", cfg.JarFormat)
	}
}
