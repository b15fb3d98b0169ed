package prefs

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestStore() (*Store, *Jar) {
	jar := NewJar(JarClock(fixedClock))
	return New(jar, WithClock(fixedClock)), jar
}

// recordingDoc captures the lines written to it.
type recordingDoc struct {
	cookie string
	lines  []string
}

func (d *recordingDoc) Cookie() string        { return d.cookie }
func (d *recordingDoc) SetCookie(line string) { d.lines = append(d.lines, line) }

func TestSetPreferenceRoundTrip(t *testing.T) {
	for _, key := range append(Keys(), "custom-key") {
		for _, want := range []bool{true, false} {
			s, _ := newTestStore()
			s.SetPreference(key, want)
			if got := s.GetPreference(key); got != want {
				t.Fatalf("%s: expected %v, got %v", key, want, got)
			}
		}
	}
}

func TestGetPreference_Default(t *testing.T) {
	s, _ := newTestStore()

	if !s.GetPreference("nonexistent-key") {
		t.Fatal("expected true for unset preference")
	}
	if s.GetPreferenceOr("nonexistent-key", "false") {
		t.Fatal("expected false with default \"false\"")
	}
	if s.GetPreferenceOr("nonexistent-key", "yes") {
		t.Fatal("expected false for a default other than \"true\"")
	}
}

func TestGetPreference_NonTrueValueIsFalse(t *testing.T) {
	s, _ := newTestStore()
	s.SetCookie(KeyAnimations, "TRUE")

	if s.GetPreference(KeyAnimations) {
		t.Fatal("expected false for \"TRUE\"")
	}
}

func TestSetCookieRoundTrip(t *testing.T) {
	s, _ := newTestStore()
	s.SetCookie("k", "v")

	v, ok := s.GetCookie("k")
	if !ok || v != "v" {
		t.Fatalf("expected k=v, got %q found=%v", v, ok)
	}
}

func TestAudioScenario(t *testing.T) {
	s, jar := newTestStore()
	s.SetPreference(KeyAudio, false)

	if !strings.Contains(jar.Cookie(), "exhibit-audio-enabled=false") {
		t.Fatalf("cookie string missing audio pair: %q", jar.Cookie())
	}
	if s.GetPreference(KeyAudio) {
		t.Fatal("expected audio preference to be false")
	}
}

func TestNoDocument(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(nil, WithLogger(logger))

	s.SetCookie("k", "v")
	s.SetPreference(KeyAudio, false)

	if _, ok := s.GetCookie("k"); ok {
		t.Fatal("expected absent cookie without a document")
	}
	if !s.GetPreference(KeyAudio) {
		t.Fatal("expected default true without a document")
	}
	if !strings.Contains(buf.String(), "write dropped") {
		t.Fatalf("expected dropped write to be logged, got %q", buf.String())
	}
}

func TestSetCookie_LineFormat(t *testing.T) {
	doc := &recordingDoc{}
	s := New(doc, WithClock(fixedClock))

	s.SetCookie("k", "v")
	s.SetCookieDays("short", "x", 1)
	s.SetCookie("empty", "")

	want := []string{
		"k=v; expires=Tue, 19 Oct 2027 12:00:00 GMT; path=/",
		"short=x; expires=Tue, 20 Oct 2026 12:00:00 GMT; path=/",
		"empty=; expires=Tue, 19 Oct 2027 12:00:00 GMT; path=/",
	}
	if len(doc.lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), doc.lines)
	}
	for i := range want {
		if doc.lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], doc.lines[i])
		}
	}
}

func TestGetCookie_ExactMatch(t *testing.T) {
	doc := &recordingDoc{cookie: "my-exhibit-audio-enabled=true; exhibit-audio-enabled-old=true"}
	s := New(doc)

	if _, ok := s.GetCookie(KeyAudio); ok {
		t.Fatal("expected no match for a name that only appears as a substring")
	}
	if s.GetPreferenceOr(KeyAudio, "false") {
		t.Fatal("expected default to apply")
	}
}

func TestGetCookie_FirstPairWins(t *testing.T) {
	doc := &recordingDoc{cookie: "a=1; b=2; a=3"}
	s := New(doc)

	if v, _ := s.GetCookie("a"); v != "1" {
		t.Fatalf("expected first value, got %q", v)
	}
}

func TestDeletePreference(t *testing.T) {
	s, jar := newTestStore()
	s.SetPreference(KeyCollapsed, true)
	s.SetPreference(KeyAudio, false)

	s.DeletePreference(KeyAudio)

	if _, ok := s.GetCookie(KeyAudio); ok {
		t.Fatalf("expected audio cookie removed, jar=%q", jar.Cookie())
	}
	if !s.GetPreference(KeyAudio) {
		t.Fatal("expected default after delete")
	}
	if v, _ := s.GetCookie(KeyCollapsed); v != "true" {
		t.Fatal("expected collapsed preference to survive")
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := newTestStore()
	s.SetPreference(KeyAnimations, false)

	got := s.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 keys, got %v", got)
	}
	if !got[KeyAudio] || got[KeyAnimations] || !got[KeyCollapsed] {
		t.Fatalf("unexpected snapshot: %v", got)
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{KeyAudio, true},
		{"a_b.c~1", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
		{"eq=ual", false},
		{"café", false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithTTLDays(t *testing.T) {
	doc := &recordingDoc{}
	s := New(doc, WithClock(fixedClock), WithTTLDays(30))
	s.SetPreference(KeyAudio, true)

	want := "exhibit-audio-enabled=true; expires=Wed, 18 Nov 2026 12:00:00 GMT; path=/"
	if len(doc.lines) != 1 || doc.lines[0] != want {
		t.Fatalf("expected %q, got %v", want, doc.lines)
	}

	ignored := New(&recordingDoc{}, WithTTLDays(0))
	if ignored.ttlDays != DefaultTTLDays {
		t.Fatalf("expected default TTL to survive a zero option, got %d", ignored.ttlDays)
	}
}

func TestSetPreference_LongTTL(t *testing.T) {
	s := New(NewJar(JarClock(fixedClock)), WithClock(fixedClock), WithTTLDays(200000))
	s.SetPreference(KeyAudio, false)

	if v, ok := s.GetCookie(KeyAudio); !ok || v != "false" {
		t.Fatalf("expected audio=false to be stored, got %q found=%v", v, ok)
	}

	doc := &recordingDoc{}
	long := New(doc, WithClock(fixedClock))
	long.SetCookieDays("k", "v", 200000)
	long.SetCookieDays("max", "v", math.MaxInt)

	want := []string{
		"k=v; expires=Thu, 19 May 2574 12:00:00 GMT; path=/",
		"max=v; expires=Fri, 31 Dec 9999 23:59:59 GMT; path=/",
	}
	if len(doc.lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), doc.lines)
	}
	for i := range want {
		if doc.lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], doc.lines[i])
		}
	}
}
