package httpdoc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wozniakbe/exhibit-prefs/prefs"
)

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestDocument_ReadsRequestCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: prefs.KeyAudio, Value: "false"})
	rec := httptest.NewRecorder()

	s := prefs.New(New(rec, req))

	if s.GetPreference(prefs.KeyAudio) {
		t.Fatal("expected audio=false from request cookie")
	}
	if !s.GetPreference(prefs.KeyAnimations) {
		t.Fatal("expected default for missing cookie")
	}
}

func TestDocument_WriteEmitsSetCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s := prefs.New(New(rec, req, WithSecure(true), WithSameSite(http.SameSiteLaxMode)))
	s.SetPreference(prefs.KeyCollapsed, true)

	if !s.GetPreference(prefs.KeyCollapsed) {
		t.Fatal("expected write to be visible within the request")
	}

	c := responseCookie(t, rec, prefs.KeyCollapsed)
	if c == nil {
		t.Fatal("expected Set-Cookie for collapsed preference")
	}
	if c.Value != "true" || c.Path != "/" || !c.Secure || c.HttpOnly {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}
	if c.Expires.IsZero() {
		t.Fatal("expected an expiry")
	}

	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, "SameSite=Lax") {
		t.Fatalf("expected SameSite=Lax, got %q", header)
	}
}

func TestDocument_Delete(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: prefs.KeyAudio, Value: "false"})
	rec := httptest.NewRecorder()

	s := prefs.New(New(rec, req))
	s.DeletePreference(prefs.KeyAudio)

	if _, ok := s.GetCookie(prefs.KeyAudio); ok {
		t.Fatal("expected cookie removed from the request view")
	}
	if responseCookie(t, rec, prefs.KeyAudio) == nil {
		t.Fatal("expected an expiring Set-Cookie")
	}
}

func TestDocument_DuplicateRequestCookieFirstWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "a=1; a=2")
	rec := httptest.NewRecorder()

	if v, _ := prefs.New(New(rec, req)).GetCookie("a"); v != "1" {
		t.Fatalf("expected first value, got %q", v)
	}
}

func TestDocument_LenientRequestCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Add("Cookie", "note=café; "+prefs.KeyAudio+"=false")
	req.Header.Add("Cookie", prefs.KeyCollapsed+"=true; "+prefs.KeyAudio+"=true")
	rec := httptest.NewRecorder()

	s := prefs.New(New(rec, req))
	if v, ok := s.GetCookie("note"); !ok || v != "café" {
		t.Fatalf("expected value net/http rejects to survive, got %q found=%v", v, ok)
	}
	if s.GetPreference(prefs.KeyAudio) {
		t.Fatal("expected the first audio pair to win across headers")
	}
	if !s.GetPreference(prefs.KeyCollapsed) {
		t.Fatal("expected collapsed from the second Cookie header")
	}
}
