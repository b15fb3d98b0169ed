package main

import (
	"log/slog"
	"net/http"

	"github.com/wozniakbe/exhibit-prefs/prefs"
	"github.com/wozniakbe/exhibit-prefs/prefs/httpdoc"
)

// PreferencesHandler serves preference reads and writes over the caller's
// cookies.
type PreferencesHandler struct {
	ttlDays int
	docOpts []httpdoc.Option
	logger  *slog.Logger
}

// NewPreferencesHandler creates a handler whose cookies live for ttlDays and
// carry the given attributes.
func NewPreferencesHandler(ttlDays int, logger *slog.Logger, docOpts ...httpdoc.Option) *PreferencesHandler {
	return &PreferencesHandler{ttlDays: ttlDays, docOpts: docOpts, logger: logger}
}

func (h *PreferencesHandler) store(w http.ResponseWriter, r *http.Request) *prefs.Store {
	return prefs.New(
		httpdoc.New(w, r, h.docOpts...),
		prefs.WithTTLDays(h.ttlDays),
		prefs.WithLogger(h.logger),
	)
}

// pathKey returns the {key} path value if it is a usable cookie name.
func pathKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.PathValue("key")
	if !prefs.ValidName(key) {
		writeError(w, http.StatusBadRequest, "invalid preference key")
		return "", false
	}
	return key, true
}

// GetAll returns the known preferences, defaults applied.
func (h *PreferencesHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PreferencesResponse{
		Preferences: h.store(w, r).Snapshot(),
	})
}

// GetOne returns a single preference. The "default" query parameter picks the
// value used when the cookie is absent.
func (h *PreferencesHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}

	def := r.URL.Query().Get("default")
	if def == "" {
		def = "true"
	}

	s := h.store(w, r)
	_, set := s.GetCookie(key)
	writeJSON(w, http.StatusOK, SinglePrefResponse{
		Key:   key,
		Value: s.GetPreferenceOr(key, def),
		Set:   set,
	})
}

// SetOne stores a single preference.
func (h *PreferencesHandler) SetOne(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}

	var req SetPrefRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "missing value")
		return
	}

	h.store(w, r).SetPreference(key, *req.Value)
	h.logger.Debug("preference set", "key", key, "value", *req.Value, "subject", subjectOf(r), "request_id", RequestIDFromContext(r.Context()))

	writeJSON(w, http.StatusOK, SinglePrefResponse{Key: key, Value: *req.Value, Set: true})
}

// PatchPrefs stores several preferences at once and returns the merged view.
func (h *PreferencesHandler) PatchPrefs(w http.ResponseWriter, r *http.Request) {
	var patch map[string]bool
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "empty preferences")
		return
	}
	for k := range patch {
		if !prefs.ValidName(k) {
			writeError(w, http.StatusBadRequest, "invalid preference key")
			return
		}
	}

	s := h.store(w, r)
	for k, v := range patch {
		s.SetPreference(k, v)
	}
	h.logger.Debug("preferences patched", "count", len(patch), "subject", subjectOf(r), "request_id", RequestIDFromContext(r.Context()))

	merged := s.Snapshot()
	for k, v := range patch {
		merged[k] = v
	}
	writeJSON(w, http.StatusOK, PreferencesResponse{Preferences: merged})
}

// DeleteOne expires a single preference cookie.
func (h *PreferencesHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r)
	if !ok {
		return
	}

	h.store(w, r).DeletePreference(key)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll expires every known preference cookie.
func (h *PreferencesHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	s := h.store(w, r)
	for _, k := range prefs.Keys() {
		s.DeletePreference(k)
	}
	w.WriteHeader(http.StatusNoContent)
}

func subjectOf(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		return c.Subject
	}
	return ""
}
