package main

import (
	"log/slog"
	"net/http"
)

// NewRouter registers all routes and wraps them with the middleware chain.
func NewRouter(h *PreferencesHandler, cfg Config, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/preferences", h.GetAll)
	mux.HandleFunc("PATCH /api/v1/preferences", h.PatchPrefs)
	mux.HandleFunc("DELETE /api/v1/preferences", h.DeleteAll)
	mux.HandleFunc("GET /api/v1/preferences/{key}", h.GetOne)
	mux.HandleFunc("PUT /api/v1/preferences/{key}", h.SetOne)
	mux.HandleFunc("DELETE /api/v1/preferences/{key}", h.DeleteOne)

	// Recovery → CORS → RequestLogging → JWTAuth (when configured) → mux
	var handler http.Handler = mux
	if cfg.JWTSecret != "" || cfg.DevBypassAuth {
		handler = JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.DevBypassAuth)(handler)
	}
	handler = RequestLogging(logger)(handler)
	handler = CORS(cfg.CORSAllowOrigin)(handler)
	handler = Recovery(logger)(handler)

	return handler
}
