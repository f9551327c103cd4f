package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerMetadataRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/metadata/auto-link", handler.AutoLink)
	mux.HandleFunc("GET /v1/metadata/clubs/{clubID}/seasons/{season}/players", handler.ListClubSeasonPlayers)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	backfill := RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillJob))
	// The worker contract path used by the dispatcher.
	mux.Handle("POST /backfill-metadata", backfill)
	mux.Handle("POST /v1/internal/jobs/backfill-metadata", backfill)
}
