package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{userID}/progress", handler.GetUserProgress)
	mux.HandleFunc("GET /v1/users/{userID}/awards", handler.ListRecentAwards)
	mux.HandleFunc("GET /v1/users/{userID}/milestones", handler.ListUserMilestones)
	mux.HandleFunc("GET /v1/milestones", handler.ListMilestoneCatalog)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.ListSeasonStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings/{userID}", handler.GetUserSeasonStanding)
	mux.HandleFunc("GET /v1/groups/{groupID}/settings", handler.GetGroupSettings)
	mux.HandleFunc("GET /v1/levels", handler.GetLevelTable)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/matches/{matchID}/process", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ProcessMatch)))
	mux.Handle("POST /v1/internal/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.Reconcile)))
	mux.Handle("PUT /v1/groups/{groupID}/settings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdateGroupSettings)))
	mux.Handle("PUT /v1/levels", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ReplaceLevelTable)))
}
