package httpapi

import (
	"net/http"
	"strings"
)

// ListSeasonStandings returns the ranked table for a season.
func (h *Handler) ListSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStandings")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))

	standings, err := h.seasonService.GetStandings(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

// GetUserSeasonStanding returns one user's row from the ranked table.
func (h *Handler) GetUserSeasonStanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserSeasonStanding")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	userID := strings.TrimSpace(r.PathValue("userID"))

	standing, err := h.seasonService.GetUserStanding(ctx, seasonID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user season standing failed", "season_id", seasonID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standing)
}
