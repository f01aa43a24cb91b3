package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/usecase"
)

type statisticsDTO struct {
	UserID          string `json:"user_id"`
	Games           int    `json:"games"`
	Goals           int    `json:"goals"`
	Assists         int    `json:"assists"`
	Saves           int    `json:"saves"`
	Wins            int    `json:"wins"`
	Draws           int    `json:"draws"`
	Losses          int    `json:"losses"`
	MvpCount        int    `json:"mvp_count"`
	BestKeeperCount int    `json:"best_keeper_count"`
	WorstCount      int    `json:"worst_count"`
	CleanSheets     int    `json:"clean_sheets"`
	YellowCards     int    `json:"yellow_cards"`
	RedCards        int    `json:"red_cards"`
	TotalXp         int    `json:"total_xp"`
	BestStreak      int    `json:"best_streak"`
	UpdatedAtUTC    string `json:"updated_at_utc,omitempty"`
}

type userProgressDTO struct {
	Stats         statisticsDTO           `json:"stats"`
	Level         int                     `json:"level"`
	XpIntoLevel   int                     `json:"xp_into_level"`
	PercentToNext float64                 `json:"percent_to_next"`
	CurrentStreak int                     `json:"current_streak"`
	LongestStreak int                     `json:"longest_streak"`
	Unlocks       []usecase.UnlockedBadge `json:"unlocks"`
}

type awardDTO struct {
	MatchID              string       `json:"match_id"`
	SeasonID             string       `json:"season_id,omitempty"`
	XpBefore             int          `json:"xp_before"`
	XpAfter              int          `json:"xp_after"`
	LevelBefore          int          `json:"level_before"`
	LevelAfter           int          `json:"level_after"`
	Breakdown            xp.Breakdown `json:"breakdown"`
	UnlockedMilestoneIDs []string     `json:"unlocked_milestone_ids,omitempty"`
	StreakAfterGame      int          `json:"streak_after_game"`
	PlayedAtUTC          string       `json:"played_at_utc"`
}

// GetUserProgress serves the profile view: aggregate stats, level standing,
// streaks, and the badge collection.
func (h *Handler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserProgress")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	scheduleID := strings.TrimSpace(r.URL.Query().Get("schedule_id"))

	progress, err := h.progressService.GetUserProgress(ctx, userID, scheduleID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user progress failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userProgressDTO{
		Stats:         statisticsToDTO(progress.Stats),
		Level:         progress.Level,
		XpIntoLevel:   progress.XpIntoLevel,
		PercentToNext: progress.PercentToNext,
		CurrentStreak: progress.CurrentStreak,
		LongestStreak: progress.LongestStreak,
		Unlocks:       progress.Unlocks,
	})
}

// ListRecentAwards returns the newest ledger entries for a user.
func (h *Handler) ListRecentAwards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentAwards")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	entries, err := h.progressService.ListRecentAwards(ctx, userID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list recent awards failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]awardDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, awardToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// ListUserMilestones annotates the catalog with the user's unlock state.
func (h *Handler) ListUserMilestones(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserMilestones")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	items, err := h.progressService.ListMilestones(ctx, userID, category)
	if err != nil {
		h.logger.WarnContext(ctx, "list user milestones failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// ListMilestoneCatalog lists the visible catalog without any unlock state.
func (h *Handler) ListMilestoneCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMilestoneCatalog")
	defer span.End()

	category := strings.TrimSpace(r.URL.Query().Get("category"))

	items, err := h.progressService.ListMilestones(ctx, "", category)
	if err != nil {
		h.logger.WarnContext(ctx, "list milestone catalog failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func statisticsToDTO(v stats.Statistics) statisticsDTO {
	dto := statisticsDTO{
		UserID:          v.UserID,
		Games:           v.Games,
		Goals:           v.Goals,
		Assists:         v.Assists,
		Saves:           v.Saves,
		Wins:            v.Wins,
		Draws:           v.Draws,
		Losses:          v.Losses,
		MvpCount:        v.MvpCount,
		BestKeeperCount: v.BestKeeperCount,
		WorstCount:      v.WorstCount,
		CleanSheets:     v.CleanSheets,
		YellowCards:     v.YellowCards,
		RedCards:        v.RedCards,
		TotalXp:         v.TotalXp,
		BestStreak:      v.BestStreak,
	}
	if !v.UpdatedAt.IsZero() {
		dto.UpdatedAtUTC = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func awardToDTO(entry ledger.Entry) awardDTO {
	return awardDTO{
		MatchID:              entry.MatchID,
		SeasonID:             entry.SeasonID,
		XpBefore:             entry.XpBefore,
		XpAfter:              entry.XpAfter,
		LevelBefore:          entry.LevelBefore,
		LevelAfter:           entry.LevelAfter,
		Breakdown:            entry.Breakdown,
		UnlockedMilestoneIDs: append([]string(nil), entry.UnlockedMilestoneIDs...),
		StreakAfterGame:      entry.StreakAfterGame,
		PlayedAtUTC:          entry.PlayedAt.UTC().Format(time.RFC3339),
	}
}
