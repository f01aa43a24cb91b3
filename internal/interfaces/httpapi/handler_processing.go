package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/usecase"
)

type processMatchResultDTO struct {
	MatchID          string           `json:"match_id"`
	AlreadyProcessed bool             `json:"already_processed"`
	PlayersProcessed int              `json:"players_processed"`
	PlayersSkipped   int              `json:"players_skipped"`
	Awards           []playerAwardDTO `json:"awards"`
}

type playerAwardDTO struct {
	UserID               string       `json:"user_id"`
	XpAwarded            int          `json:"xp_awarded"`
	XpAfter              int          `json:"xp_after"`
	LevelBefore          int          `json:"level_before"`
	LevelAfter           int          `json:"level_after"`
	LeveledUp            bool         `json:"leveled_up"`
	StreakAfterGame      int          `json:"streak_after_game"`
	Breakdown            xp.Breakdown `json:"breakdown"`
	UnlockedMilestoneIDs []string     `json:"unlocked_milestone_ids,omitempty"`
}

type reconcileRequest struct {
	UserIDs    []string `json:"user_ids" validate:"omitempty,dive,required"`
	DryRun     bool     `json:"dry_run"`
	MaxWorkers int      `json:"max_workers" validate:"gte=0"`
}

// ProcessMatch runs the award pipeline for one finalized match. The scheduling
// backend calls it after outcome confirmation; replays return the processed
// marker instead of awarding twice.
func (h *Handler) ProcessMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput))
		return
	}

	result, err := h.processingService.ProcessMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "process match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, processMatchResultToDTO(result))
}

// Reconcile recomputes user aggregates from the ledger and repairs drift. An
// empty body reconciles every known user.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Reconcile")
	defer span.End()

	var req reconcileRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reconciliationService.Reconcile(ctx, usecase.ReconcileInput{
		UserIDs:    req.UserIDs,
		DryRun:     req.DryRun,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func processMatchResultToDTO(result usecase.ProcessMatchResult) processMatchResultDTO {
	awards := make([]playerAwardDTO, 0, len(result.Awards))
	for _, award := range result.Awards {
		awards = append(awards, playerAwardDTO{
			UserID:               award.UserID,
			XpAwarded:            award.XpAwarded,
			XpAfter:              award.XpAfter,
			LevelBefore:          award.LevelBefore,
			LevelAfter:           award.LevelAfter,
			LeveledUp:            award.LevelAfter > award.LevelBefore,
			StreakAfterGame:      award.StreakAfterGame,
			Breakdown:            award.Breakdown,
			UnlockedMilestoneIDs: append([]string(nil), award.UnlockedMilestoneIDs...),
		})
	}

	return processMatchResultDTO{
		MatchID:          result.MatchID,
		AlreadyProcessed: result.AlreadyProcessed,
		PlayersProcessed: result.PlayersProcessed,
		PlayersSkipped:   result.PlayersSkipped,
		Awards:           awards,
	}
}
