package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/usecase"
)

type streakTierDTO struct {
	Games int `json:"games" validate:"gt=0"`
	Bonus int `json:"bonus" validate:"gte=0"`
}

type settingsDTO struct {
	GroupID      string          `json:"group_id"`
	Version      int             `json:"version"`
	Presence     int             `json:"presence"`
	PerGoal      int             `json:"per_goal"`
	PerAssist    int             `json:"per_assist"`
	PerSave      int             `json:"per_save"`
	CleanSheet   int             `json:"clean_sheet"`
	Win          int             `json:"win"`
	Draw         int             `json:"draw"`
	Mvp          int             `json:"mvp"`
	BestKeeper   int             `json:"best_keeper"`
	WorstPenalty int             `json:"worst_penalty"`
	StreakTiers  []streakTierDTO `json:"streak_tiers"`
	UpdatedAtUTC string          `json:"updated_at_utc,omitempty"`
}

type updateSettingsRequest struct {
	Presence     int             `json:"presence" validate:"gte=0"`
	PerGoal      int             `json:"per_goal" validate:"gte=0"`
	PerAssist    int             `json:"per_assist" validate:"gte=0"`
	PerSave      int             `json:"per_save" validate:"gte=0"`
	CleanSheet   int             `json:"clean_sheet" validate:"gte=0"`
	Win          int             `json:"win" validate:"gte=0"`
	Draw         int             `json:"draw" validate:"gte=0"`
	Mvp          int             `json:"mvp" validate:"gte=0"`
	BestKeeper   int             `json:"best_keeper" validate:"gte=0"`
	WorstPenalty int             `json:"worst_penalty" validate:"lte=0"`
	StreakTiers  []streakTierDTO `json:"streak_tiers" validate:"dive"`
}

type levelTableDTO struct {
	Thresholds []int `json:"thresholds"`
}

type replaceLevelTableRequest struct {
	Thresholds []int `json:"thresholds" validate:"required,min=2"`
}

// GetGroupSettings returns the group's active XP weight revision.
func (h *Handler) GetGroupSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupSettings")
	defer span.End()

	groupID := strings.TrimSpace(r.PathValue("groupID"))

	settings, err := h.settingsService.GetSettings(ctx, groupID)
	if err != nil {
		h.logger.WarnContext(ctx, "get group settings failed", "group_id", groupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(settings))
}

// UpdateGroupSettings stores a new weight revision for the group. New weights
// only price matches processed afterwards; the ledger is never re-priced.
func (h *Handler) UpdateGroupSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGroupSettings")
	defer span.End()

	groupID := strings.TrimSpace(r.PathValue("groupID"))

	var req updateSettingsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tiers := make([]xp.StreakTier, 0, len(req.StreakTiers))
	for _, tier := range req.StreakTiers {
		tiers = append(tiers, xp.StreakTier{Games: tier.Games, Bonus: tier.Bonus})
	}

	stored, err := h.settingsService.UpdateSettings(ctx, usecase.UpdateSettingsInput{
		GroupID:      groupID,
		Presence:     req.Presence,
		PerGoal:      req.PerGoal,
		PerAssist:    req.PerAssist,
		PerSave:      req.PerSave,
		CleanSheet:   req.CleanSheet,
		Win:          req.Win,
		Draw:         req.Draw,
		Mvp:          req.Mvp,
		BestKeeper:   req.BestKeeper,
		WorstPenalty: req.WorstPenalty,
		StreakTiers:  tiers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update group settings failed", "group_id", groupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(stored))
}

// GetLevelTable exposes the active level thresholds.
func (h *Handler) GetLevelTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLevelTable")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, levelTableDTO{
		Thresholds: h.settingsService.LevelThresholds(ctx),
	})
}

// ReplaceLevelTable swaps the level thresholds. A rejected table leaves the
// previous one active.
func (h *Handler) ReplaceLevelTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceLevelTable")
	defer span.End()

	var req replaceLevelTableRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.settingsService.ReplaceLevelTable(ctx, req.Thresholds); err != nil {
		h.logger.WarnContext(ctx, "replace level table failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, levelTableDTO{
		Thresholds: h.settingsService.LevelThresholds(ctx),
	})
}

func settingsToDTO(v xp.Settings) settingsDTO {
	tiers := make([]streakTierDTO, 0, len(v.StreakTiers))
	for _, tier := range v.StreakTiers {
		tiers = append(tiers, streakTierDTO{Games: tier.Games, Bonus: tier.Bonus})
	}

	dto := settingsDTO{
		GroupID:      v.GroupID,
		Version:      v.Version,
		Presence:     v.Presence,
		PerGoal:      v.PerGoal,
		PerAssist:    v.PerAssist,
		PerSave:      v.PerSave,
		CleanSheet:   v.CleanSheet,
		Win:          v.Win,
		Draw:         v.Draw,
		Mvp:          v.Mvp,
		BestKeeper:   v.BestKeeper,
		WorstPenalty: v.WorstPenalty,
		StreakTiers:  tiers,
	}
	if !v.UpdatedAt.IsZero() {
		dto.UpdatedAtUTC = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
