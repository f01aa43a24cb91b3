package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
)

// SettingsService manages per-group XP weight revisions and the shared level
// table. Weight changes apply to matches processed after the change; entries
// already in the ledger are never re-priced.
type SettingsService struct {
	settingsRepo xp.SettingsRepository
	levels       *xp.LevelTable
	logger       *logging.Logger
	now          func() time.Time
}

type UpdateSettingsInput struct {
	GroupID      string          `json:"group_id" validate:"required"`
	Presence     int             `json:"presence" validate:"min=0"`
	PerGoal      int             `json:"per_goal" validate:"min=0"`
	PerAssist    int             `json:"per_assist" validate:"min=0"`
	PerSave      int             `json:"per_save" validate:"min=0"`
	CleanSheet   int             `json:"clean_sheet" validate:"min=0"`
	Win          int             `json:"win" validate:"min=0"`
	Draw         int             `json:"draw" validate:"min=0"`
	Mvp          int             `json:"mvp" validate:"min=0"`
	BestKeeper   int             `json:"best_keeper" validate:"min=0"`
	WorstPenalty int             `json:"worst_penalty" validate:"max=0"`
	StreakTiers  []xp.StreakTier `json:"streak_tiers"`
}

func NewSettingsService(settingsRepo xp.SettingsRepository, levels *xp.LevelTable, logger *logging.Logger) *SettingsService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SettingsService{
		settingsRepo: settingsRepo,
		levels:       levels,
		logger:       logger,
		now:          time.Now,
	}
}

// GetSettings returns a group's active revision, falling back to the defaults
// when the group never customized anything.
func (s *SettingsService) GetSettings(ctx context.Context, groupID string) (xp.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.GetSettings")
	defer span.End()

	if groupID == "" {
		return xp.Settings{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	settings, found, err := s.settingsRepo.GetByGroup(ctx, groupID)
	if err != nil {
		return xp.Settings{}, fmt.Errorf("get xp settings group=%s: %w", groupID, err)
	}
	if !found {
		settings = xp.DefaultSettings()
		settings.GroupID = groupID
	}
	return settings, nil
}

// UpdateSettings validates and stores a new revision for the group.
func (s *SettingsService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (xp.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.UpdateSettings")
	defer span.End()

	if input.GroupID == "" {
		return xp.Settings{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	next := xp.Settings{
		GroupID:      input.GroupID,
		Presence:     input.Presence,
		PerGoal:      input.PerGoal,
		PerAssist:    input.PerAssist,
		PerSave:      input.PerSave,
		CleanSheet:   input.CleanSheet,
		Win:          input.Win,
		Draw:         input.Draw,
		Mvp:          input.Mvp,
		BestKeeper:   input.BestKeeper,
		WorstPenalty: input.WorstPenalty,
		StreakTiers:  input.StreakTiers,
		UpdatedAt:    s.now().UTC(),
	}
	if err := next.Validate(); err != nil {
		return xp.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.settingsRepo.Upsert(ctx, next)
	if err != nil {
		return xp.Settings{}, fmt.Errorf("upsert xp settings group=%s: %w", input.GroupID, err)
	}

	s.logger.InfoContext(ctx, "xp settings updated",
		"group_id", stored.GroupID,
		"version", stored.Version,
	)
	return stored, nil
}

// LevelThresholds exposes the active level table.
func (s *SettingsService) LevelThresholds(ctx context.Context) []int {
	_, span := startUsecaseSpan(ctx, "usecase.SettingsService.LevelThresholds")
	defer span.End()
	return s.levels.Thresholds()
}

// ReplaceLevelTable swaps the level table; on a rejected table the previous
// one stays active.
func (s *SettingsService) ReplaceLevelTable(ctx context.Context, thresholds []int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.ReplaceLevelTable")
	defer span.End()

	if err := s.levels.Replace(thresholds); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s.logger.InfoContext(ctx, "level table replaced", "levels", len(thresholds))
	return nil
}
