package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
)

const defaultRecentAwardLimit = 20

// ProgressService serves the read side: a player's aggregate, level standing,
// milestone collection, and recent award history.
type ProgressService struct {
	statsRepo  stats.Repository
	unlockRepo milestone.UnlockRepository
	ledgerRepo ledger.Repository
	streakRepo streak.Repository
	catalog    *milestone.Catalog
	levels     *xp.LevelTable
}

type UserProgress struct {
	Stats         stats.Statistics `json:"stats"`
	Level         int              `json:"level"`
	XpIntoLevel   int              `json:"xp_into_level"`
	PercentToNext float64          `json:"percent_to_next"`
	CurrentStreak int              `json:"current_streak"`
	LongestStreak int              `json:"longest_streak"`
	Unlocks       []UnlockedBadge  `json:"unlocks"`
}

type UnlockedBadge struct {
	MilestoneID string             `json:"milestone_id"`
	Name        string             `json:"name"`
	Emoji       string             `json:"emoji"`
	Category    milestone.Category `json:"category"`
	XpReward    int                `json:"xp_reward"`
	Count       int                `json:"count"`
	UnlockedAt  string             `json:"unlocked_at"`
}

// MilestoneStatus pairs a catalog entry with the user's unlock state. Hidden
// entries are only listed once earned.
type MilestoneStatus struct {
	MilestoneID string             `json:"milestone_id"`
	Name        string             `json:"name"`
	Emoji       string             `json:"emoji"`
	Category    milestone.Category `json:"category"`
	XpReward    int                `json:"xp_reward"`
	Unlocked    bool               `json:"unlocked"`
}

func NewProgressService(
	statsRepo stats.Repository,
	unlockRepo milestone.UnlockRepository,
	ledgerRepo ledger.Repository,
	streakRepo streak.Repository,
	catalog *milestone.Catalog,
	levels *xp.LevelTable,
) *ProgressService {
	return &ProgressService{
		statsRepo:  statsRepo,
		unlockRepo: unlockRepo,
		ledgerRepo: ledgerRepo,
		streakRepo: streakRepo,
		catalog:    catalog,
		levels:     levels,
	}
}

// GetUserProgress assembles the profile view. scheduleID narrows the streak to
// one recurring game; empty means the group-wide streak scope.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID, scheduleID string) (UserProgress, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressService.GetUserProgress")
	defer span.End()

	if userID == "" {
		return UserProgress{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	snapshot, found, err := s.statsRepo.GetByUser(ctx, userID)
	if err != nil {
		return UserProgress{}, fmt.Errorf("get statistics user=%s: %w", userID, err)
	}
	if !found {
		snapshot = stats.Statistics{UserID: userID}
	}

	progress := s.levels.Resolve(snapshot.TotalXp, snapshot.TotalXp)
	out := UserProgress{
		Stats:         snapshot,
		Level:         progress.LevelAfter,
		XpIntoLevel:   progress.Progress,
		PercentToNext: progress.PercentToNext,
	}

	streakState, found, err := s.streakRepo.Get(ctx, userID, scheduleID)
	if err != nil {
		return UserProgress{}, fmt.Errorf("get streak user=%s: %w", userID, err)
	}
	if found {
		out.CurrentStreak = streakState.CurrentStreak
		out.LongestStreak = streakState.LongestStreak
	}

	unlocks, err := s.unlockRepo.ListByUser(ctx, userID)
	if err != nil {
		return UserProgress{}, fmt.Errorf("list unlocks user=%s: %w", userID, err)
	}
	definitionsByID := make(map[string]milestone.Definition)
	for _, def := range s.catalog.Definitions() {
		definitionsByID[def.ID] = def
	}

	out.Unlocks = make([]UnlockedBadge, 0, len(unlocks))
	for _, unlock := range unlocks {
		def, known := definitionsByID[unlock.MilestoneID]
		if !known {
			// Unlocks for retired catalog entries stay earned but render bare.
			def = milestone.Definition{ID: unlock.MilestoneID, Name: unlock.MilestoneID, Category: milestone.CategorySpecial}
		}
		out.Unlocks = append(out.Unlocks, UnlockedBadge{
			MilestoneID: unlock.MilestoneID,
			Name:        def.Name,
			Emoji:       def.Emoji,
			Category:    def.Category,
			XpReward:    def.XpReward,
			Count:       unlock.Count,
			UnlockedAt:  unlock.UnlockedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	sort.SliceStable(out.Unlocks, func(i, j int) bool {
		return out.Unlocks[i].MilestoneID < out.Unlocks[j].MilestoneID
	})

	return out, nil
}

// ListRecentAwards returns the newest ledger entries for a user, newest first.
func (s *ProgressService) ListRecentAwards(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressService.ListRecentAwards")
	defer span.End()

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultRecentAwardLimit
	}

	entries, err := s.ledgerRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries user=%s: %w", userID, err)
	}

	// Repository order is oldest first; flip and trim.
	out := make([]ledger.Entry, 0, limit)
	for idx := len(entries) - 1; idx >= 0 && len(out) < limit; idx-- {
		out = append(out, entries[idx])
	}
	return out, nil
}

// ListMilestones returns the catalog annotated with the user's unlock state.
// category filters when non-empty; hidden entries appear only once unlocked.
func (s *ProgressService) ListMilestones(ctx context.Context, userID, category string) ([]MilestoneStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressService.ListMilestones")
	defer span.End()

	unlocked := map[string]struct{}{}
	if userID != "" {
		var err error
		unlocked, err = s.unlockRepo.ListIDsByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list unlocked ids user=%s: %w", userID, err)
		}
	}

	definitions := s.catalog.Definitions()
	if category != "" {
		definitions = s.catalog.ByCategory(milestone.NormalizeCategory(category))
	}

	out := make([]MilestoneStatus, 0, len(definitions))
	for _, def := range definitions {
		_, isUnlocked := unlocked[def.ID]
		if def.Hidden && !isUnlocked {
			continue
		}
		out = append(out, MilestoneStatus{
			MilestoneID: def.ID,
			Name:        def.Name,
			Emoji:       def.Emoji,
			Category:    def.Category,
			XpReward:    def.XpReward,
			Unlocked:    isUnlocked,
		})
	}
	return out, nil
}
