package memory

import (
	"context"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
)

type MatchRepository struct {
	mu                   sync.RWMutex
	matchesByID          map[string]match.Match
	confirmationsByMatch map[string][]match.Confirmation
	processed            map[string]struct{}
}

func NewMatchRepository(matches []match.Match, confirmations []match.Confirmation) *MatchRepository {
	matchesByID := make(map[string]match.Match, len(matches))
	processed := make(map[string]struct{})
	for _, item := range matches {
		matchesByID[item.ID] = item
		if item.Processed {
			processed[item.ID] = struct{}{}
		}
	}

	confirmationsByMatch := make(map[string][]match.Confirmation)
	for _, item := range confirmations {
		confirmationsByMatch[item.MatchID] = append(confirmationsByMatch[item.MatchID], item)
	}

	return &MatchRepository{
		matchesByID:          matchesByID,
		confirmationsByMatch: confirmationsByMatch,
		processed:            processed,
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.matchesByID[matchID]
	return item, found, nil
}

func (r *MatchRepository) ListConfirmationsByMatch(_ context.Context, matchID string) ([]match.Confirmation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.confirmationsByMatch[matchID]
	out := make([]match.Confirmation, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *MatchRepository) ListFinishedByUser(_ context.Context, userID, scheduleID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for matchID, item := range r.matchesByID {
		if !match.IsFinishedStatus(item.Status) {
			continue
		}
		if scheduleID != "" && item.ScheduleID != scheduleID {
			continue
		}
		for _, confirmation := range r.confirmationsByMatch[matchID] {
			if confirmation.UserID == userID && match.IsConfirmed(confirmation.Status) {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

func (r *MatchRepository) TryMarkProcessed(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.processed[matchID]; exists {
		return false, nil
	}
	r.processed[matchID] = struct{}{}
	if item, found := r.matchesByID[matchID]; found {
		item.Processed = true
		r.matchesByID[matchID] = item
	}
	return true, nil
}

func (r *MatchRepository) IsProcessed(_ context.Context, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.processed[matchID]
	return exists, nil
}

// Upsert stores or replaces a match. Used by seeding and tests.
func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matchesByID[item.ID] = item
	if item.Processed {
		r.processed[item.ID] = struct{}{}
	}
	return nil
}

// ReplaceConfirmations swaps a match's full confirmation set.
func (r *MatchRepository) ReplaceConfirmations(_ context.Context, matchID string, items []match.Confirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]match.Confirmation, 0, len(items))
	out = append(out, items...)
	r.confirmationsByMatch[matchID] = out
	return nil
}
