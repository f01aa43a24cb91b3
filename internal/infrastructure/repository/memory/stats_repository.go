package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

type StatsRepository struct {
	mu     sync.RWMutex
	byUser map[string]stats.Statistics
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{byUser: make(map[string]stats.Statistics)}
}

func (r *StatsRepository) GetByUser(_ context.Context, userID string) (stats.Statistics, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.byUser[userID]
	return item, found, nil
}

func (r *StatsRepository) ApplyDelta(_ context.Context, userID string, delta stats.Delta) (stats.Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, found := r.byUser[userID]
	if !found {
		current = stats.Statistics{UserID: userID}
	}
	next := current.Apply(delta)
	r.byUser[userID] = next
	return next, nil
}

func (r *StatsRepository) Replace(_ context.Context, snapshot stats.Statistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[snapshot.UserID] = snapshot
	return nil
}

func (r *StatsRepository) ListUserIDs(_ context.Context, afterUserID string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		if afterUserID != "" && userID <= afterUserID {
			continue
		}
		ids = append(ids, userID)
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
