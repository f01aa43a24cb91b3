package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
)

type UnlockRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]milestone.Unlock
}

func NewUnlockRepository() *UnlockRepository {
	return &UnlockRepository{byUser: make(map[string]map[string]milestone.Unlock)}
}

func (r *UnlockRepository) ListIDsByUser(_ context.Context, userID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{}, len(r.byUser[userID]))
	for milestoneID := range r.byUser[userID] {
		out[milestoneID] = struct{}{}
	}
	return out, nil
}

func (r *UnlockRepository) ListByUser(_ context.Context, userID string) ([]milestone.Unlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]milestone.Unlock, 0, len(r.byUser[userID]))
	for _, item := range r.byUser[userID] {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MilestoneID < out[j].MilestoneID
	})
	return out, nil
}

func (r *UnlockRepository) Record(_ context.Context, unlock milestone.Unlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userUnlocks, found := r.byUser[unlock.UserID]
	if !found {
		userUnlocks = make(map[string]milestone.Unlock)
		r.byUser[unlock.UserID] = userUnlocks
	}

	if existing, exists := userUnlocks[unlock.MilestoneID]; exists {
		existing.Count++
		userUnlocks[unlock.MilestoneID] = existing
		return nil
	}
	if unlock.Count <= 0 {
		unlock.Count = 1
	}
	userUnlocks[unlock.MilestoneID] = unlock
	return nil
}

func (r *UnlockRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser, userID)
	return nil
}
