package memory

import (
	"context"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
)

type StreakRepository struct {
	mu     sync.RWMutex
	states map[string]streak.UserStreak
}

func NewStreakRepository() *StreakRepository {
	return &StreakRepository{states: make(map[string]streak.UserStreak)}
}

func streakKey(userID, scheduleID string) string {
	return userID + "|" + scheduleID
}

func (r *StreakRepository) Get(_ context.Context, userID, scheduleID string) (streak.UserStreak, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.states[streakKey(userID, scheduleID)]
	return item, found, nil
}

func (r *StreakRepository) Upsert(_ context.Context, state streak.UserStreak) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[streakKey(state.UserID, state.ScheduleID)] = state
	return nil
}
