package memory

import (
	"context"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
)

type SettingsRepository struct {
	mu      sync.RWMutex
	byGroup map[string]xp.Settings
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{byGroup: make(map[string]xp.Settings)}
}

func (r *SettingsRepository) GetByGroup(_ context.Context, groupID string) (xp.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.byGroup[groupID]
	return item, found, nil
}

func (r *SettingsRepository) Upsert(_ context.Context, settings xp.Settings) (xp.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.byGroup[settings.GroupID]; found {
		settings.Version = existing.Version + 1
	} else {
		settings.Version = 1
	}
	r.byGroup[settings.GroupID] = settings
	return settings, nil
}
