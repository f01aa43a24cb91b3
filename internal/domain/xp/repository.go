package xp

import "context"

type SettingsRepository interface {
	// GetByGroup returns the active settings revision for a group.
	GetByGroup(ctx context.Context, groupID string) (Settings, bool, error)
	// Upsert stores a new revision. Implementations bump Version on write.
	Upsert(ctx context.Context, settings Settings) (Settings, error)
}
