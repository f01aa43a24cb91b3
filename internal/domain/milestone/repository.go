package milestone

import "context"

type UnlockRepository interface {
	ListIDsByUser(ctx context.Context, userID string) (map[string]struct{}, error)
	ListByUser(ctx context.Context, userID string) ([]Unlock, error)
	// Record creates the unlock on first sight and bumps the repeat counter
	// otherwise. Creating is idempotent per (userID, milestoneID).
	Record(ctx context.Context, unlock Unlock) error
	DeleteByUser(ctx context.Context, userID string) error
}
