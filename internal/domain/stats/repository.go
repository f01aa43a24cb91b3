package stats

import "context"

type Repository interface {
	GetByUser(ctx context.Context, userID string) (Statistics, bool, error)
	// ApplyDelta folds the delta into the stored aggregate atomically,
	// creating the row when the user has no aggregate yet, and returns the
	// post-apply snapshot.
	ApplyDelta(ctx context.Context, userID string, delta Delta) (Statistics, error)
	// Replace overwrites the aggregate. Used by reconciliation after a full
	// ledger recompute.
	Replace(ctx context.Context, snapshot Statistics) error
	ListUserIDs(ctx context.Context, afterUserID string, limit int) ([]string, error)
}
