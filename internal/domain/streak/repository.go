package streak

import "context"

type Repository interface {
	Get(ctx context.Context, userID, scheduleID string) (UserStreak, bool, error)
	Upsert(ctx context.Context, state UserStreak) error
}
