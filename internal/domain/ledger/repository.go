package ledger

import (
	"context"
	"errors"
)

// ErrDuplicateEntry marks an attempt to ledger an already-awarded
// (matchID, userID) pair. Callers treat it as a no-op, never an overwrite.
var ErrDuplicateEntry = errors.New("ledger entry already exists")

type Repository interface {
	// Append stores a new entry, failing with ErrDuplicateEntry when the
	// (MatchID, UserID) pair was already ledgered.
	Append(ctx context.Context, entry Entry) error
	Get(ctx context.Context, matchID, userID string) (Entry, bool, error)
	// ListByUser returns the user's full history ordered by PlayedAt then
	// CreatedAt, the replay order for reconciliation.
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListUserIDsByMatch(ctx context.Context, matchID string) (map[string]struct{}, error)
}
