package match

import "context"

type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListConfirmationsByMatch(ctx context.Context, matchID string) ([]Confirmation, error)
	ListFinishedByUser(ctx context.Context, userID, scheduleID string) ([]Match, error)

	// TryMarkProcessed flips the processed gate for a match. It returns false
	// when the gate was already set, so at most one caller wins the flip.
	TryMarkProcessed(ctx context.Context, matchID string) (bool, error)
	IsProcessed(ctx context.Context, matchID string) (bool, error)
}
