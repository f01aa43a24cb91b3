package season

import "context"

type Repository interface {
	GetActiveByGroup(ctx context.Context, groupID string) (Season, bool, error)
	GetParticipation(ctx context.Context, seasonID, userID string) (Participation, bool, error)
	UpsertParticipation(ctx context.Context, participation Participation) error
	ListParticipationsBySeason(ctx context.Context, seasonID string) ([]Participation, error)
}
