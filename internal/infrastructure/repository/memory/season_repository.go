package memory

import (
	"context"
	"sync"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
)

type SeasonRepository struct {
	mu             sync.RWMutex
	seasonsByID    map[string]season.Season
	participations map[string]season.Participation
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	seasonsByID := make(map[string]season.Season, len(seasons))
	for _, item := range seasons {
		seasonsByID[item.ID] = item
	}
	return &SeasonRepository{
		seasonsByID:    seasonsByID,
		participations: make(map[string]season.Participation),
	}
}

func participationKey(seasonID, userID string) string {
	return seasonID + "|" + userID
}

func (r *SeasonRepository) GetActiveByGroup(_ context.Context, groupID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasonsByID {
		if item.GroupID == groupID && item.IsActive {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetParticipation(_ context.Context, seasonID, userID string) (season.Participation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, found := r.participations[participationKey(seasonID, userID)]
	if found {
		item.Window = append([]season.OutcomeSample(nil), item.Window...)
	}
	return item, found, nil
}

func (r *SeasonRepository) UpsertParticipation(_ context.Context, participation season.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	participation.Window = append([]season.OutcomeSample(nil), participation.Window...)
	r.participations[participationKey(participation.SeasonID, participation.UserID)] = participation
	return nil
}

func (r *SeasonRepository) ListParticipationsBySeason(_ context.Context, seasonID string) ([]season.Participation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Participation, 0)
	for _, item := range r.participations {
		if item.SeasonID != seasonID {
			continue
		}
		item.Window = append([]season.OutcomeSample(nil), item.Window...)
		out = append(out, item)
	}
	return out, nil
}

// UpsertSeason stores or replaces a season. Used by seeding and tests.
func (r *SeasonRepository) UpsertSeason(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seasonsByID[item.ID] = item
	return nil
}
