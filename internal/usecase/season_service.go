package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
)

// SeasonService serves the competitive read side: ranked standings for a
// season and a single user's standing.
type SeasonService struct {
	seasonRepo season.Repository
}

type SeasonStanding struct {
	Rank         int             `json:"rank"`
	UserID       string          `json:"user_id"`
	Games        int             `json:"games"`
	Wins         int             `json:"wins"`
	Draws        int             `json:"draws"`
	Losses       int             `json:"losses"`
	LeagueRating float64         `json:"league_rating"`
	Division     season.Division `json:"division"`
}

func NewSeasonService(seasonRepo season.Repository) *SeasonService {
	return &SeasonService{seasonRepo: seasonRepo}
}

// GetStandings ranks a season's participants by rating, breaking ties by wins
// then user id so the order is stable across calls.
func (s *SeasonService) GetStandings(ctx context.Context, seasonID string) ([]SeasonStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.GetStandings")
	defer span.End()

	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	participations, err := s.seasonRepo.ListParticipationsBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list participations season=%s: %w", seasonID, err)
	}

	sort.SliceStable(participations, func(i, j int) bool {
		if participations[i].LeagueRating != participations[j].LeagueRating {
			return participations[i].LeagueRating > participations[j].LeagueRating
		}
		if participations[i].Wins != participations[j].Wins {
			return participations[i].Wins > participations[j].Wins
		}
		return participations[i].UserID < participations[j].UserID
	})

	out := make([]SeasonStanding, 0, len(participations))
	for idx, row := range participations {
		out = append(out, SeasonStanding{
			Rank:         idx + 1,
			UserID:       row.UserID,
			Games:        row.Games,
			Wins:         row.Wins,
			Draws:        row.Draws,
			Losses:       row.Losses,
			LeagueRating: row.LeagueRating,
			Division:     row.Division,
		})
	}
	return out, nil
}

// GetUserStanding returns one user's row from the ranked standings.
func (s *SeasonService) GetUserStanding(ctx context.Context, seasonID, userID string) (SeasonStanding, error) {
	standings, err := s.GetStandings(ctx, seasonID)
	if err != nil {
		return SeasonStanding{}, err
	}
	for _, row := range standings {
		if row.UserID == userID {
			return row, nil
		}
	}
	return SeasonStanding{}, fmt.Errorf("%w: no standing season=%s user=%s", ErrNotFound, seasonID, userID)
}
