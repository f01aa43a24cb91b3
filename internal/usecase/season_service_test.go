package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/memory"
)

func seedStandings(t *testing.T, repo *memory.SeasonRepository) {
	t.Helper()

	rows := []season.Participation{
		{SeasonID: "season-1", UserID: "user-mid", Games: 8, Wins: 4, LeagueRating: 55.5, Division: season.DivisionSerieB},
		{SeasonID: "season-1", UserID: "user-top", Games: 10, Wins: 8, LeagueRating: 81.2, Division: season.DivisionSerieA},
		{SeasonID: "season-1", UserID: "user-tied-b", Games: 9, Wins: 3, LeagueRating: 55.5, Division: season.DivisionSerieB},
		{SeasonID: "season-1", UserID: "user-low", Games: 4, Wins: 0, Losses: 4, LeagueRating: 12.0, Division: season.DivisionVarzea},
	}
	for _, row := range rows {
		require.NoError(t, repo.UpsertParticipation(context.Background(), row))
	}
}

func TestGetStandings_RanksByRatingThenWins(t *testing.T) {
	t.Parallel()

	repo := memory.NewSeasonRepository(nil)
	seedStandings(t, repo)
	service := NewSeasonService(repo)

	standings, err := service.GetStandings(context.Background(), "season-1")
	require.NoError(t, err)
	require.Len(t, standings, 4)

	require.Equal(t, "user-top", standings[0].UserID)
	require.Equal(t, 1, standings[0].Rank)
	require.Equal(t, season.DivisionSerieA, standings[0].Division)

	// Equal rating: more wins ranks higher.
	require.Equal(t, "user-mid", standings[1].UserID)
	require.Equal(t, "user-tied-b", standings[2].UserID)

	require.Equal(t, "user-low", standings[3].UserID)
	require.Equal(t, 4, standings[3].Rank)
}

func TestGetStandings_RequiresSeasonID(t *testing.T) {
	t.Parallel()

	service := NewSeasonService(memory.NewSeasonRepository(nil))
	_, err := service.GetStandings(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetStandings_EmptySeason(t *testing.T) {
	t.Parallel()

	service := NewSeasonService(memory.NewSeasonRepository(nil))
	standings, err := service.GetStandings(context.Background(), "season-empty")
	require.NoError(t, err)
	require.Empty(t, standings)
}

func TestGetUserStanding(t *testing.T) {
	t.Parallel()

	repo := memory.NewSeasonRepository(nil)
	seedStandings(t, repo)
	service := NewSeasonService(repo)

	standing, err := service.GetUserStanding(context.Background(), "season-1", "user-tied-b")
	require.NoError(t, err)
	require.Equal(t, 3, standing.Rank)
	require.Equal(t, 55.5, standing.LeagueRating)

	_, err = service.GetUserStanding(context.Background(), "season-1", "user-unknown")
	require.ErrorIs(t, err, ErrNotFound)
}
