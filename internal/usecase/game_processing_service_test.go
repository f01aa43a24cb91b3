package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/memory"
	idgen "github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/id"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
)

type processingFixture struct {
	service      *GameProcessingService
	matchRepo    *memory.MatchRepository
	settingsRepo *memory.SettingsRepository
	statsRepo    *memory.StatsRepository
	ledgerRepo   *memory.LedgerRepository
	streakRepo   *memory.StreakRepository
	unlockRepo   *memory.UnlockRepository
	seasonRepo   *memory.SeasonRepository
}

func newProcessingFixture(t *testing.T, matches []match.Match, confirmations []match.Confirmation) processingFixture {
	t.Helper()

	f := processingFixture{
		matchRepo:    memory.NewMatchRepository(matches, confirmations),
		settingsRepo: memory.NewSettingsRepository(),
		statsRepo:    memory.NewStatsRepository(),
		ledgerRepo:   memory.NewLedgerRepository(),
		streakRepo:   memory.NewStreakRepository(),
		unlockRepo:   memory.NewUnlockRepository(),
		seasonRepo: memory.NewSeasonRepository([]season.Season{
			{ID: "season-1", GroupID: "grupo-x", Name: "Temporada 1", IsActive: true},
		}),
	}
	f.service = NewGameProcessingService(
		f.matchRepo,
		f.settingsRepo,
		f.statsRepo,
		f.ledgerRepo,
		f.streakRepo,
		f.unlockRepo,
		f.seasonRepo,
		milestone.NewCatalog(),
		xp.NewLevelTable(),
		idgen.NewUUIDGenerator(),
		logging.NewNop(),
	)
	return f
}

func playedAt(day int) time.Time {
	return time.Date(2026, 8, day, 21, 0, 0, 0, time.UTC)
}

func finishedMatch(id string, day int) match.Match {
	return match.Match{
		ID:         id,
		GroupID:    "grupo-x",
		ScheduleID: "quarta-21h",
		PlayedAt:   playedAt(day),
		TeamAScore: 4,
		TeamBScore: 2,
		Status:     match.StatusFinished,
	}
}

// haltingPool accepts one task, runs it late on its own goroutine, and fails
// every submission after that.
type haltingPool struct {
	submitted int
}

func (p *haltingPool) Submit(task func()) error {
	p.submitted++
	if p.submitted > 1 {
		return errors.New("worker pool exhausted")
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		task()
	}()
	return nil
}

func (p *haltingPool) Release() {}

func TestProcessMatch_SubmitFailureWaitsForInFlightPlayers(t *testing.T) {
	t.Parallel()

	f := newProcessingFixture(t, []match.Match{finishedMatch("match-1", 5)}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
		{MatchID: "match-1", UserID: "user-bia", Status: match.ConfirmationConfirmed, Team: match.TeamB},
	})
	f.service.newPool = func(int) (workerPool, error) { return &haltingPool{}, nil }

	_, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.Error(t, err)

	// The player submitted before the failure was fully ledgered by the time
	// the call returned; nothing is still writing in the background.
	ledgered, err := f.ledgerRepo.ListUserIDsByMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.Len(t, ledgered, 1)

	// The gate stays down so a retry picks up the unsubmitted player.
	processed, err := f.matchRepo.IsProcessed(context.Background(), "match-1")
	require.NoError(t, err)
	require.False(t, processed)
}

func TestProcessMatch_AwardsAndUnlocks(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	m.MvpUserID = "user-ana"
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA, Goals: 2},
		{MatchID: "match-1", UserID: "user-bia", Status: match.ConfirmationConfirmed, Team: match.TeamB, IsGoalkeeper: true, Saves: 3},
	})

	result, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.False(t, result.AlreadyProcessed)
	require.Equal(t, 2, result.PlayersProcessed)
	require.Zero(t, result.PlayersSkipped)
	require.Len(t, result.Awards, 2)

	// Awards come back sorted by user id.
	ana := result.Awards[0]
	require.Equal(t, "user-ana", ana.UserID)
	// presence 10 + goals 40 + win 30 + mvp 50, plus unlocks for first game,
	// first goal, first win, and first mvp.
	require.Equal(t, 130, ana.Breakdown.Total-ana.Breakdown.MilestoneBonus)
	require.Equal(t, 180, ana.Breakdown.MilestoneBonus)
	require.Equal(t, 310, ana.XpAwarded)
	require.Equal(t, 1, ana.LevelBefore)
	require.Equal(t, 3, ana.LevelAfter)
	require.Equal(t, 1, ana.StreakAfterGame)
	require.ElementsMatch(t, []string{"first_game", "first_goal", "first_win", "first_mvp"}, ana.UnlockedMilestoneIDs)

	bia := result.Awards[1]
	require.Equal(t, "user-bia", bia.UserID)
	// presence 10 + saves 15, no result bonus, plus the first game unlock.
	require.Equal(t, 50, bia.XpAwarded)
	require.Equal(t, 1, bia.LevelAfter)

	snapshot, found, err := f.statsRepo.GetByUser(context.Background(), "user-ana")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1, snapshot.Games)
	require.Equal(t, 2, snapshot.Goals)
	require.Equal(t, 1, snapshot.Wins)
	require.Equal(t, 1, snapshot.MvpCount)
	require.Equal(t, 310, snapshot.TotalXp)
	require.Equal(t, 1, snapshot.BestStreak)

	participation, found, err := f.seasonRepo.GetParticipation(context.Background(), "season-1", "user-ana")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, participation.Window, 1)
	require.Equal(t, 1, participation.Wins)
	require.Greater(t, participation.LeagueRating, 0.0)

	processed, err := f.matchRepo.IsProcessed(context.Background(), "match-1")
	require.NoError(t, err)
	require.True(t, processed)
}

func TestProcessMatch_RunTwiceChangesNothing(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA, Goals: 1},
	})

	first, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.Len(t, first.Awards, 1)

	afterFirst, _, err := f.statsRepo.GetByUser(context.Background(), "user-ana")
	require.NoError(t, err)

	second, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.True(t, second.AlreadyProcessed)
	require.Empty(t, second.Awards)

	afterSecond, _, err := f.statsRepo.GetByUser(context.Background(), "user-ana")
	require.NoError(t, err)
	require.Equal(t, afterFirst, afterSecond)

	entries, err := f.ledgerRepo.ListByUser(context.Background(), "user-ana")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestProcessMatch_RetrySkipsLedgeredPlayers(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
		{MatchID: "match-1", UserID: "user-bia", Status: match.ConfirmationConfirmed, Team: match.TeamB},
	})

	// Simulate a partially failed earlier run that ledgered only user-ana.
	require.NoError(t, f.ledgerRepo.Append(context.Background(), ledger.Entry{
		ID:      "entry-ana",
		MatchID: "match-1",
		UserID:  "user-ana",
	}))

	result, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.Equal(t, 1, result.PlayersProcessed)
	require.Equal(t, 1, result.PlayersSkipped)
	require.Len(t, result.Awards, 1)
	require.Equal(t, "user-bia", result.Awards[0].UserID)

	// The skipped player got no second award.
	entries, err := f.ledgerRepo.ListByUser(context.Background(), "user-ana")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestProcessMatch_EmptyRosterStillMarksProcessed(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationDeclined, Team: match.TeamA},
	})

	result, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.Empty(t, result.Awards)
	require.Zero(t, result.PlayersProcessed)

	processed, err := f.matchRepo.IsProcessed(context.Background(), "match-1")
	require.NoError(t, err)
	require.True(t, processed)
}

func TestProcessMatch_ClampsNegativeAwardAtZero(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	m.WorstUserID = "user-ana"
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamB},
	})

	settings := xp.DefaultSettings()
	settings.GroupID = "grupo-x"
	settings.Presence = 0
	settings.WorstPenalty = -500
	_, err := f.settingsRepo.Upsert(context.Background(), settings)
	require.NoError(t, err)

	result, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)
	require.Len(t, result.Awards, 1)

	award := result.Awards[0]
	require.True(t, award.Breakdown.ClampedAtZero)
	require.Equal(t, 0, award.XpAwarded)
	require.Equal(t, 0, award.XpAfter)
	require.Equal(t, 1, award.LevelAfter)
}

func TestProcessMatch_BackfilledMatchReplaysStreak(t *testing.T) {
	t.Parallel()

	recent := finishedMatch("match-2", 12)
	backfilled := finishedMatch("match-1", 5)
	f := newProcessingFixture(t, []match.Match{recent, backfilled}, []match.Confirmation{
		{MatchID: "match-2", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
	})

	_, err := f.service.ProcessMatch(context.Background(), "match-2")
	require.NoError(t, err)

	// Processing the older match afterwards must replay, not corrupt.
	_, err = f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)

	state, found, err := f.streakRepo.Get(context.Background(), "user-ana", "quarta-21h")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2, state.CurrentStreak)
	require.Equal(t, 2, state.LongestStreak)
	require.Equal(t, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), state.LastGameDate)
}

func TestProcessMatch_InputErrors(t *testing.T) {
	t.Parallel()

	live := finishedMatch("match-live", 5)
	live.Status = match.StatusLive
	f := newProcessingFixture(t, []match.Match{live}, []match.Confirmation{
		{MatchID: "match-live", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
	})

	_, err := f.service.ProcessMatch(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.ProcessMatch(context.Background(), "match-missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.ProcessMatch(context.Background(), "match-live")
	require.ErrorIs(t, err, ErrInvalidInput)

	// A failed run leaves the gate down for retries.
	processed, perr := f.matchRepo.IsProcessed(context.Background(), "match-live")
	require.NoError(t, perr)
	require.False(t, processed)
}

func TestProcessMatch_SeasonFromMatchOverridesActive(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	m.SeasonID = "season-explicit"
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
	})

	_, err := f.service.ProcessMatch(context.Background(), "match-1")
	require.NoError(t, err)

	_, found, err := f.seasonRepo.GetParticipation(context.Background(), "season-explicit", "user-ana")
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = f.seasonRepo.GetParticipation(context.Background(), "season-1", "user-ana")
	require.NoError(t, err)
	require.False(t, found)
}

func TestProcessMatch_ConcurrentCallsCollapse(t *testing.T) {
	t.Parallel()

	m := finishedMatch("match-1", 5)
	f := newProcessingFixture(t, []match.Match{m}, []match.Confirmation{
		{MatchID: "match-1", UserID: "user-ana", Status: match.ConfirmationConfirmed, Team: match.TeamA},
	})

	const callers = 8
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := f.service.ProcessMatch(context.Background(), "match-1")
			results <- err
		}()
	}
	for i := 0; i < callers; i++ {
		require.NoError(t, <-results)
	}

	entries, err := f.ledgerRepo.ListByUser(context.Background(), "user-ana")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestProcessMatch_DuplicateLedgerAppendIsNoOp(t *testing.T) {
	t.Parallel()

	f := newProcessingFixture(t, nil, nil)
	entry := ledger.Entry{ID: "e1", MatchID: "m1", UserID: "u1"}
	require.NoError(t, f.ledgerRepo.Append(context.Background(), entry))

	err := f.ledgerRepo.Append(context.Background(), ledger.Entry{ID: "e2", MatchID: "m1", UserID: "u1"})
	require.True(t, errors.Is(err, ledger.ErrDuplicateEntry))
}
