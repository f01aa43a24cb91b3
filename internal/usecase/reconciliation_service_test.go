package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/memory"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
)

type reconcileFixture struct {
	service    *ReconciliationService
	ledgerRepo *memory.LedgerRepository
	statsRepo  *memory.StatsRepository
	unlockRepo *memory.UnlockRepository
}

func newReconcileFixture(t *testing.T) reconcileFixture {
	t.Helper()

	f := reconcileFixture{
		ledgerRepo: memory.NewLedgerRepository(),
		statsRepo:  memory.NewStatsRepository(),
		unlockRepo: memory.NewUnlockRepository(),
	}
	f.service = NewReconciliationService(
		f.ledgerRepo,
		f.statsRepo,
		f.unlockRepo,
		milestone.NewCatalog(),
		logging.NewNop(),
	)
	return f
}

func ledgerEntry(matchID, userID string, day int, delta stats.Delta) ledger.Entry {
	return ledger.Entry{
		ID:       matchID + "-" + userID,
		MatchID:  matchID,
		UserID:   userID,
		Delta:    delta,
		PlayedAt: time.Date(2026, 8, day, 21, 0, 0, 0, time.UTC),
	}
}

func seedUserHistory(t *testing.T, f reconcileFixture, userID string) stats.Statistics {
	t.Helper()

	deltas := []stats.Delta{
		{Games: 1, Goals: 1, Wins: 1, Xp: 90, StreakAfterGame: 1},
		{Games: 1, Assists: 1, Losses: 1, Xp: 25, StreakAfterGame: 2},
		{Games: 1, Goals: 2, Draws: 1, MvpCount: 1, Xp: 120, StreakAfterGame: 3},
	}
	expected := stats.Statistics{UserID: userID}
	for idx, delta := range deltas {
		entry := ledgerEntry("match-"+string(rune('a'+idx)), userID, 5+7*idx, delta)
		require.NoError(t, f.ledgerRepo.Append(context.Background(), entry))
		expected = expected.Apply(delta)
	}
	return expected
}

func TestRecomputeFromLedger_FoldsDeltas(t *testing.T) {
	t.Parallel()

	entries := []ledger.Entry{
		{UserID: "user-a", Delta: stats.Delta{Games: 1, Goals: 2, Wins: 1, Xp: 110, StreakAfterGame: 1}},
		{UserID: "user-a", Delta: stats.Delta{Games: 1, Saves: 4, Losses: 1, Xp: 30, StreakAfterGame: 2}},
	}

	got := RecomputeFromLedger("user-a", entries)
	require.Equal(t, 2, got.Games)
	require.Equal(t, 2, got.Goals)
	require.Equal(t, 4, got.Saves)
	require.Equal(t, 1, got.Wins)
	require.Equal(t, 1, got.Losses)
	require.Equal(t, 140, got.TotalXp)
	require.Equal(t, 2, got.BestStreak)

	// Pure: a second pass over the same entries reproduces the result.
	require.Equal(t, got, RecomputeFromLedger("user-a", entries))
}

func TestReconcileUser_NoDriftIsNoOp(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	expected := seedUserHistory(t, f, "user-a")
	require.NoError(t, f.statsRepo.Replace(context.Background(), expected))
	for _, id := range []string{"first_game", "first_goal", "first_assist", "first_win", "first_mvp"} {
		require.NoError(t, f.unlockRepo.Record(context.Background(), milestone.Unlock{UserID: "user-a", MilestoneID: id, Count: 1}))
	}

	report, err := f.service.ReconcileUser(context.Background(), "user-a", false)
	require.NoError(t, err)
	require.False(t, report.Drifted)
	require.Empty(t, report.MissingUnlocks)
	require.False(t, report.Corrected)
	require.Equal(t, 3, report.Entries)
}

func TestReconcileUser_DryRunReportsWithoutWriting(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	seedUserHistory(t, f, "user-a")

	// Corrupt the stored aggregate.
	corrupted := stats.Statistics{UserID: "user-a", Games: 99, TotalXp: 1}
	require.NoError(t, f.statsRepo.Replace(context.Background(), corrupted))

	report, err := f.service.ReconcileUser(context.Background(), "user-a", true)
	require.NoError(t, err)
	require.True(t, report.Drifted)
	require.Contains(t, report.DriftedFields, "games")
	require.Contains(t, report.DriftedFields, "total_xp")
	require.NotEmpty(t, report.MissingUnlocks)
	require.False(t, report.Corrected)

	stored, _, err := f.statsRepo.GetByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Equal(t, corrupted.Games, stored.Games)

	unlocks, err := f.unlockRepo.ListIDsByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Empty(t, unlocks)
}

func TestReconcileUser_RepairsDriftAndMissingUnlocks(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	expected := seedUserHistory(t, f, "user-a")
	require.NoError(t, f.statsRepo.Replace(context.Background(), stats.Statistics{UserID: "user-a", Games: 1}))

	report, err := f.service.ReconcileUser(context.Background(), "user-a", false)
	require.NoError(t, err)
	require.True(t, report.Drifted)
	require.True(t, report.Corrected)

	stored, _, err := f.statsRepo.GetByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Equal(t, expected.Games, stored.Games)
	require.Equal(t, expected.Goals, stored.Goals)
	require.Equal(t, expected.TotalXp, stored.TotalXp)
	require.Equal(t, expected.BestStreak, stored.BestStreak)

	unlocked, err := f.unlockRepo.ListIDsByUser(context.Background(), "user-a")
	require.NoError(t, err)
	for _, id := range []string{"first_game", "first_goal", "first_assist", "first_win", "first_mvp"} {
		require.Contains(t, unlocked, id)
	}

	// A second pass finds nothing left to repair.
	again, err := f.service.ReconcileUser(context.Background(), "user-a", false)
	require.NoError(t, err)
	require.False(t, again.Drifted)
	require.Empty(t, again.MissingUnlocks)
}

func TestReconcileUser_RequiresUserID(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	_, err := f.service.ReconcileUser(context.Background(), "", false)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReconcile_WalksAllUsers(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	healthy := seedUserHistory(t, f, "user-a")
	require.NoError(t, f.statsRepo.Replace(context.Background(), healthy))
	for _, id := range []string{"first_game", "first_goal", "first_assist", "first_win", "first_mvp"} {
		require.NoError(t, f.unlockRepo.Record(context.Background(), milestone.Unlock{UserID: "user-a", MilestoneID: id, Count: 1}))
	}

	seedUserHistory(t, f, "user-b")
	require.NoError(t, f.statsRepo.Replace(context.Background(), stats.Statistics{UserID: "user-b", Games: 42}))

	result, err := f.service.Reconcile(context.Background(), ReconcileInput{})
	require.NoError(t, err)
	require.Equal(t, 2, result.UsersChecked)
	require.Equal(t, 1, result.UsersDrifted)
	require.Equal(t, 1, result.UsersCorrected)
	require.Zero(t, result.FailedCount)
	require.Len(t, result.Reports, 2)
	require.Equal(t, "user-a", result.Reports[0].UserID)
	require.Equal(t, "user-b", result.Reports[1].UserID)
}

func TestReconcile_DryRunPropagates(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	seedUserHistory(t, f, "user-a")
	require.NoError(t, f.statsRepo.Replace(context.Background(), stats.Statistics{UserID: "user-a"}))

	result, err := f.service.Reconcile(context.Background(), ReconcileInput{DryRun: true})
	require.NoError(t, err)
	require.True(t, result.DryRun)
	require.Equal(t, 1, result.UsersDrifted)
	require.Zero(t, result.UsersCorrected)
}

func TestReconcile_EmptyInput(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	result, err := f.service.Reconcile(context.Background(), ReconcileInput{})
	require.NoError(t, err)
	require.Zero(t, result.UsersChecked)
	require.Empty(t, result.Reports)
}

func TestReconcile_ConfiguredWorkersAndBatchSize(t *testing.T) {
	t.Parallel()

	f := newReconcileFixture(t)
	for _, userID := range []string{"user-a", "user-b", "user-c"} {
		seedUserHistory(t, f, userID)
		require.NoError(t, f.statsRepo.Replace(context.Background(), stats.Statistics{UserID: userID}))
	}

	// Startup configuration rather than per-run input.
	f.service.SetMaxWorkers(2)
	f.service.SetBatchSize(1)

	result, err := f.service.Reconcile(context.Background(), ReconcileInput{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.WorkerCount)
	// Page size one still walks every user.
	require.Equal(t, 3, result.UsersChecked)

	// A per-run override wins over the configured default.
	override, err := f.service.Reconcile(context.Background(), ReconcileInput{DryRun: true, MaxWorkers: 1})
	require.NoError(t, err)
	require.Equal(t, 1, override.WorkerCount)

	// Out-of-range values keep the previous configuration.
	f.service.SetMaxWorkers(0)
	f.service.SetBatchSize(-5)
	again, err := f.service.Reconcile(context.Background(), ReconcileInput{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 2, again.WorkerCount)
	require.Equal(t, 3, again.UsersChecked)
}

func TestNormalizeReconcileWorkerCount(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, normalizeReconcileWorkerCount(4, 0))
	require.Equal(t, defaultReconcileWorkers, normalizeReconcileWorkerCount(0, 100))
	require.Equal(t, maxReconcileWorkers, normalizeReconcileWorkerCount(64, 100))
	require.Equal(t, 3, normalizeReconcileWorkerCount(8, 3))
}
