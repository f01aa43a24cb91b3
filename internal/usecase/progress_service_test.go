package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/memory"
)

type progressFixture struct {
	service    *ProgressService
	statsRepo  *memory.StatsRepository
	unlockRepo *memory.UnlockRepository
	ledgerRepo *memory.LedgerRepository
	streakRepo *memory.StreakRepository
}

func newProgressFixture(t *testing.T) progressFixture {
	t.Helper()

	f := progressFixture{
		statsRepo:  memory.NewStatsRepository(),
		unlockRepo: memory.NewUnlockRepository(),
		ledgerRepo: memory.NewLedgerRepository(),
		streakRepo: memory.NewStreakRepository(),
	}
	f.service = NewProgressService(
		f.statsRepo,
		f.unlockRepo,
		f.ledgerRepo,
		f.streakRepo,
		milestone.NewCatalog(),
		xp.NewLevelTable(),
	)
	return f
}

func TestGetUserProgress_AssemblesProfile(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	require.NoError(t, f.statsRepo.Replace(context.Background(), stats.Statistics{
		UserID: "user-a", Games: 12, Goals: 7, TotalXp: 310, BestStreak: 4,
	}))
	require.NoError(t, f.streakRepo.Upsert(context.Background(), streak.UserStreak{
		UserID: "user-a", ScheduleID: "quarta-21h", CurrentStreak: 3, LongestStreak: 4,
	}))
	require.NoError(t, f.unlockRepo.Record(context.Background(), milestone.Unlock{
		UserID: "user-a", MilestoneID: "first_goal", Count: 1,
		UnlockedAt: time.Date(2026, 8, 5, 23, 0, 0, 0, time.UTC),
	}))

	progress, err := f.service.GetUserProgress(context.Background(), "user-a", "quarta-21h")
	require.NoError(t, err)
	require.Equal(t, 310, progress.Stats.TotalXp)
	require.Equal(t, 3, progress.Level)
	require.Equal(t, 60, progress.XpIntoLevel)
	require.Equal(t, 3, progress.CurrentStreak)
	require.Equal(t, 4, progress.LongestStreak)
	require.Len(t, progress.Unlocks, 1)
	require.Equal(t, "first_goal", progress.Unlocks[0].MilestoneID)
	require.Equal(t, "Primeiro Gol", progress.Unlocks[0].Name)
	require.Equal(t, "2026-08-05T23:00:00Z", progress.Unlocks[0].UnlockedAt)
}

func TestGetUserProgress_UnknownUserGetsEmptyProfile(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	progress, err := f.service.GetUserProgress(context.Background(), "user-new", "")
	require.NoError(t, err)
	require.Equal(t, 1, progress.Level)
	require.Zero(t, progress.Stats.Games)
	require.Empty(t, progress.Unlocks)
}

func TestGetUserProgress_RetiredMilestoneRendersBare(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	require.NoError(t, f.unlockRepo.Record(context.Background(), milestone.Unlock{
		UserID: "user-a", MilestoneID: "retired_badge", Count: 1,
	}))

	progress, err := f.service.GetUserProgress(context.Background(), "user-a", "")
	require.NoError(t, err)
	require.Len(t, progress.Unlocks, 1)
	require.Equal(t, "retired_badge", progress.Unlocks[0].Name)
	require.Equal(t, milestone.CategorySpecial, progress.Unlocks[0].Category)
}

func TestGetUserProgress_RequiresUserID(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	_, err := f.service.GetUserProgress(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListRecentAwards_NewestFirstAndTrimmed(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	for day := 1; day <= 5; day++ {
		require.NoError(t, f.ledgerRepo.Append(context.Background(), ledger.Entry{
			ID:       string(rune('a' + day)),
			MatchID:  "match-" + string(rune('0'+day)),
			UserID:   "user-a",
			PlayedAt: time.Date(2026, 8, day, 21, 0, 0, 0, time.UTC),
		}))
	}

	entries, err := f.service.ListRecentAwards(context.Background(), "user-a", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "match-5", entries[0].MatchID)
	require.Equal(t, "match-3", entries[2].MatchID)
}

func TestListRecentAwards_DefaultLimit(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	entries, err := f.service.ListRecentAwards(context.Background(), "user-a", 0)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = f.service.ListRecentAwards(context.Background(), "", 5)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListMilestones_HiddenUntilEarned(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)

	all, err := f.service.ListMilestones(context.Background(), "user-a", "")
	require.NoError(t, err)
	for _, status := range all {
		require.NotEqual(t, "worst_5", status.MilestoneID, "hidden milestone must stay hidden before unlock")
	}

	require.NoError(t, f.unlockRepo.Record(context.Background(), milestone.Unlock{
		UserID: "user-a", MilestoneID: "worst_5", Count: 1,
	}))

	all, err = f.service.ListMilestones(context.Background(), "user-a", "")
	require.NoError(t, err)
	found := false
	for _, status := range all {
		if status.MilestoneID == "worst_5" {
			found = true
			require.True(t, status.Unlocked)
		}
	}
	require.True(t, found, "hidden milestone must appear once unlocked")
}

func TestListMilestones_CategoryFilter(t *testing.T) {
	t.Parallel()

	f := newProgressFixture(t)
	goals, err := f.service.ListMilestones(context.Background(), "", "goals")
	require.NoError(t, err)
	require.NotEmpty(t, goals)
	for _, status := range goals {
		require.Equal(t, milestone.CategoryGoals, status.Category)
	}
}
