package milestone

import (
	"testing"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

func unlockedSet(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func newUnlocks(out CheckOutcome) map[string]bool {
	got := make(map[string]bool, len(out.NewUnlockIDs))
	for _, id := range out.NewUnlockIDs {
		got[id] = true
	}
	return got
}

func TestCheckAll_ZeroGoalsUnlocksNoGoalMilestone(t *testing.T) {
	t.Parallel()

	out := CheckAll(NewCatalog(), stats.Statistics{Games: 1}, nil)

	got := newUnlocks(out)
	if got["first_goal"] || got["goals_10"] || got["goals_100"] {
		t.Fatalf("goal milestones must not unlock at zero goals: %v", out.NewUnlockIDs)
	}
	if !got["first_game"] {
		t.Fatal("expected first_game unlock for one played game")
	}
}

func TestCheckAll_FirstGoalAwardsBonus(t *testing.T) {
	t.Parallel()

	out := CheckAll(NewCatalog(), stats.Statistics{Games: 1, Goals: 1}, unlockedSet("first_game"))

	got := newUnlocks(out)
	if !got["first_goal"] {
		t.Fatal("expected first_goal unlock at one goal")
	}
	if got["first_game"] {
		t.Fatal("previously unlocked milestone must not re-unlock")
	}
	if out.BonusXp != 50 {
		t.Fatalf("expected first_goal bonus 50, got %d", out.BonusXp)
	}
}

func TestCheckAll_MultipleThresholdsCrossAtOnce(t *testing.T) {
	t.Parallel()

	// A backfill can land 10 goals in one aggregate update.
	out := CheckAll(NewCatalog(), stats.Statistics{Goals: 10}, nil)

	got := newUnlocks(out)
	if !got["first_goal"] || !got["goals_10"] {
		t.Fatalf("expected first_goal and goals_10 together, got %v", out.NewUnlockIDs)
	}
	if out.BonusXp < 150 {
		t.Fatalf("bonus must include both rewards, got %d", out.BonusXp)
	}
}

func TestCheckAll_InclusiveBoundary(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()

	below := CheckAll(catalog, stats.Statistics{Goals: 99}, nil)
	if newUnlocks(below)["goals_100"] {
		t.Fatal("goals_100 must not unlock at 99")
	}

	at := CheckAll(catalog, stats.Statistics{Goals: 100}, nil)
	if !newUnlocks(at)["goals_100"] {
		t.Fatal("goals_100 must unlock at exactly 100")
	}
}

func TestCheckAll_RerunAfterPersistIsEmpty(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	snapshot := stats.Statistics{Games: 12, Goals: 11, Wins: 6, MvpCount: 1, BestStreak: 5}

	first := CheckAll(catalog, snapshot, nil)
	if len(first.NewUnlockIDs) == 0 {
		t.Fatal("expected unlocks on first pass")
	}

	persisted := unlockedSet(first.NewUnlockIDs...)
	second := CheckAll(catalog, snapshot, persisted)
	if len(second.NewUnlockIDs) != 0 {
		t.Fatalf("re-check with persisted unlocks must add nothing, got %v", second.NewUnlockIDs)
	}
	if second.BonusXp != 0 {
		t.Fatalf("re-check must award no bonus, got %d", second.BonusXp)
	}
}

func TestCheckAll_ReportsEveryCatalogEntry(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	out := CheckAll(catalog, stats.Statistics{}, nil)
	if len(out.Results) != len(catalog.Definitions()) {
		t.Fatalf("expected one result per definition, got %d of %d", len(out.Results), len(catalog.Definitions()))
	}
	for _, result := range out.Results {
		if result.Unlocked || result.IsNewUnlock {
			t.Fatalf("empty snapshot must unlock nothing, but %s unlocked", result.Definition.ID)
		}
	}
}
