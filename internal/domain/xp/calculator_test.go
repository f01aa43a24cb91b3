package xp

import (
	"testing"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/outcome"
)

func TestCalculate_ComponentSums(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	o := outcome.PlayerGameOutcome{
		UserID:  "user-a",
		Goals:   2,
		Assists: 1,
		Saves:   3,
		Result:  outcome.ResultWin,
		WasMvp:  true,
	}

	b := Calculate(o, settings, 1)

	if b.Participation != 10 {
		t.Fatalf("unexpected participation: %d", b.Participation)
	}
	if b.Goals != 40 {
		t.Fatalf("unexpected goals component: %d", b.Goals)
	}
	if b.Assists != 15 {
		t.Fatalf("unexpected assists component: %d", b.Assists)
	}
	if b.Saves != 15 {
		t.Fatalf("unexpected saves component: %d", b.Saves)
	}
	if b.Result != 30 {
		t.Fatalf("unexpected result component: %d", b.Result)
	}
	if b.Mvp != 50 {
		t.Fatalf("unexpected mvp component: %d", b.Mvp)
	}
	if b.StreakBonus != 0 {
		t.Fatalf("streak of 1 should earn no bonus, got %d", b.StreakBonus)
	}
	if b.MilestoneBonus != 0 {
		t.Fatalf("calculator must leave milestone bonus at zero, got %d", b.MilestoneBonus)
	}

	want := 10 + 40 + 15 + 15 + 30 + 50
	if b.Total != want {
		t.Fatalf("unexpected total: got %d want %d", b.Total, want)
	}
}

func TestCalculate_WinAndDrawAreExclusive(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()

	win := Calculate(outcome.PlayerGameOutcome{Result: outcome.ResultWin}, settings, 0)
	if win.Result != settings.Win {
		t.Fatalf("unexpected win bonus: %d", win.Result)
	}

	draw := Calculate(outcome.PlayerGameOutcome{Result: outcome.ResultDraw}, settings, 0)
	if draw.Result != settings.Draw {
		t.Fatalf("unexpected draw bonus: %d", draw.Result)
	}

	loss := Calculate(outcome.PlayerGameOutcome{Result: outcome.ResultLoss}, settings, 0)
	if loss.Result != 0 {
		t.Fatalf("loss must earn no result bonus, got %d", loss.Result)
	}
}

func TestCalculate_CleanSheetAndBestKeeper(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	o := outcome.PlayerGameOutcome{
		Saves:         5,
		Result:        outcome.ResultWin,
		WasBestKeeper: true,
		CleanSheet:    true,
	}

	b := Calculate(o, settings, 0)
	if b.CleanSheet != settings.CleanSheet {
		t.Fatalf("unexpected clean sheet component: %d", b.CleanSheet)
	}
	if b.BestKeeper != settings.BestKeeper {
		t.Fatalf("unexpected best keeper component: %d", b.BestKeeper)
	}
}

func TestCalculate_StreakBonusUsesSingleHighestTier(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()

	tests := []struct {
		streak int
		want   int
	}{
		{streak: 0, want: 0},
		{streak: 2, want: 0},
		{streak: 3, want: 15},
		{streak: 4, want: 15},
		{streak: 5, want: 30},
		{streak: 9, want: 30},
		{streak: 10, want: 75},
		{streak: 40, want: 75},
	}
	for _, tt := range tests {
		b := Calculate(outcome.PlayerGameOutcome{}, settings, tt.streak)
		if b.StreakBonus != tt.want {
			t.Fatalf("streak %d: got bonus %d want %d", tt.streak, b.StreakBonus, tt.want)
		}
	}
}

func TestCalculate_WorstPenaltyCanGoNegative(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.Presence = 0
	settings.WorstPenalty = -50

	b := Calculate(outcome.PlayerGameOutcome{Result: outcome.ResultLoss, WasWorst: true}, settings, 0)
	if b.Total != -50 {
		t.Fatalf("expected total -50, got %d", b.Total)
	}
}

func TestBreakdown_ClampTotal(t *testing.T) {
	t.Parallel()

	b := Breakdown{Total: -40}

	clamped := b.ClampTotal(25)
	if clamped.Total != -25 {
		t.Fatalf("expected total truncated to -25, got %d", clamped.Total)
	}
	if !clamped.ClampedAtZero {
		t.Fatal("expected clamp flag on breakdown")
	}

	untouched := b.ClampTotal(100)
	if untouched.Total != -40 || untouched.ClampedAtZero {
		t.Fatalf("expected unchanged breakdown, got total=%d clamped=%t", untouched.Total, untouched.ClampedAtZero)
	}
}

func TestBreakdown_AddMilestoneBonus(t *testing.T) {
	t.Parallel()

	b := Breakdown{Total: 60}
	got := b.AddMilestoneBonus(150)
	if got.MilestoneBonus != 150 {
		t.Fatalf("unexpected milestone bonus: %d", got.MilestoneBonus)
	}
	if got.Total != 210 {
		t.Fatalf("unexpected total: %d", got.Total)
	}
	if b.Total != 60 {
		t.Fatalf("receiver must not mutate, got %d", b.Total)
	}
}
