package xp

import (
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/outcome"
)

// Breakdown itemizes one match's XP award for one player.
type Breakdown struct {
	Participation int `json:"participation"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	Saves         int `json:"saves"`
	CleanSheet    int `json:"clean_sheet"`
	Result        int `json:"result"`
	Mvp           int `json:"mvp"`
	BestKeeper    int `json:"best_keeper"`
	StreakBonus   int `json:"streak_bonus"`
	// WorstPenalty is zero or negative.
	WorstPenalty int `json:"worst_penalty"`
	// MilestoneBonus is filled in by the coordinator after the milestone
	// engine runs; Calculate always leaves it at zero.
	MilestoneBonus int `json:"milestone_bonus"`
	Total          int `json:"total"`
	// ClampedAtZero records that applying Total would have driven the user's
	// lifetime XP below zero and the award was truncated instead.
	ClampedAtZero bool `json:"clamped_at_zero,omitempty"`
}

// Calculate folds one normalized outcome into an XP breakdown. streakAfterGame
// is the streak length including this match, computed by the streak tracker
// before the award, because the streak bonus depends on the post-game value.
func Calculate(o outcome.PlayerGameOutcome, settings Settings, streakAfterGame int) Breakdown {
	b := Breakdown{
		Participation: settings.Presence,
		Goals:         o.Goals * settings.PerGoal,
		Assists:       o.Assists * settings.PerAssist,
		Saves:         o.Saves * settings.PerSave,
		StreakBonus:   settings.StreakBonus(streakAfterGame),
	}

	if o.CleanSheet {
		b.CleanSheet = settings.CleanSheet
	}
	switch o.Result {
	case outcome.ResultWin:
		b.Result = settings.Win
	case outcome.ResultDraw:
		b.Result = settings.Draw
	}
	if o.WasMvp {
		b.Mvp = settings.Mvp
	}
	if o.WasBestKeeper {
		b.BestKeeper = settings.BestKeeper
	}
	if o.WasWorst {
		b.WorstPenalty = settings.WorstPenalty
	}

	b.Total = b.Participation + b.Goals + b.Assists + b.Saves + b.CleanSheet +
		b.Result + b.Mvp + b.BestKeeper + b.StreakBonus + b.WorstPenalty
	return b
}

// AddMilestoneBonus returns a copy of the breakdown with the milestone reward
// folded into the total.
func (b Breakdown) AddMilestoneBonus(bonus int) Breakdown {
	b.MilestoneBonus = bonus
	b.Total += bonus
	return b
}

// ClampTotal truncates the award so xpBefore+Total never goes below zero. The
// clamp is recorded on the breakdown instead of failing the whole match.
func (b Breakdown) ClampTotal(xpBefore int) Breakdown {
	if xpBefore+b.Total < 0 {
		b.Total = -xpBefore
		b.ClampedAtZero = true
	}
	return b
}
