package stats

import (
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/outcome"
)

// Statistics is the per-user cumulative aggregate. It is only ever mutated by
// folding ledger deltas, so replaying the full ledger must reproduce it.
type Statistics struct {
	UserID          string
	Games           int
	Goals           int
	Assists         int
	Saves           int
	Wins            int
	Draws           int
	Losses          int
	MvpCount        int
	BestKeeperCount int
	WorstCount      int
	CleanSheets     int
	YellowCards     int
	RedCards        int
	TotalXp         int
	BestStreak      int
	UpdatedAt       time.Time
}

// Delta is the contribution of one ledger entry to the aggregate.
type Delta struct {
	Games           int
	Goals           int
	Assists         int
	Saves           int
	Wins            int
	Draws           int
	Losses          int
	MvpCount        int
	BestKeeperCount int
	WorstCount      int
	CleanSheets     int
	YellowCards     int
	RedCards        int
	Xp              int
	StreakAfterGame int
}

// DeltaFromOutcome maps a normalized outcome plus the awarded XP onto an
// aggregate delta.
func DeltaFromOutcome(o outcome.PlayerGameOutcome, awardedXp, streakAfterGame int) Delta {
	d := Delta{
		Games:           1,
		Goals:           o.Goals,
		Assists:         o.Assists,
		Saves:           o.Saves,
		YellowCards:     o.YellowCards,
		RedCards:        o.RedCards,
		Xp:              awardedXp,
		StreakAfterGame: streakAfterGame,
	}
	switch o.Result {
	case outcome.ResultWin:
		d.Wins = 1
	case outcome.ResultDraw:
		d.Draws = 1
	default:
		d.Losses = 1
	}
	if o.WasMvp {
		d.MvpCount = 1
	}
	if o.WasBestKeeper {
		d.BestKeeperCount = 1
	}
	if o.WasWorst {
		d.WorstCount = 1
	}
	if o.CleanSheet {
		d.CleanSheets = 1
	}
	return d
}

// Apply folds one delta into the aggregate.
func (s Statistics) Apply(d Delta) Statistics {
	s.Games += d.Games
	s.Goals += d.Goals
	s.Assists += d.Assists
	s.Saves += d.Saves
	s.Wins += d.Wins
	s.Draws += d.Draws
	s.Losses += d.Losses
	s.MvpCount += d.MvpCount
	s.BestKeeperCount += d.BestKeeperCount
	s.WorstCount += d.WorstCount
	s.CleanSheets += d.CleanSheets
	s.YellowCards += d.YellowCards
	s.RedCards += d.RedCards
	s.TotalXp += d.Xp
	if s.TotalXp < 0 {
		s.TotalXp = 0
	}
	if d.StreakAfterGame > s.BestStreak {
		s.BestStreak = d.StreakAfterGame
	}
	return s
}
