package xp

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNegativeWeight    = errors.New("xp weight must be non-negative")
	ErrPositivePenalty   = errors.New("worst player penalty must be <= 0")
	ErrInvalidStreakTier = errors.New("invalid streak tier")
)

// StreakTier awards Bonus once the post-game streak reaches Games.
type StreakTier struct {
	Games int
	Bonus int
}

// Settings holds the per-group XP weights. A group admin can tune them, so
// every stored revision carries a version.
type Settings struct {
	GroupID    string
	Version    int
	Presence   int
	PerGoal    int
	PerAssist  int
	PerSave    int
	CleanSheet int
	Win        int
	Draw       int
	Mvp        int
	BestKeeper int
	// WorstPenalty is negative or zero.
	WorstPenalty int
	StreakTiers  []StreakTier
	UpdatedAt    time.Time
}

func DefaultSettings() Settings {
	return Settings{
		Version:      1,
		Presence:     10,
		PerGoal:      20,
		PerAssist:    15,
		PerSave:      5,
		CleanSheet:   25,
		Win:          30,
		Draw:         10,
		Mvp:          50,
		BestKeeper:   30,
		WorstPenalty: -10,
		StreakTiers: []StreakTier{
			{Games: 3, Bonus: 15},
			{Games: 5, Bonus: 30},
			{Games: 10, Bonus: 75},
		},
	}
}

func (s Settings) Validate() error {
	weights := map[string]int{
		"presence":    s.Presence,
		"per_goal":    s.PerGoal,
		"per_assist":  s.PerAssist,
		"per_save":    s.PerSave,
		"clean_sheet": s.CleanSheet,
		"win":         s.Win,
		"draw":        s.Draw,
		"mvp":         s.Mvp,
		"best_keeper": s.BestKeeper,
	}
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if weights[name] < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeWeight, name, weights[name])
		}
	}
	if s.WorstPenalty > 0 {
		return fmt.Errorf("%w: got %d", ErrPositivePenalty, s.WorstPenalty)
	}

	lastGames := 0
	for _, tier := range s.StreakTiers {
		if tier.Games <= lastGames {
			return fmt.Errorf("%w: tiers must be strictly increasing, got games=%d after games=%d", ErrInvalidStreakTier, tier.Games, lastGames)
		}
		if tier.Bonus < 0 {
			return fmt.Errorf("%w: bonus must be non-negative, got %d for games=%d", ErrInvalidStreakTier, tier.Bonus, tier.Games)
		}
		lastGames = tier.Games
	}
	return nil
}

// StreakBonus returns the single highest tier bonus reached by the post-game
// streak length. Lower tiers already crossed in earlier games do not stack.
func (s Settings) StreakBonus(streakLength int) int {
	bonus := 0
	for _, tier := range s.StreakTiers {
		if streakLength >= tier.Games {
			bonus = tier.Bonus
		}
	}
	return bonus
}
