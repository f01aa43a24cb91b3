package milestone

import (
	"strings"
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

type Category string

const (
	CategoryGames    Category = "GAMES"
	CategoryGoals    Category = "GOALS"
	CategoryAssists  Category = "ASSISTS"
	CategorySaves    Category = "SAVES"
	CategoryWins     Category = "WINS"
	CategoryMvp      Category = "MVP"
	CategoryStreak   Category = "STREAK"
	CategorySpecial  Category = "SPECIAL"
)

// NormalizeCategory maps free-form input onto the closed category set,
// falling back to SPECIAL for unknown values.
func NormalizeCategory(value string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(value))) {
	case CategoryGames, CategoryGoals, CategoryAssists, CategorySaves,
		CategoryWins, CategoryMvp, CategoryStreak, CategorySpecial:
		return Category(strings.ToUpper(strings.TrimSpace(value)))
	default:
		return CategorySpecial
	}
}

// Definition is one catalog entry. Predicate evaluates the inclusive
// threshold against a cumulative snapshot.
type Definition struct {
	ID        string
	Category  Category
	Name      string
	Emoji     string
	XpReward  int
	Hidden    bool
	Predicate func(stats.Statistics) bool
}

// Unlock records that a user crossed a milestone. (UserID, MilestoneID) is
// unique; Count tracks repeats for repeatable badges.
type Unlock struct {
	UserID      string
	MilestoneID string
	Count       int
	UnlockedAt  time.Time
}

// CheckResult is the engine's verdict for one catalog entry.
type CheckResult struct {
	Definition         Definition
	Unlocked           bool
	PreviouslyUnlocked bool
	IsNewUnlock        bool
}
