package ledger

import (
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
)

// Entry is the immutable record of one match's XP award to one user.
// (MatchID, UserID) is the idempotency key: the ledger is append-only and an
// entry is never mutated or deleted. Every derived aggregate must be
// re-derivable by replaying a user's entries in order.
type Entry struct {
	ID          string
	MatchID     string
	UserID      string
	GroupID     string
	SeasonID    string
	XpBefore    int
	XpAfter     int
	LevelBefore int
	LevelAfter  int
	Breakdown   xp.Breakdown
	// Delta is this entry's contribution to the user's aggregate. Replaying a
	// user's entries and folding each Delta must reproduce the stored
	// aggregate, which is what reconciliation verifies.
	Delta stats.Delta
	// UnlockedMilestoneIDs lists milestones first unlocked by this entry.
	UnlockedMilestoneIDs []string
	StreakAfterGame      int
	PlayedAt             time.Time
	CreatedAt            time.Time
}
