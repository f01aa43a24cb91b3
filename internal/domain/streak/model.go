package streak

import "time"

// UserStreak tracks consecutive attendance for a user, optionally scoped to
// one recurring schedule.
type UserStreak struct {
	UserID          string
	ScheduleID      string
	CurrentStreak   int
	LongestStreak   int
	LastGameDate    time.Time
	StreakStartedAt time.Time
}

// Policy controls when a match continues a streak.
type Policy struct {
	// MaxGapDays is the largest calendar-day gap between consecutive matches
	// that still counts as continuation.
	MaxGapDays int
}

func DefaultPolicy() Policy {
	return Policy{MaxGapDays: 8}
}
