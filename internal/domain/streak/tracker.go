package streak

import (
	"sort"
	"time"
)

// Advance folds one match date into the streak state. Dates are compared at
// calendar-day granularity in UTC.
//
// Callers must check IsOutOfOrder first: advancing on a date earlier than
// LastGameDate silently corrupts the streak, so out-of-order input goes
// through Replay instead.
func Advance(prior UserStreak, gameDate time.Time, policy Policy) UserStreak {
	day := truncateDay(gameDate)

	if prior.CurrentStreak == 0 || prior.LastGameDate.IsZero() {
		prior.CurrentStreak = 1
		prior.StreakStartedAt = day
	} else {
		gap := daysBetween(truncateDay(prior.LastGameDate), day)
		switch {
		case gap == 0:
			// Same-day double header keeps the streak without incrementing.
		case gap <= policy.MaxGapDays:
			prior.CurrentStreak++
		default:
			prior.CurrentStreak = 1
			prior.StreakStartedAt = day
		}
	}

	prior.LastGameDate = day
	if prior.CurrentStreak > prior.LongestStreak {
		prior.LongestStreak = prior.CurrentStreak
	}
	return prior
}

// IsOutOfOrder reports whether gameDate lands before the recorded last game,
// which happens when a historical match is backfilled after the fact.
func IsOutOfOrder(prior UserStreak, gameDate time.Time) bool {
	if prior.LastGameDate.IsZero() {
		return false
	}
	return truncateDay(gameDate).Before(truncateDay(prior.LastGameDate))
}

// Replay rebuilds the streak from the user's full match-date history. It
// sorts a copy of the input, so callers can pass repository order as-is.
func Replay(userID, scheduleID string, dates []time.Time, policy Policy) UserStreak {
	ordered := make([]time.Time, len(dates))
	copy(ordered, dates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	state := UserStreak{UserID: userID, ScheduleID: scheduleID}
	for _, date := range ordered {
		state = Advance(state, date, policy)
	}
	return state
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
