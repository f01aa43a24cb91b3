package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
)

type streakTableModel struct {
	UserID          string    `db:"user_id"`
	ScheduleID      string    `db:"schedule_id"`
	CurrentStreak   int       `db:"current_streak"`
	LongestStreak   int       `db:"longest_streak"`
	LastGameDate    time.Time `db:"last_game_date"`
	StreakStartedAt time.Time `db:"streak_started_at"`
}

type StreakRepository struct {
	db *sqlx.DB
}

func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

func (r *StreakRepository) Get(ctx context.Context, userID, scheduleID string) (streak.UserStreak, bool, error) {
	const query = `SELECT * FROM user_streaks WHERE user_id = $1 AND schedule_id = $2`

	var row streakTableModel
	if err := r.db.GetContext(ctx, &row, query, userID, scheduleID); err != nil {
		if isNotFound(err) {
			return streak.UserStreak{}, false, nil
		}
		return streak.UserStreak{}, false, crerr.Wrap(err, "get user streak")
	}
	return streak.UserStreak{
		UserID:          row.UserID,
		ScheduleID:      row.ScheduleID,
		CurrentStreak:   row.CurrentStreak,
		LongestStreak:   row.LongestStreak,
		LastGameDate:    row.LastGameDate,
		StreakStartedAt: row.StreakStartedAt,
	}, true, nil
}

func (r *StreakRepository) Upsert(ctx context.Context, state streak.UserStreak) error {
	const query = `INSERT INTO user_streaks (
	user_id, schedule_id, current_streak, longest_streak, last_game_date, streak_started_at
) VALUES (
	:user_id, :schedule_id, :current_streak, :longest_streak, :last_game_date, :streak_started_at
)
ON CONFLICT (user_id, schedule_id) DO UPDATE SET
	current_streak = EXCLUDED.current_streak,
	longest_streak = EXCLUDED.longest_streak,
	last_game_date = EXCLUDED.last_game_date,
	streak_started_at = EXCLUDED.streak_started_at`

	row := streakTableModel{
		UserID:          state.UserID,
		ScheduleID:      state.ScheduleID,
		CurrentStreak:   state.CurrentStreak,
		LongestStreak:   state.LongestStreak,
		LastGameDate:    state.LastGameDate,
		StreakStartedAt: state.StreakStartedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return crerr.Wrap(err, "upsert user streak")
	}
	return nil
}
