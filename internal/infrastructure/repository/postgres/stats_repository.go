package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
)

type statisticsTableModel struct {
	UserID          string    `db:"user_id"`
	Games           int       `db:"games"`
	Goals           int       `db:"goals"`
	Assists         int       `db:"assists"`
	Saves           int       `db:"saves"`
	Wins            int       `db:"wins"`
	Draws           int       `db:"draws"`
	Losses          int       `db:"losses"`
	MvpCount        int       `db:"mvp_count"`
	BestKeeperCount int       `db:"best_keeper_count"`
	WorstCount      int       `db:"worst_count"`
	CleanSheets     int       `db:"clean_sheets"`
	YellowCards     int       `db:"yellow_cards"`
	RedCards        int       `db:"red_cards"`
	TotalXp         int       `db:"total_xp"`
	BestStreak      int       `db:"best_streak"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m statisticsTableModel) toDomain() stats.Statistics {
	return stats.Statistics{
		UserID:          m.UserID,
		Games:           m.Games,
		Goals:           m.Goals,
		Assists:         m.Assists,
		Saves:           m.Saves,
		Wins:            m.Wins,
		Draws:           m.Draws,
		Losses:          m.Losses,
		MvpCount:        m.MvpCount,
		BestKeeperCount: m.BestKeeperCount,
		WorstCount:      m.WorstCount,
		CleanSheets:     m.CleanSheets,
		YellowCards:     m.YellowCards,
		RedCards:        m.RedCards,
		TotalXp:         m.TotalXp,
		BestStreak:      m.BestStreak,
		UpdatedAt:       m.UpdatedAt,
	}
}

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetByUser(ctx context.Context, userID string) (stats.Statistics, bool, error) {
	const query = `SELECT * FROM user_statistics WHERE user_id = $1`

	var row statisticsTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return stats.Statistics{}, false, nil
		}
		return stats.Statistics{}, false, crerr.Wrap(err, "get user statistics")
	}
	return row.toDomain(), true, nil
}

// ApplyDelta folds the delta into the stored row in a single upsert, which is
// what keeps concurrent per-player processing atomic without a transaction.
func (r *StatsRepository) ApplyDelta(ctx context.Context, userID string, delta stats.Delta) (stats.Statistics, error) {
	const query = `INSERT INTO user_statistics (
	user_id, games, goals, assists, saves, wins, draws, losses,
	mvp_count, best_keeper_count, worst_count, clean_sheets,
	yellow_cards, red_cards, total_xp, best_streak, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8,
	$9, $10, $11, $12,
	$13, $14, GREATEST(0, $15), $16, NOW()
)
ON CONFLICT (user_id) DO UPDATE SET
	games = user_statistics.games + EXCLUDED.games,
	goals = user_statistics.goals + EXCLUDED.goals,
	assists = user_statistics.assists + EXCLUDED.assists,
	saves = user_statistics.saves + EXCLUDED.saves,
	wins = user_statistics.wins + EXCLUDED.wins,
	draws = user_statistics.draws + EXCLUDED.draws,
	losses = user_statistics.losses + EXCLUDED.losses,
	mvp_count = user_statistics.mvp_count + EXCLUDED.mvp_count,
	best_keeper_count = user_statistics.best_keeper_count + EXCLUDED.best_keeper_count,
	worst_count = user_statistics.worst_count + EXCLUDED.worst_count,
	clean_sheets = user_statistics.clean_sheets + EXCLUDED.clean_sheets,
	yellow_cards = user_statistics.yellow_cards + EXCLUDED.yellow_cards,
	red_cards = user_statistics.red_cards + EXCLUDED.red_cards,
	total_xp = GREATEST(0, user_statistics.total_xp + $15),
	best_streak = GREATEST(user_statistics.best_streak, EXCLUDED.best_streak),
	updated_at = NOW()
RETURNING *`

	var row statisticsTableModel
	if err := r.db.GetContext(ctx, &row, query,
		userID, delta.Games, delta.Goals, delta.Assists, delta.Saves,
		delta.Wins, delta.Draws, delta.Losses,
		delta.MvpCount, delta.BestKeeperCount, delta.WorstCount, delta.CleanSheets,
		delta.YellowCards, delta.RedCards, delta.Xp, delta.StreakAfterGame,
	); err != nil {
		return stats.Statistics{}, crerr.Wrap(err, "apply statistics delta")
	}
	return row.toDomain(), nil
}

func (r *StatsRepository) Replace(ctx context.Context, snapshot stats.Statistics) error {
	const query = `INSERT INTO user_statistics (
	user_id, games, goals, assists, saves, wins, draws, losses,
	mvp_count, best_keeper_count, worst_count, clean_sheets,
	yellow_cards, red_cards, total_xp, best_streak, updated_at
) VALUES (
	:user_id, :games, :goals, :assists, :saves, :wins, :draws, :losses,
	:mvp_count, :best_keeper_count, :worst_count, :clean_sheets,
	:yellow_cards, :red_cards, :total_xp, :best_streak, NOW()
)
ON CONFLICT (user_id) DO UPDATE SET
	games = EXCLUDED.games,
	goals = EXCLUDED.goals,
	assists = EXCLUDED.assists,
	saves = EXCLUDED.saves,
	wins = EXCLUDED.wins,
	draws = EXCLUDED.draws,
	losses = EXCLUDED.losses,
	mvp_count = EXCLUDED.mvp_count,
	best_keeper_count = EXCLUDED.best_keeper_count,
	worst_count = EXCLUDED.worst_count,
	clean_sheets = EXCLUDED.clean_sheets,
	yellow_cards = EXCLUDED.yellow_cards,
	red_cards = EXCLUDED.red_cards,
	total_xp = EXCLUDED.total_xp,
	best_streak = EXCLUDED.best_streak,
	updated_at = NOW()`

	row := statisticsTableModel{
		UserID:          snapshot.UserID,
		Games:           snapshot.Games,
		Goals:           snapshot.Goals,
		Assists:         snapshot.Assists,
		Saves:           snapshot.Saves,
		Wins:            snapshot.Wins,
		Draws:           snapshot.Draws,
		Losses:          snapshot.Losses,
		MvpCount:        snapshot.MvpCount,
		BestKeeperCount: snapshot.BestKeeperCount,
		WorstCount:      snapshot.WorstCount,
		CleanSheets:     snapshot.CleanSheets,
		YellowCards:     snapshot.YellowCards,
		RedCards:        snapshot.RedCards,
		TotalXp:         snapshot.TotalXp,
		BestStreak:      snapshot.BestStreak,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return crerr.Wrap(err, "replace user statistics")
	}
	return nil
}

func (r *StatsRepository) ListUserIDs(ctx context.Context, afterUserID string, limit int) ([]string, error) {
	const query = `SELECT user_id FROM user_statistics WHERE user_id > $1 ORDER BY user_id LIMIT $2`

	if limit <= 0 {
		limit = 100
	}
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, afterUserID, limit); err != nil {
		return nil, crerr.Wrap(err, "list user ids")
	}
	return ids, nil
}
