package postgres

import (
	"context"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
)

type seasonTableModel struct {
	ID       string    `db:"id"`
	GroupID  string    `db:"group_id"`
	Name     string    `db:"name"`
	StartsAt time.Time `db:"starts_at"`
	EndsAt   time.Time `db:"ends_at"`
	IsActive bool      `db:"is_active"`
}

type participationTableModel struct {
	SeasonID     string    `db:"season_id"`
	UserID       string    `db:"user_id"`
	Games        int       `db:"games"`
	Wins         int       `db:"wins"`
	Draws        int       `db:"draws"`
	Losses       int       `db:"losses"`
	Window       []byte    `db:"rating_window"`
	LeagueRating float64   `db:"league_rating"`
	Division     string    `db:"division"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m participationTableModel) toDomain() (season.Participation, error) {
	var window []season.OutcomeSample
	if len(m.Window) > 0 {
		if err := sonic.Unmarshal(m.Window, &window); err != nil {
			return season.Participation{}, crerr.Wrap(err, "unmarshal rating window")
		}
	}
	return season.Participation{
		SeasonID:     m.SeasonID,
		UserID:       m.UserID,
		Games:        m.Games,
		Wins:         m.Wins,
		Draws:        m.Draws,
		Losses:       m.Losses,
		Window:       window,
		LeagueRating: m.LeagueRating,
		Division:     season.NormalizeDivision(m.Division),
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetActiveByGroup(ctx context.Context, groupID string) (season.Season, bool, error) {
	const query = `SELECT * FROM seasons WHERE group_id = $1 AND is_active = TRUE ORDER BY starts_at DESC LIMIT 1`

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, groupID); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, crerr.Wrap(err, "get active season")
	}
	return season.Season{
		ID:       row.ID,
		GroupID:  row.GroupID,
		Name:     row.Name,
		StartsAt: row.StartsAt,
		EndsAt:   row.EndsAt,
		IsActive: row.IsActive,
	}, true, nil
}

func (r *SeasonRepository) GetParticipation(ctx context.Context, seasonID, userID string) (season.Participation, bool, error) {
	const query = `SELECT * FROM season_participations WHERE season_id = $1 AND user_id = $2`

	var row participationTableModel
	if err := r.db.GetContext(ctx, &row, query, seasonID, userID); err != nil {
		if isNotFound(err) {
			return season.Participation{}, false, nil
		}
		return season.Participation{}, false, crerr.Wrap(err, "get season participation")
	}

	participation, err := row.toDomain()
	if err != nil {
		return season.Participation{}, false, err
	}
	return participation, true, nil
}

func (r *SeasonRepository) UpsertParticipation(ctx context.Context, participation season.Participation) error {
	window, err := sonic.Marshal(participation.Window)
	if err != nil {
		return crerr.Wrap(err, "marshal rating window")
	}

	const query = `INSERT INTO season_participations (
	season_id, user_id, games, wins, draws, losses,
	rating_window, league_rating, division, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, NOW()
)
ON CONFLICT (season_id, user_id) DO UPDATE SET
	games = EXCLUDED.games,
	wins = EXCLUDED.wins,
	draws = EXCLUDED.draws,
	losses = EXCLUDED.losses,
	rating_window = EXCLUDED.rating_window,
	league_rating = EXCLUDED.league_rating,
	division = EXCLUDED.division,
	updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query,
		participation.SeasonID, participation.UserID,
		participation.Games, participation.Wins, participation.Draws, participation.Losses,
		window, participation.LeagueRating, string(participation.Division),
	); err != nil {
		return crerr.Wrap(err, "upsert season participation")
	}
	return nil
}

func (r *SeasonRepository) ListParticipationsBySeason(ctx context.Context, seasonID string) ([]season.Participation, error) {
	const query = `SELECT * FROM season_participations WHERE season_id = $1 ORDER BY league_rating DESC, user_id`

	var rows []participationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, crerr.Wrap(err, "list season participations")
	}

	out := make([]season.Participation, 0, len(rows))
	for _, row := range rows {
		participation, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, participation)
	}
	return out, nil
}
