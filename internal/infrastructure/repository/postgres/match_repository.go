package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	const query = `SELECT * FROM matches WHERE id = $1`

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrap(err, "get match")
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListConfirmationsByMatch(ctx context.Context, matchID string) ([]match.Confirmation, error) {
	const query = `SELECT * FROM match_confirmations WHERE match_id = $1 ORDER BY user_id`

	var rows []confirmationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, crerr.Wrap(err, "list match confirmations")
	}

	out := make([]match.Confirmation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ListFinishedByUser(ctx context.Context, userID, scheduleID string) ([]match.Match, error) {
	query := `SELECT m.* FROM matches m
JOIN match_confirmations c ON c.match_id = m.id
WHERE c.user_id = $1 AND c.status = 'CONFIRMED' AND m.status = 'FINISHED'`
	args := []any{userID}
	if scheduleID != "" {
		query += ` AND m.schedule_id = $2`
		args = append(args, scheduleID)
	}
	query += ` ORDER BY m.played_at`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list finished matches by user")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) TryMarkProcessed(ctx context.Context, matchID string) (bool, error) {
	const query = `UPDATE matches SET processed = TRUE, updated_at = NOW()
WHERE id = $1 AND processed = FALSE`

	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return false, crerr.Wrap(err, "mark match processed")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "read mark processed result")
	}
	return affected == 1, nil
}

func (r *MatchRepository) IsProcessed(ctx context.Context, matchID string) (bool, error) {
	const query = `SELECT processed FROM matches WHERE id = $1`

	var processed bool
	if err := r.db.GetContext(ctx, &processed, query, matchID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, crerr.Wrap(err, "check match processed")
	}
	return processed, nil
}
