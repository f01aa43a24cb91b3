package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, entry ledger.Entry) error {
	row, err := ledgerEntryToModel(entry)
	if err != nil {
		return err
	}

	const query = `INSERT INTO xp_ledger (
	id, match_id, user_id, group_id, season_id,
	xp_before, xp_after, level_before, level_after,
	breakdown, delta, unlocked_milestone_ids, streak_after_game,
	played_at, created_at
) VALUES (
	:id, :match_id, :user_id, :group_id, :season_id,
	:xp_before, :xp_after, :level_before, :level_after,
	:breakdown, :delta, :unlocked_milestone_ids, :streak_after_game,
	:played_at, :created_at
)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return crerr.Wrapf(ledger.ErrDuplicateEntry, "match=%s user=%s", entry.MatchID, entry.UserID)
		}
		return crerr.Wrap(err, "append ledger entry")
	}
	return nil
}

func (r *LedgerRepository) Get(ctx context.Context, matchID, userID string) (ledger.Entry, bool, error) {
	const query = `SELECT * FROM xp_ledger WHERE match_id = $1 AND user_id = $2`

	var row ledgerEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID, userID); err != nil {
		if isNotFound(err) {
			return ledger.Entry{}, false, nil
		}
		return ledger.Entry{}, false, crerr.Wrap(err, "get ledger entry")
	}

	entry, err := row.toDomain()
	if err != nil {
		return ledger.Entry{}, false, err
	}
	return entry, true, nil
}

func (r *LedgerRepository) ListByUser(ctx context.Context, userID string) ([]ledger.Entry, error) {
	const query = `SELECT * FROM xp_ledger WHERE user_id = $1 ORDER BY played_at, created_at`

	var rows []ledgerEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, crerr.Wrap(err, "list ledger entries by user")
	}

	out := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *LedgerRepository) ListUserIDsByMatch(ctx context.Context, matchID string) (map[string]struct{}, error) {
	const query = `SELECT user_id FROM xp_ledger WHERE match_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, matchID); err != nil {
		return nil, crerr.Wrap(err, "list ledgered users by match")
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
