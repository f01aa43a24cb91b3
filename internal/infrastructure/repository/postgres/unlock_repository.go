package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
)

type unlockTableModel struct {
	UserID      string    `db:"user_id"`
	MilestoneID string    `db:"milestone_id"`
	Count       int       `db:"count"`
	UnlockedAt  time.Time `db:"unlocked_at"`
}

type UnlockRepository struct {
	db *sqlx.DB
}

func NewUnlockRepository(db *sqlx.DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

func (r *UnlockRepository) ListIDsByUser(ctx context.Context, userID string) (map[string]struct{}, error) {
	const query = `SELECT milestone_id FROM milestone_unlocks WHERE user_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, crerr.Wrap(err, "list unlocked milestone ids")
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *UnlockRepository) ListByUser(ctx context.Context, userID string) ([]milestone.Unlock, error) {
	const query = `SELECT * FROM milestone_unlocks WHERE user_id = $1 ORDER BY milestone_id`

	var rows []unlockTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, crerr.Wrap(err, "list milestone unlocks")
	}

	out := make([]milestone.Unlock, 0, len(rows))
	for _, row := range rows {
		out = append(out, milestone.Unlock{
			UserID:      row.UserID,
			MilestoneID: row.MilestoneID,
			Count:       row.Count,
			UnlockedAt:  row.UnlockedAt,
		})
	}
	return out, nil
}

func (r *UnlockRepository) Record(ctx context.Context, unlock milestone.Unlock) error {
	const query = `INSERT INTO milestone_unlocks (user_id, milestone_id, count, unlocked_at)
VALUES ($1, $2, GREATEST(1, $3), $4)
ON CONFLICT (user_id, milestone_id) DO UPDATE SET
	count = milestone_unlocks.count + 1`

	if _, err := r.db.ExecContext(ctx, query, unlock.UserID, unlock.MilestoneID, unlock.Count, unlock.UnlockedAt); err != nil {
		return crerr.Wrap(err, "record milestone unlock")
	}
	return nil
}

func (r *UnlockRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM milestone_unlocks WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return crerr.Wrap(err, "delete milestone unlocks")
	}
	return nil
}
