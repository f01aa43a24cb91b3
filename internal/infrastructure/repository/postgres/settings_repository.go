package postgres

import (
	"context"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
)

type settingsTableModel struct {
	GroupID      string    `db:"group_id"`
	Version      int       `db:"version"`
	Presence     int       `db:"presence"`
	PerGoal      int       `db:"per_goal"`
	PerAssist    int       `db:"per_assist"`
	PerSave      int       `db:"per_save"`
	CleanSheet   int       `db:"clean_sheet"`
	Win          int       `db:"win"`
	Draw         int       `db:"draw"`
	Mvp          int       `db:"mvp"`
	BestKeeper   int       `db:"best_keeper"`
	WorstPenalty int       `db:"worst_penalty"`
	StreakTiers  []byte    `db:"streak_tiers"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type streakTierPayload struct {
	Games int `json:"games"`
	Bonus int `json:"bonus"`
}

func (m settingsTableModel) toDomain() (xp.Settings, error) {
	var tiers []streakTierPayload
	if len(m.StreakTiers) > 0 {
		if err := sonic.Unmarshal(m.StreakTiers, &tiers); err != nil {
			return xp.Settings{}, crerr.Wrap(err, "unmarshal streak tiers")
		}
	}
	out := xp.Settings{
		GroupID:      m.GroupID,
		Version:      m.Version,
		Presence:     m.Presence,
		PerGoal:      m.PerGoal,
		PerAssist:    m.PerAssist,
		PerSave:      m.PerSave,
		CleanSheet:   m.CleanSheet,
		Win:          m.Win,
		Draw:         m.Draw,
		Mvp:          m.Mvp,
		BestKeeper:   m.BestKeeper,
		WorstPenalty: m.WorstPenalty,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, tier := range tiers {
		out.StreakTiers = append(out.StreakTiers, xp.StreakTier(tier))
	}
	return out, nil
}

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetByGroup(ctx context.Context, groupID string) (xp.Settings, bool, error) {
	const query = `SELECT * FROM xp_settings WHERE group_id = $1`

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query, groupID); err != nil {
		if isNotFound(err) {
			return xp.Settings{}, false, nil
		}
		return xp.Settings{}, false, crerr.Wrap(err, "get xp settings")
	}

	settings, err := row.toDomain()
	if err != nil {
		return xp.Settings{}, false, err
	}
	return settings, true, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings xp.Settings) (xp.Settings, error) {
	tiers := make([]streakTierPayload, 0, len(settings.StreakTiers))
	for _, tier := range settings.StreakTiers {
		tiers = append(tiers, streakTierPayload(tier))
	}
	tiersJSON, err := sonic.Marshal(tiers)
	if err != nil {
		return xp.Settings{}, crerr.Wrap(err, "marshal streak tiers")
	}

	const query = `INSERT INTO xp_settings (
	group_id, version, presence, per_goal, per_assist, per_save,
	clean_sheet, win, draw, mvp, best_keeper, worst_penalty,
	streak_tiers, updated_at
) VALUES (
	$1, 1, $2, $3, $4, $5,
	$6, $7, $8, $9, $10, $11,
	$12, NOW()
)
ON CONFLICT (group_id) DO UPDATE SET
	version = xp_settings.version + 1,
	presence = EXCLUDED.presence,
	per_goal = EXCLUDED.per_goal,
	per_assist = EXCLUDED.per_assist,
	per_save = EXCLUDED.per_save,
	clean_sheet = EXCLUDED.clean_sheet,
	win = EXCLUDED.win,
	draw = EXCLUDED.draw,
	mvp = EXCLUDED.mvp,
	best_keeper = EXCLUDED.best_keeper,
	worst_penalty = EXCLUDED.worst_penalty,
	streak_tiers = EXCLUDED.streak_tiers,
	updated_at = NOW()
RETURNING *`

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query,
		settings.GroupID, settings.Presence, settings.PerGoal, settings.PerAssist, settings.PerSave,
		settings.CleanSheet, settings.Win, settings.Draw, settings.Mvp, settings.BestKeeper, settings.WorstPenalty,
		tiersJSON,
	); err != nil {
		return xp.Settings{}, crerr.Wrap(err, "upsert xp settings")
	}
	return row.toDomain()
}
