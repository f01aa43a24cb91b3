package postgres

import (
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
)

type ledgerEntryTableModel struct {
	ID                   string         `db:"id"`
	MatchID              string         `db:"match_id"`
	UserID               string         `db:"user_id"`
	GroupID              string         `db:"group_id"`
	SeasonID             string         `db:"season_id"`
	XpBefore             int            `db:"xp_before"`
	XpAfter              int            `db:"xp_after"`
	LevelBefore          int            `db:"level_before"`
	LevelAfter           int            `db:"level_after"`
	Breakdown            []byte         `db:"breakdown"`
	Delta                []byte         `db:"delta"`
	UnlockedMilestoneIDs pq.StringArray `db:"unlocked_milestone_ids"`
	StreakAfterGame      int            `db:"streak_after_game"`
	PlayedAt             time.Time      `db:"played_at"`
	CreatedAt            time.Time      `db:"created_at"`
}

// ledgerDeltaPayload is the stored shape of a stats delta. It mirrors
// stats.Delta field for field so a schema reader can audit entries by eye.
type ledgerDeltaPayload struct {
	Games           int `json:"games"`
	Goals           int `json:"goals"`
	Assists         int `json:"assists"`
	Saves           int `json:"saves"`
	Wins            int `json:"wins"`
	Draws           int `json:"draws"`
	Losses          int `json:"losses"`
	MvpCount        int `json:"mvp_count"`
	BestKeeperCount int `json:"best_keeper_count"`
	WorstCount      int `json:"worst_count"`
	CleanSheets     int `json:"clean_sheets"`
	YellowCards     int `json:"yellow_cards"`
	RedCards        int `json:"red_cards"`
	Xp              int `json:"xp"`
	StreakAfterGame int `json:"streak_after_game"`
}

func ledgerEntryToModel(entry ledger.Entry) (ledgerEntryTableModel, error) {
	breakdown, err := sonic.Marshal(entry.Breakdown)
	if err != nil {
		return ledgerEntryTableModel{}, crerr.Wrap(err, "marshal breakdown")
	}
	delta, err := sonic.Marshal(ledgerDeltaPayload(entry.Delta))
	if err != nil {
		return ledgerEntryTableModel{}, crerr.Wrap(err, "marshal delta")
	}
	return ledgerEntryTableModel{
		ID:                   entry.ID,
		MatchID:              entry.MatchID,
		UserID:               entry.UserID,
		GroupID:              entry.GroupID,
		SeasonID:             entry.SeasonID,
		XpBefore:             entry.XpBefore,
		XpAfter:              entry.XpAfter,
		LevelBefore:          entry.LevelBefore,
		LevelAfter:           entry.LevelAfter,
		Breakdown:            breakdown,
		Delta:                delta,
		UnlockedMilestoneIDs: pq.StringArray(entry.UnlockedMilestoneIDs),
		StreakAfterGame:      entry.StreakAfterGame,
		PlayedAt:             entry.PlayedAt,
		CreatedAt:            entry.CreatedAt,
	}, nil
}

func (m ledgerEntryTableModel) toDomain() (ledger.Entry, error) {
	var breakdown xp.Breakdown
	if len(m.Breakdown) > 0 {
		if err := sonic.Unmarshal(m.Breakdown, &breakdown); err != nil {
			return ledger.Entry{}, crerr.Wrap(err, "unmarshal breakdown")
		}
	}
	var delta ledgerDeltaPayload
	if len(m.Delta) > 0 {
		if err := sonic.Unmarshal(m.Delta, &delta); err != nil {
			return ledger.Entry{}, crerr.Wrap(err, "unmarshal delta")
		}
	}
	return ledger.Entry{
		ID:                   m.ID,
		MatchID:              m.MatchID,
		UserID:               m.UserID,
		GroupID:              m.GroupID,
		SeasonID:             m.SeasonID,
		XpBefore:             m.XpBefore,
		XpAfter:              m.XpAfter,
		LevelBefore:          m.LevelBefore,
		LevelAfter:           m.LevelAfter,
		Breakdown:            breakdown,
		Delta:                stats.Delta(delta),
		UnlockedMilestoneIDs: []string(m.UnlockedMilestoneIDs),
		StreakAfterGame:      m.StreakAfterGame,
		PlayedAt:             m.PlayedAt,
		CreatedAt:            m.CreatedAt,
	}, nil
}
