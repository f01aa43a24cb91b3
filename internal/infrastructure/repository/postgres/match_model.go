package postgres

import (
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
)

type matchTableModel struct {
	ID               string     `db:"id"`
	GroupID          string     `db:"group_id"`
	ScheduleID       string     `db:"schedule_id"`
	SeasonID         string     `db:"season_id"`
	PlayedAt         time.Time  `db:"played_at"`
	TeamAScore       int        `db:"team_a_score"`
	TeamBScore       int        `db:"team_b_score"`
	Status           string     `db:"status"`
	MvpUserID        string     `db:"mvp_user_id"`
	WorstUserID      string     `db:"worst_user_id"`
	BestKeeperUserID string     `db:"best_keeper_user_id"`
	Processed        bool       `db:"processed"`
	FinishedAt       *time.Time `db:"finished_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:               m.ID,
		GroupID:          m.GroupID,
		ScheduleID:       m.ScheduleID,
		SeasonID:         m.SeasonID,
		PlayedAt:         m.PlayedAt,
		TeamAScore:       m.TeamAScore,
		TeamBScore:       m.TeamBScore,
		Status:           m.Status,
		MvpUserID:        m.MvpUserID,
		WorstUserID:      m.WorstUserID,
		BestKeeperUserID: m.BestKeeperUserID,
		Processed:        m.Processed,
		FinishedAt:       m.FinishedAt,
	}
}

type confirmationTableModel struct {
	ID           int64  `db:"id"`
	MatchID      string `db:"match_id"`
	UserID       string `db:"user_id"`
	Status       string `db:"status"`
	Team         string `db:"team"`
	IsGoalkeeper bool   `db:"is_goalkeeper"`
	Goals        int    `db:"goals"`
	Assists      int    `db:"assists"`
	Saves        int    `db:"saves"`
	YellowCards  int    `db:"yellow_cards"`
	RedCards     int    `db:"red_cards"`
}

func (m confirmationTableModel) toDomain() match.Confirmation {
	return match.Confirmation{
		MatchID:      m.MatchID,
		UserID:       m.UserID,
		Status:       m.Status,
		Team:         m.Team,
		IsGoalkeeper: m.IsGoalkeeper,
		Goals:        m.Goals,
		Assists:      m.Assists,
		Saves:        m.Saves,
		YellowCards:  m.YellowCards,
		RedCards:     m.RedCards,
	}
}
