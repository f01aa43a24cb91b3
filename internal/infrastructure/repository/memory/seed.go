package memory

import (
	"time"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
)

// Demo data for running the service without a database. One pickup group with
// a weekly schedule, an active season, and two finished matches awaiting
// processing.

const (
	seedGroupID    = "grupo-quarta"
	seedScheduleID = "quarta-21h"
	seedSeasonID   = "season-2026-1"
)

func seedTime(day int, hour int) time.Time {
	return time.Date(2026, time.August, day, hour, 0, 0, 0, time.UTC)
}

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:       seedSeasonID,
			GroupID:  seedGroupID,
			Name:     "Temporada 2026/1",
			StartsAt: seedTime(1, 0),
			EndsAt:   seedTime(31, 23),
			IsActive: true,
		},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         "match-0812",
			GroupID:    seedGroupID,
			ScheduleID: seedScheduleID,
			SeasonID:   seedSeasonID,
			PlayedAt:   seedTime(12, 21),
			TeamAScore: 4,
			TeamBScore: 2,
			Status:     match.StatusFinished,
			MvpUserID:  "user-rafa",
		},
		{
			ID:               "match-0819",
			GroupID:          seedGroupID,
			ScheduleID:       seedScheduleID,
			SeasonID:         seedSeasonID,
			PlayedAt:         seedTime(19, 21),
			TeamAScore:       1,
			TeamBScore:       1,
			Status:           match.StatusFinished,
			BestKeeperUserID: "user-dudu",
			WorstUserID:      "user-leo",
		},
	}
}

func SeedConfirmations() []match.Confirmation {
	return []match.Confirmation{
		{MatchID: "match-0812", UserID: "user-rafa", Status: match.ConfirmationConfirmed, Team: match.TeamA, Goals: 2, Assists: 1},
		{MatchID: "match-0812", UserID: "user-leo", Status: match.ConfirmationConfirmed, Team: match.TeamA, Goals: 1},
		{MatchID: "match-0812", UserID: "user-dudu", Status: match.ConfirmationConfirmed, Team: match.TeamB, IsGoalkeeper: true, Saves: 6},
		{MatchID: "match-0812", UserID: "user-nando", Status: match.ConfirmationConfirmed, Team: match.TeamB, Goals: 2},
		{MatchID: "match-0812", UserID: "user-gui", Status: match.ConfirmationDeclined, Team: match.TeamB},

		{MatchID: "match-0819", UserID: "user-rafa", Status: match.ConfirmationConfirmed, Team: match.TeamA, Goals: 1},
		{MatchID: "match-0819", UserID: "user-leo", Status: match.ConfirmationConfirmed, Team: match.TeamA, YellowCards: 1},
		{MatchID: "match-0819", UserID: "user-dudu", Status: match.ConfirmationConfirmed, Team: match.TeamB, IsGoalkeeper: true, Saves: 4},
		{MatchID: "match-0819", UserID: "user-nando", Status: match.ConfirmationConfirmed, Team: match.TeamB, Goals: 1},
	}
}
