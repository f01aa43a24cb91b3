package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
)

const (
	TeamA = "A"
	TeamB = "B"
)

// Match is one organized game between two pickup sides.
type Match struct {
	ID         string
	GroupID    string
	ScheduleID string
	SeasonID   string
	PlayedAt   time.Time
	TeamAScore int
	TeamBScore int
	Status     string
	MvpUserID  string
	// WorstUserID carries the vote for the "lanterna" of the game, if any.
	WorstUserID      string
	BestKeeperUserID string
	Processed        bool
	FinishedAt       *time.Time
}

const (
	ConfirmationPending   = "PENDING"
	ConfirmationConfirmed = "CONFIRMED"
	ConfirmationDeclined  = "DECLINED"
)

// Confirmation is one player's roster answer for one match.
type Confirmation struct {
	MatchID      string
	UserID       string
	Status       string
	Team         string
	IsGoalkeeper bool
	Goals        int
	Assists      int
	Saves        int
	YellowCards  int
	RedCards     int
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "ENDED":
		return true
	default:
		return false
	}
}

func NormalizeConfirmation(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return ConfirmationPending
	}
	return status
}

func IsConfirmed(status string) bool {
	return NormalizeConfirmation(status) == ConfirmationConfirmed
}

func NormalizeTeam(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// Score returns the score of the given side and of its opponent.
func (m Match) Score(team string) (own int, opponent int) {
	if NormalizeTeam(team) == TeamB {
		return m.TeamBScore, m.TeamAScore
	}
	return m.TeamAScore, m.TeamBScore
}
